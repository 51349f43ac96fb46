package badge

import "time"

// Badge is an earned seller credential. Plan badges are not stored; they are
// read from the subscription snapshot.
type Badge struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	SellerID  int64     `gorm:"column:seller_id;not null;uniqueIndex:idx_badges_seller_name" json:"seller_id"`
	Name      string    `gorm:"column:name;type:varchar(64);not null;uniqueIndex:idx_badges_seller_name" json:"name"`
	AwardedAt time.Time `gorm:"column:awarded_at;not null" json:"awarded_at"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null;index" json:"expires_at"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Badge) TableName() string { return "badges" }

func (b *Badge) IsCurrent(now time.Time) bool {
	return now.Before(b.ExpiresAt)
}
