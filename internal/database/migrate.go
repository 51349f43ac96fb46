package database

import (
	"gorm.io/gorm"

	"gallopmart/internal/domain/badge"
	"gallopmart/internal/domain/listing"
	"gallopmart/internal/domain/payment"
	"gallopmart/internal/domain/seller"
	"gallopmart/internal/domain/subscription"
)

// Models lists every table the service owns.
func Models() []any {
	return []any{
		&seller.Seller{},
		&subscription.Subscription{},
		&listing.Listing{},
		&badge.Badge{},
		&payment.Order{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
