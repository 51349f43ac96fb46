package payment

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gallopmart/internal/domain/subscription"
)

type OrderStatus string

const (
	OrderStatusCreated OrderStatus = "created"
	OrderStatusPaid    OrderStatus = "paid"
	OrderStatusFailed  OrderStatus = "failed"
)

const CurrencyINR = "INR"

// Order is a plan purchase placed with the payment gateway.
type Order struct {
	ID             string            `gorm:"column:id;type:varchar(36);primaryKey" json:"id"`
	SellerID       int64             `gorm:"column:seller_id;not null;index" json:"seller_id"`
	Plan           subscription.Plan `gorm:"column:plan;type:varchar(32);not null" json:"plan"`
	GatewayOrderID string            `gorm:"column:gateway_order_id;type:varchar(64);not null;uniqueIndex" json:"gateway_order_id"`
	AmountPaise    int64             `gorm:"column:amount_paise;not null" json:"amount_paise"`
	Currency       string            `gorm:"column:currency;type:varchar(3);not null" json:"currency"`
	Status         OrderStatus       `gorm:"column:status;type:varchar(20);not null;default:'created';index" json:"status"`
	PaymentID      sql.NullString    `gorm:"column:payment_id;type:varchar(64)" json:"payment_id"`
	FailureReason  string            `gorm:"column:failure_reason;type:text" json:"failure_reason"`
	PaidAt         *time.Time        `gorm:"column:paid_at" json:"paid_at"`
	ActivatedAt    *time.Time        `gorm:"column:activated_at" json:"activated_at"`
	CreatedAt      time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (Order) TableName() string { return "payment_orders" }

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
