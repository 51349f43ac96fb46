package payment

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Order, error)
	MarkFailed(ctx context.Context, gatewayOrderID, reason string) error
	// MarkPaid reports false when the order was already paid.
	MarkPaid(ctx context.Context, gatewayOrderID, paymentID string, paidAt time.Time) (bool, error)
	// MarkActivated records that the paid plan has been applied.
	MarkActivated(ctx context.Context, gatewayOrderID string, at time.Time) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, o *Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

func (r *repository) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Order, error) {
	var o Order
	if err := r.db.WithContext(ctx).Where("gateway_order_id = ?", gatewayOrderID).First(&o).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &o, nil
}

// MarkFailed never downgrades a paid order.
func (r *repository) MarkFailed(ctx context.Context, gatewayOrderID, reason string) error {
	return r.db.WithContext(ctx).Model(&Order{}).
		Where("gateway_order_id = ? AND status <> ?", gatewayOrderID, OrderStatusPaid).
		Updates(map[string]any{
			"status":         OrderStatusFailed,
			"failure_reason": reason,
		}).Error
}

func (r *repository) MarkPaid(ctx context.Context, gatewayOrderID, paymentID string, paidAt time.Time) (bool, error) {
	var changed bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var o Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("gateway_order_id = ?", gatewayOrderID).First(&o).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if o.Status == OrderStatusPaid {
			changed = false
			return nil
		}
		res := tx.Model(&Order{}).Where("gateway_order_id = ? AND status <> ?", gatewayOrderID, OrderStatusPaid).Updates(map[string]any{
			"status":         OrderStatusPaid,
			"payment_id":     paymentID,
			"failure_reason": "",
			"paid_at":        paidAt,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errors.New("payment order not updated")
		}
		changed = true
		return nil
	})
	return changed, err
}

func (r *repository) MarkActivated(ctx context.Context, gatewayOrderID string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&Order{}).
		Where("gateway_order_id = ? AND status = ?", gatewayOrderID, OrderStatusPaid).
		Updates(map[string]any{"activated_at": at, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrOrderNotFound
	}
	return nil
}
