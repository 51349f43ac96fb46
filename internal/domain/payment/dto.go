package payment

import "gallopmart/internal/domain/subscription"

type CreateOrderRequest struct {
	Plan string `json:"plan" binding:"required" example:"Gallop"`
}

type CreateOrderResponse struct {
	OrderID     string `json:"order_id" example:"order_9f2c4e1ab37d5c60"`
	KeyID       string `json:"key_id" example:"rzp_test_abc"`
	Plan        string `json:"plan" example:"Gallop"`
	AmountPaise int64  `json:"amount" example:"249900"`
	AmountINR   string `json:"amount_inr" example:"2499.00"`
	Currency    string `json:"currency" example:"INR"`
	Status      string `json:"status" example:"created"`
}

type VerifyPaymentRequest struct {
	OrderID   string `json:"order_id" binding:"required"`
	PaymentID string `json:"payment_id" binding:"required"`
	Signature string `json:"signature" binding:"required"`
}

func buildCreateOrderResponse(o *Order, keyID string) *CreateOrderResponse {
	price, _ := subscription.PriceINR(o.Plan)
	return &CreateOrderResponse{
		OrderID:     o.GatewayOrderID,
		KeyID:       keyID,
		Plan:        string(o.Plan),
		AmountPaise: o.AmountPaise,
		AmountINR:   price.StringFixed(2),
		Currency:    o.Currency,
		Status:      string(o.Status),
	}
}
