package dto

type CreateSubscriptionRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type UpdateSubscriptionRequest struct {
	Status string `json:"status" validate:"required,oneof=active canceled past_due inactive"`
}
