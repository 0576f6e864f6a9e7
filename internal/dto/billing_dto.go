package dto

// CheckoutSessionRequest accepts product_id from the JSON body or the query
// string.
type CheckoutSessionRequest struct {
	ProductID string `json:"product_id" query:"product_id" validate:"required"`
}

type CheckoutSessionResponse struct {
	SessionID string `json:"session_id"`
	URL       string `json:"url"`
}

type WebhookResponse struct {
	Status string `json:"status"`
}
