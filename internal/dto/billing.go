package dto

type CheckoutRequest struct {
	Cadence string `json:"cadence" validate:"omitempty,oneof=monthly yearly"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}
