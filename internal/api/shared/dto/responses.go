package dto

// TrackResponse acknowledges a beacon or pageview write
type TrackResponse struct {
	Success bool `json:"success"`
}

// IdentifyResponse reports the customer an identification resolved to
type IdentifyResponse struct {
	Success       bool   `json:"success"`
	CustomerID    string `json:"customerId"`
	IsNewCustomer bool   `json:"isNewCustomer"`
}
