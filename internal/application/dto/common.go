package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Available stock disponible cuando Code = INSUFFICIENT_STOCK.
	Available *int `json:"available,omitempty"`
}
