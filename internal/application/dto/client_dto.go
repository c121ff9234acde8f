package dto

// CreateClientProviderRequest body para POST /api/clients.
type CreateClientProviderRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	CUIT  string `json:"cuit" validate:"required"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" validate:"omitempty,max=50"`
}

// ClientProviderResponse cliente/proveedor en respuestas.
type ClientProviderResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	CUIT  string `json:"cuit"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}
