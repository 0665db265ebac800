package domain

// Service is an entry of the service catalog (GET /servicios).
type Service struct {
	ID               string    `json:"id"`
	Name             string    `json:"nombre"`
	Description      string    `json:"descripcion"`
	PriceCoins       int       `json:"precioMonedas"`
	RequiresDelivery bool      `json:"requiereEntrega"`
	Active           bool      `json:"activo"`
	WaitMinutes      Minutes   `json:"tiempoEsperaMinutos"`
	CreatedAt        Timestamp `json:"fechaCreacion"`
	ImageURL         string    `json:"imgUrl"`
}

// CreateServiceInput is the body of POST /servicios.
type CreateServiceInput struct {
	Name             string `json:"nombre"`
	Description      string `json:"descripcion"`
	PriceCoins       int    `json:"precioMonedas"`
	RequiresDelivery bool   `json:"requiereEntrega"`
	Active           bool   `json:"activo"`
	WaitMinutes      int    `json:"tiempoEsperaMinutos"`
	ImageURL         string `json:"imgUrl"`
}

// UpdateServiceInput is the body of PATCH /servicios/{id}. Nil fields are
// left untouched by the API; the image URL is always sent.
type UpdateServiceInput struct {
	Name             *string `json:"nombre,omitempty"`
	Description      *string `json:"descripcion,omitempty"`
	PriceCoins       *int    `json:"precioMonedas,omitempty"`
	RequiresDelivery *bool   `json:"requiereEntrega,omitempty"`
	Active           *bool   `json:"activo,omitempty"`
	WaitMinutes      *int    `json:"tiempoEsperaMinutos,omitempty"`
	ImageURL         string  `json:"imgUrl"`
}
