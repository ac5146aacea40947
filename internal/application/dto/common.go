package dto

// Límites de los listados de órdenes, recepciones, facturas y disputas.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageRequest paginación por limit/offset de los listados del hotel.
type PageRequest struct {
	Limit  int `json:"limit" query:"limit" validate:"min=1,max=100"`
	Offset int `json:"offset" query:"offset" validate:"min=0"`
}

// DefaultPage completa un limit ausente con DefaultPageLimit y lleva offsets negativos a cero.
// Un limit mayor a MaxPageLimit se deja para que la validación lo rechace.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Response arma los metadatos de la página a partir de cuántos registros devolvió la consulta.
// HasMore es una estimación: una página llena sugiere que hay más registros.
func (p PageRequest) Response(returned int) PageResponse {
	return PageResponse{
		Limit:    p.Limit,
		Offset:   p.Offset,
		Returned: returned,
		HasMore:  p.Limit > 0 && returned >= p.Limit,
	}
}

// PageResponse metadatos de página en respuestas.
type PageResponse struct {
	Limit    int  `json:"limit"`
	Offset   int  `json:"offset"`
	Returned int  `json:"returned"`
	HasMore  bool `json:"has_more"`
}

// ErrorResponse cuerpo de error HTTP. Details lista los campos inválidos
// ("items[0].quantity: gt=0") cuando el error viene de la validación.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}
