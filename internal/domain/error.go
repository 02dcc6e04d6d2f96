package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// O campo Status carrega sempre o valor "error", verificável por máquina.
type ErrorResponse struct {
	Status   string `json:"status" example:"error"`
	Code     int    `json:"code" example:"400"`
	Category string `json:"category" example:"VALIDATION_ERROR"`
	Message  string `json:"message" example:"O título e o autor são obrigatórios."`
}
