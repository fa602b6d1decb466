package message

// ErrorResponse описывает ответ с ошибкой запроса.
type ErrorResponse struct {
	Error string `json:"error"`
}
