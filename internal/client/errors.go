package client

import "fmt"

// APIError - типизированная ошибка уровня HTTP/авторизации.
// Status == 0 означает транспортный сбой (ответ не получен вовсе).
type APIError struct {
	Message string
	Status  int
	Code    string
}

func (e *APIError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: %s", e.Message)
}

// NewAPIError создает ошибку с HTTP статусом.
func NewAPIError(message string, status int) *APIError {
	return &APIError{Message: message, Status: status}
}

// NewTransportError создает ошибку без статуса (ответ не был получен).
func NewTransportError(message string) *APIError {
	return &APIError{Message: message}
}
