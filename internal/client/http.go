package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// doRequest выполняет один аутентифицированный запрос к API историй и
// декодирует JSON ответа в out (если out != nil).
//
// Политика ошибок:
//   - не-2xx: пробуем вытащить message из JSON тела, иначе берем статус-текст;
//     возвращаем *APIError{Message, Status};
//   - 204: возвращаемся без декодирования (пустое тело не должно ломать парсер);
//   - транспортный сбой (ответа нет): *APIError без статуса.
//
// Ретраев нет сознательно: повтор - явное решение вызывающего.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	requestURL := c.baseURL + path
	log := c.logger.With(zap.String("method", method), zap.String("url", requestURL))

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			log.Error("Failed to marshal request body", zap.Error(err))
			return fmt.Errorf("internal error marshaling request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
	if err != nil {
		log.Error("Failed to create HTTP request", zap.Error(err))
		return fmt.Errorf("internal error creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	log.Debug("Sending request to story API")
	resp, err := c.auth.Do(ctx, req)
	if err != nil {
		// Типизированную ошибку авторизации пропускаем как есть
		if apiErr, ok := err.(*APIError); ok {
			log.Warn("Authenticated request failed", zap.Error(apiErr))
			return apiErr
		}
		log.Error("HTTP request failed", zap.Error(err))
		return NewTransportError(err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.errorFromResponse(resp, log)
	}

	// 204 No Content: тела нет, декодировать нечего
	if resp.StatusCode == http.StatusNoContent || out == nil {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Int("status", resp.StatusCode), zap.Error(err))
		return NewTransportError("failed to read response: " + err.Error())
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		log.Error("Failed to unmarshal response", zap.Int("status", resp.StatusCode), zap.ByteString("body", respBody), zap.Error(err))
		return NewAPIError("invalid response format from story API", resp.StatusCode)
	}

	return nil
}

// errorFromResponse нормализует не-2xx ответ в *APIError.
func (c *Client) errorFromResponse(resp *http.Response, log *zap.Logger) error {
	message := fmt.Sprintf("HTTP %d", resp.StatusCode)

	respBody, readErr := io.ReadAll(resp.Body)
	if readErr == nil && len(respBody) > 0 {
		var errBody struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errBody); err == nil {
			if errBody.Message != "" {
				message = errBody.Message
			} else if errBody.Error != "" {
				message = errBody.Error
			} else if text := http.StatusText(resp.StatusCode); text != "" {
				message = text
			}
		} else if text := http.StatusText(resp.StatusCode); text != "" {
			// Тело не распарсилось - берем статус-текст
			message = text
		}
	} else if text := http.StatusText(resp.StatusCode); text != "" {
		message = text
	}

	log.Warn("Story API returned error status", zap.Int("status", resp.StatusCode), zap.String("message", message))
	return NewAPIError(message, resp.StatusCode)
}
