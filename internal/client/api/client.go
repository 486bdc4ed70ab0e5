package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/iudanet/offsync/pkg/api"
)

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	// versionPreconditions false - сервер не поддерживает expected_version,
	// каждое изменение работает как last write wins
	versionPreconditions bool
}

var _ Remote = (*Client)(nil)

// Option настраивает Client
type Option func(*Client)

// WithToken задает bearer токен
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithTimeout задает таймаут HTTP клиента
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithoutVersionPreconditions включает деградированный режим без проверки версий
func WithoutVersionPreconditions() Option {
	return func(c *Client) {
		c.versionPreconditions = false
	}
}

// NewClient создает новый API клиент
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:              baseURL,
		versionPreconditions: true,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Настройка обработки редиректов
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Ограничиваем количество редиректов
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки Authorization при редиректе
				if len(via) > 0 && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// VersionPreconditions reports whether update/delete send expected versions
func (c *Client) VersionPreconditions() bool {
	return c.versionPreconditions
}

// Create создает сущность. id может быть пустым - тогда его назначит сервер.
func (c *Client) Create(ctx context.Context, entityType, id string, payload json.RawMessage) (*Result, error) {
	var resp api.Entity
	req := api.CreateEntityRequest{ID: id, Data: payload}
	if err := c.doRequest(ctx, http.MethodPost, entityPath(entityType, ""), req, &resp); err != nil {
		return nil, fmt.Errorf("create %s: %w", entityType, err)
	}
	return toResult(resp), nil
}

// Update применяет patch к сущности при совпадении версии
func (c *Client) Update(ctx context.Context, entityType, id string, payload json.RawMessage, expectedVersion int64) (*Result, error) {
	req := api.UpdateEntityRequest{Data: payload}
	if c.versionPreconditions {
		req.ExpectedVersion = &expectedVersion
	}

	var resp api.Entity
	if err := c.doRequest(ctx, http.MethodPut, entityPath(entityType, id), req, &resp); err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", entityType, id, err)
	}
	return toResult(resp), nil
}

// Delete удаляет сущность при совпадении версии
func (c *Client) Delete(ctx context.Context, entityType, id string, expectedVersion int64) error {
	path := entityPath(entityType, id)
	if c.versionPreconditions {
		path += "?expected_version=" + strconv.FormatInt(expectedVersion, 10)
	}

	if err := c.doRequest(ctx, http.MethodDelete, path, nil, nil); err != nil {
		return fmt.Errorf("delete %s/%s: %w", entityType, id, err)
	}
	return nil
}

// Get получает текущее состояние сущности
func (c *Client) Get(ctx context.Context, entityType, id string) (*Result, error) {
	var resp api.Entity
	if err := c.doRequest(ctx, http.MethodGet, entityPath(entityType, id), nil, &resp); err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", entityType, id, err)
	}
	return toResult(resp), nil
}

// List получает все сущности типа
func (c *Client) List(ctx context.Context, entityType string) ([]Result, error) {
	var resp api.ListEntitiesResponse
	if err := c.doRequest(ctx, http.MethodGet, entityPath(entityType, ""), nil, &resp); err != nil {
		return nil, fmt.Errorf("list %s: %w", entityType, err)
	}

	results := make([]Result, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		results = append(results, *toResult(e))
	}
	return results, nil
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/v1/health", nil, &resp); err != nil {
		return nil, fmt.Errorf("health check: %w", err)
	}
	return &resp, nil
}

func entityPath(entityType, id string) string {
	path := "/api/v1/entities/" + url.PathEscape(entityType)
	if id != "" {
		path += "/" + url.PathEscape(id)
	}
	return path
}

func toResult(e api.Entity) *Result {
	return &Result{ID: e.ID, Version: e.Version, Data: e.Data}
}

// doRequest выполняет HTTP запрос и классифицирует ошибки
func (c *Client) doRequest(ctx context.Context, method, path string, body, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: method + " " + path, Err: fmt.Errorf("failed to read response body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classifyError(method+" "+path, resp.StatusCode, respBody)
	}

	// Декодируем успешный ответ
	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

func classifyError(op string, status int, body []byte) error {
	var errResp api.ErrorResponse
	message := string(body)
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		message = errResp.Error
		if errResp.Message != "" {
			message += ": " + errResp.Message
		}
	}

	switch {
	case status == http.StatusConflict:
		var conflict api.VersionConflictResponse
		if err := json.Unmarshal(body, &conflict); err != nil {
			return &TransportError{Op: op, StatusCode: status, Err: fmt.Errorf("malformed conflict response: %w", err)}
		}
		return &VersionConflictError{CurrentVersion: conflict.CurrentVersion, CurrentValue: conflict.CurrentValue}

	case status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, message)

	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return &ValidationError{StatusCode: status, Message: message}

	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return fmt.Errorf("%w (%d): %s", ErrUnauthorized, status, message)

	default:
		return &TransportError{Op: op, StatusCode: status, Err: errors.New(message)}
	}
}
