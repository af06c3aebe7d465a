// Package client talks to the pastillero API the way the dispenser unit and
// the dashboard do.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pastillero-service/models"
	"pastillero-service/services"

	"github.com/go-resty/resty/v2"
)

// APIError is returned when the service answers with success=false.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("pastillero API error: %s (status: %d)", e.Message, e.StatusCode)
}

type envelope struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Data         json.RawMessage `json:"data"`
	DeletedCount int64           `json:"deletedCount"`
	Error        string          `json:"error"`
}

// Client is safe for concurrent use.
type Client struct {
	http *resty.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json").
			SetHeader("Accept", "application/json"),
	}
}

// call runs one request. Cancelling ctx aborts it even while in flight.
func (c *Client) call(ctx context.Context, method, path string, body interface{}, out interface{}) (*envelope, error) {
	var env envelope
	req := c.http.R().SetContext(ctx).SetResult(&env).SetError(&env)
	if body != nil {
		req.SetBody(body)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if !env.Success {
		msg := env.Error
		if msg == "" {
			msg = resp.Status()
		}
		return nil, &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", path, err)
		}
	}
	return &env, nil
}

// Pill mirrors models.PillDefinition on the wire.
type Pill struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	IntervalSeconds int    `json:"intervalSeconds"`
	Module          int    `json:"module"`
	CreatedAt       string `json:"createdAt"`
}

// Statistic mirrors models.DispenseStatistic on the wire.
type Statistic struct {
	ID          string `json:"id"`
	Module      int    `json:"module"`
	DispensedAt string `json:"dispensedAt"`
	PickedUpAt  string `json:"pickedUpAt"`
	RecordedAt  string `json:"recordedAt"`
}

// Buckets mirrors models.ModuleBuckets on the wire.
type Buckets struct {
	Modulo1 []Pill `json:"modulo1"`
	Modulo2 []Pill `json:"modulo2"`
}

func (c *Client) SeedPills(ctx context.Context) ([]Pill, error) {
	var pills []Pill
	_, err := c.call(ctx, resty.MethodPost, "/api/agregar-todas", nil, &pills)
	return pills, err
}

func (c *Client) ListPills(ctx context.Context) (Buckets, error) {
	var buckets Buckets
	_, err := c.call(ctx, resty.MethodGet, "/api/pastillas", nil, &buckets)
	return buckets, err
}

// PublishDispense sends a report using the firmware's field names.
func (c *Client) PublishDispense(ctx context.Context, module int, dispensedAt, pickedUpAt time.Time) (Statistic, error) {
	body := map[string]interface{}{
		services.FieldModule:    module,
		services.FieldDispensed: models.FormatTime(dispensedAt),
		services.FieldPickedUp:  models.FormatTime(pickedUpAt),
	}
	var stat Statistic
	_, err := c.call(ctx, resty.MethodPost, "/api/publicarDatos", body, &stat)
	return stat, err
}

func (c *Client) ClearStatistics(ctx context.Context) (int64, error) {
	env, err := c.call(ctx, resty.MethodDelete, "/api/limpiar-estadisticas", nil, nil)
	if err != nil {
		return 0, err
	}
	return env.DeletedCount, nil
}
