// Package client is a small HTTP client for the pricing service, used
// by the pricecli binary and by integration-style tests.
package client

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"getaround-pricing/internal/features"
	"getaround-pricing/internal/pricing"
)

type Client struct {
	base string
	rest *resty.Client
}

func New(base string, timeout time.Duration) *Client {
	r := resty.New()
	if timeout > 0 {
		r.SetTimeout(timeout)
	} else {
		r.SetTimeout(5 * time.Second) // default fallback
	}
	return &Client{base: base, rest: r}
}

type predictReq struct {
	Input []features.VehicleFeatures `json:"input"`
}

type predictResp struct {
	Prediction []float64 `json:"prediction"`
}

type errorResp struct {
	ErrorType string `json:"error_type"`
	Message   string `json:"message"`
}

// Health fetches the service health. The returned status is meaningful
// even when the service answers 503.
func (c *Client) Health(ctx context.Context) (pricing.HealthStatus, error) {
	health := &pricing.HealthStatus{}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetResult(health).
		SetError(health). // 503 carries the same payload shape
		Get(c.base + "/health")
	if err != nil {
		return pricing.HealthStatus{}, err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusServiceUnavailable {
		return pricing.HealthStatus{}, fmt.Errorf("health: unexpected status %d", resp.StatusCode())
	}
	return *health, nil
}

// Predict submits a batch of records and returns the predicted daily
// prices in request order.
func (c *Client) Predict(ctx context.Context, records []features.VehicleFeatures) ([]float64, error) {
	result := &predictResp{}
	apiErr := &errorResp{}
	resp, err := c.rest.R().
		SetContext(ctx).
		SetBody(predictReq{Input: records}).
		SetResult(result).
		SetError(apiErr).
		Post(c.base + "/predict")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("predict: %d %s: %s", resp.StatusCode(), apiErr.ErrorType, apiErr.Message)
	}
	return result.Prediction, nil
}
