// Package client contains HTTP clients for external services.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cardwise/cardwise-go/internal/domain"
	"github.com/cardwise/cardwise-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("client")

// AdvisorClient calls the advisory-text service that turns structured
// engine output into prose. Its availability is never load-bearing:
// services fall back to deterministic text when a call fails.
type AdvisorClient struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
}

// NewAdvisorClient creates a new AdvisorClient.
func NewAdvisorClient(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *AdvisorClient {
	return &AdvisorClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		cb:         cb,
		cfg:        cfg,
	}
}

// Call invokes the advisor with a structured summary and returns its
// prose response.
func (c *AdvisorClient) Call(ctx context.Context, req *domain.AdvisorRequest) (*domain.AdvisorResponse, error) {
	ctx, span := tracer.Start(ctx, "AdvisorClient.Call")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", req.UserID))

	if c.baseURL == "" {
		return nil, &domain.ErrExternalService{Service: "advisor", Err: fmt.Errorf("advisor not configured")}
	}

	var advisorResp domain.AdvisorResponse

	result, err := c.cb.Execute(func() (any, error) {
		innerErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			body, err := json.Marshal(req)
			if err != nil {
				return err
			}

			url := fmt.Sprintf("%s/v1/advisor/generate", c.baseURL)
			httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
			if err != nil {
				return err
			}
			httpReq.Header.Set("Content-Type", "application/json")

			resp, err := c.httpClient.Do(httpReq)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("advisor API returned status %d", resp.StatusCode)
			}

			return json.NewDecoder(resp.Body).Decode(&advisorResp)
		})
		if innerErr != nil {
			return nil, innerErr
		}
		return &advisorResp, nil
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "advisor", Err: err}
	}

	return result.(*domain.AdvisorResponse), nil
}
