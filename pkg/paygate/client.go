package paygate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/SANJIKS/sos-backend-sub001/pkg/httpclient"
)

const ChargeEndpoint = "/api/v1/charges"

type Gateway interface {
	Charge(ctx context.Context, request ChargeRequest) (Response, error)
}

type gateway struct {
	client httpclient.HTTPClient
	config Config
}

func NewGateway(cfg Config, client httpclient.HTTPClient) Gateway {
	return &gateway{config: cfg, client: client}
}

func (g *gateway) Charge(ctx context.Context, request ChargeRequest) (Response, error) {
	return g.post(ctx, ChargeEndpoint, request)
}

func (g *gateway) post(ctx context.Context, endpoint string, request any) (Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(request); err != nil {
		return Response{}, fmt.Errorf("encoding error: %w", err)
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if g.config.APIKey != "" {
		headers["X-Api-Key"] = g.config.APIKey
	}

	resp, err := g.client.Post(ctx, g.config.BaseURL+endpoint, &buf, headers)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return Response{}, ErrTimeout
		}

		return Response{}, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != StatusOK {
		return Response{}, MapStatusToError(resp.StatusCode)
	}

	var response Response
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return Response{}, fmt.Errorf("decoding error: %w", err)
	}

	return response, nil
}
