package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const maxResponseBytes = 1 << 20

// HTTPCapability posts {query} to an endpoint and expects {results} back
type HTTPCapability struct {
	endpoint string
	client   *http.Client
}

func NewHTTPCapability(endpoint string, client *http.Client) *HTTPCapability {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPCapability{endpoint: endpoint, client: client}
}

func (h *HTTPCapability) Search(ctx context.Context, req Request) (Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Response{}, fmt.Errorf("[HTTPCapability Search] marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint, bytes.NewReader(body))
	if err != nil {
		return Response{}, fmt.Errorf("[HTTPCapability Search] build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	httpResp, err := h.client.Do(httpReq)
	if err != nil {
		return Response{}, fmt.Errorf("[HTTPCapability Search] %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return Response{}, fmt.Errorf("[HTTPCapability Search] unexpected status %d", httpResp.StatusCode)
	}

	var payload struct {
		Results *string `json:"results"`
	}
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return Response{}, fmt.Errorf("[HTTPCapability Search] decode response: %w", err)
	}
	if payload.Results == nil {
		return Response{}, fmt.Errorf("[HTTPCapability Search] response has no results field")
	}
	return Response{Results: *payload.Results}, nil
}
