package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/go-clients-dashboard/internal/config"
	apperrors "github.com/jrsteele09/go-clients-dashboard/internal/errors"
)

const defaultTimeout = 30 * time.Second

// Request is the single-field payload sent to a search capability
type Request struct {
	Query string `json:"query"`
}

// Response is the capability's answer, relayed unmodified
type Response struct {
	Results string `json:"results"`
}

// Capability is an external AI backed search
type Capability interface {
	Search(ctx context.Context, req Request) (Response, error)
}

// Dispatcher validates queries and forwards them to a Capability
type Dispatcher struct {
	capability Capability
	timeout    time.Duration
}

func NewDispatcher(capability Capability, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Dispatcher{capability: capability, timeout: timeout}
}

// NewDispatcherFromConfig picks the HTTP endpoint when configured, then Gemini
func NewDispatcherFromConfig(ctx context.Context, c config.SearchConfig) (*Dispatcher, error) {
	switch {
	case c.GetSearchEndpoint() != "":
		return NewDispatcher(NewHTTPCapability(c.GetSearchEndpoint(), nil), c.GetSearchTimeout()), nil
	case c.GetGeminiAPIKey() != "":
		capability, err := NewGenAICapability(ctx, GenAISettings{
			APIKey: c.GetGeminiAPIKey(),
			Model:  c.GetGeminiModel(),
		})
		if err != nil {
			return nil, err
		}
		return NewDispatcher(capability, c.GetSearchTimeout()), nil
	default:
		return NewDispatcher(unavailable{}, c.GetSearchTimeout()), nil
	}
}

// Search returns the capability's result for query. Any capability failure,
// including a timeout or panic, comes back as ErrSearch.
func (d *Dispatcher) Search(ctx context.Context, query string) (resp Response, err error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Response{}, apperrors.Kind(apperrors.ErrValidation, errors.New("query is required"))
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			resp, err = Response{}, apperrors.Kind(apperrors.ErrSearch, fmt.Errorf("capability panicked: %v", r))
		}
	}()

	resp, err = d.capability.Search(ctx, Request{Query: query})
	if err != nil {
		return Response{}, apperrors.Kind(apperrors.ErrSearch, err)
	}
	return resp, nil
}

type unavailable struct{}

func (unavailable) Search(context.Context, Request) (Response, error) {
	return Response{}, errors.New("no search capability configured")
}
