// Package actions is the single validated entry point the dashboard UI calls.
// Each action checks its input against a declared shape, runs the underlying
// component inside an error boundary and answers with an Envelope.
package actions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jrsteele09/go-clients-dashboard/authorization"
	"github.com/jrsteele09/go-clients-dashboard/importer"
	apperrors "github.com/jrsteele09/go-clients-dashboard/internal/errors"
	"github.com/jrsteele09/go-clients-dashboard/internal/utils"
	"github.com/jrsteele09/go-clients-dashboard/search"
	"github.com/rs/zerolog/log"
)

type Authorizer interface {
	AuthorizationURL() string
	ExchangeCode(ctx context.Context, code string) (authorization.Credential, error)
}

type ClientImporter interface {
	Import(ctx context.Context, sheetURL string, cred authorization.Credential) (importer.Result, error)
}

type Searcher interface {
	Search(ctx context.Context, query string) (search.Response, error)
}

type Facade struct {
	auth     Authorizer
	importer ClientImporter
	searcher Searcher
	shapes   shapes
}

func New(auth Authorizer, imp ClientImporter, searcher Searcher) (*Facade, error) {
	s, err := compileShapes()
	if err != nil {
		return nil, fmt.Errorf("[actions New] %w", err)
	}
	return &Facade{
		auth:     auth,
		importer: imp,
		searcher: searcher,
		shapes:   s,
	}, nil
}

// GetAuthorizationURL returns the provider consent URL
func (f *Facade) GetAuthorizationURL() string {
	return f.auth.AuthorizationURL()
}

// CompleteAuthorization exchanges input {code} for a credential
func (f *Facade) CompleteAuthorization(ctx context.Context, input any) AuthorizationResponse {
	if err := f.shapes.authorize.Validate(input); err != nil {
		return AuthorizationResponse{Envelope: failure(MsgInvalidInput)}
	}

	var cred authorization.Credential
	err := guard(ctx, "completeAuthorization", func() error {
		var err error
		cred, err = f.auth.ExchangeCode(ctx, stringField(input, "code"))
		return err
	})
	if err != nil {
		return AuthorizationResponse{Envelope: failure(failureMessage(err))}
	}
	return AuthorizationResponse{Envelope: succeeded, Credential: cred}
}

// SmartSearch forwards input {query} to the search capability
func (f *Facade) SmartSearch(ctx context.Context, input any) SearchResponse {
	if err := f.shapes.search.Validate(input); err != nil {
		return SearchResponse{Envelope: failure(MsgInvalidInput)}
	}

	var resp search.Response
	err := guard(ctx, "smartSearch", func() error {
		var err error
		resp, err = f.searcher.Search(ctx, stringField(input, "query"))
		return err
	})
	if err != nil {
		return SearchResponse{Envelope: failure(failureMessage(err))}
	}
	return SearchResponse{Envelope: succeeded, Results: resp.Results}
}

// ImportClients imports input {sheetUrl} with the caller's credential. Any row
// error fails the whole response even when other rows imported.
func (f *Facade) ImportClients(ctx context.Context, cred authorization.Credential, input any) ImportResponse {
	if err := f.shapes.importer.Validate(input); err != nil {
		return ImportResponse{Envelope: failure(MsgInvalidInput)}
	}
	if cred.IsZero() {
		return ImportResponse{Envelope: failure(MsgNotAuthorized)}
	}

	sheetURL := stringField(input, "sheetUrl")
	var result importer.Result
	err := guard(ctx, "importClients", func() error {
		var err error
		result, err = f.importer.Import(ctx, sheetURL, cred)
		return err
	})
	if err != nil {
		return ImportResponse{Envelope: failure(failureMessage(err))}
	}

	if len(result.Errors) > 0 {
		log.Warn().
			Str("action", "importClients").
			Str("sheet_url", sheetURL).
			Int("imported", result.ImportedCount).
			Int("failed", len(result.Errors)).
			Msg("import finished with row errors")
		return ImportResponse{Envelope: failure(strings.Join(result.Messages(), rowErrorSeparator))}
	}

	log.Info().Str("action", "importClients").Int("imported", result.ImportedCount).Msg("import finished")
	return ImportResponse{Envelope: succeeded, ImportedCount: utils.Ptr(result.ImportedCount)}
}

// guard runs fn, converting panics to errors and logging any failure
func guard(ctx context.Context, action string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			log.Error().
				Err(err).
				Str("action", action).
				Str("request_id", requestID(ctx)).
				Msg("action failed")
		}
	}()
	return fn()
}

func failureMessage(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrValidation):
		return MsgInvalidInput
	case apperrors.Is(err, apperrors.ErrNotAuthorized):
		return MsgNotAuthorized
	case apperrors.Is(err, apperrors.ErrAuthExchange):
		return MsgAuthFailed
	case apperrors.Is(err, apperrors.ErrFetch):
		return MsgFetchFailed
	case apperrors.Is(err, apperrors.ErrSearch):
		return MsgSearchFailed
	default:
		return MsgUnexpectedError
	}
}

type requestIDKey struct{}

// WithRequestID tags ctx with an id that failure logs carry
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}
