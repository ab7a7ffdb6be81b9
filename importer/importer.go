package importer

import (
	"context"
	"time"

	"github.com/jrsteele09/go-clients-dashboard/authorization"
	"github.com/jrsteele09/go-clients-dashboard/clients"
	apperrors "github.com/jrsteele09/go-clients-dashboard/internal/errors"
)

const (
	DefaultRange        = "A:Z"
	defaultFetchTimeout = 15 * time.Second
)

// RowSource reads raw rows from a spreadsheet
type RowSource interface {
	Rows(ctx context.Context, ref SheetRef) ([][]any, error)
}

// SourceFactory builds a RowSource bound to one credential. It is called once
// per import so sources are never shared between requests.
type SourceFactory func(ctx context.Context, cred authorization.Credential) (RowSource, error)

// Result of one import. Every fetched row is either counted in ImportedCount
// or has exactly one entry in Errors, in row order.
type Result struct {
	ImportedCount int
	Records       []clients.Record
	Errors        []*clients.RowError
	TotalRows     int
}

// Messages returns the row errors rendered as "row N: reason"
func (r Result) Messages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return msgs
}

type Importer struct {
	sources      SourceFactory
	readRange    string
	fetchTimeout time.Duration
}

func New(sources SourceFactory, readRange string, fetchTimeout time.Duration) *Importer {
	if readRange == "" {
		readRange = DefaultRange
	}
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	return &Importer{
		sources:      sources,
		readRange:    readRange,
		fetchTimeout: fetchTimeout,
	}
}

// Import fetches the sheet at sheetURL with cred and maps each row to a client
// record. A failed fetch aborts the import; row failures are collected.
func (i *Importer) Import(ctx context.Context, sheetURL string, cred authorization.Credential) (Result, error) {
	spreadsheetID, err := ParseSheetURL(sheetURL)
	if err != nil {
		return Result{}, err
	}
	if cred.IsZero() {
		return Result{}, apperrors.ErrNotAuthorized
	}

	source, err := i.sources(ctx, cred)
	if err != nil {
		return Result{}, apperrors.Kind(apperrors.ErrFetch, err)
	}

	fetchCtx, cancel := context.WithTimeout(ctx, i.fetchTimeout)
	defer cancel()

	rows, err := source.Rows(fetchCtx, SheetRef{SpreadsheetID: spreadsheetID, Range: i.readRange})
	if err != nil {
		return Result{}, apperrors.Kind(apperrors.ErrFetch, err)
	}

	return mapRows(rows), nil
}

func mapRows(rows [][]any) Result {
	result := Result{TotalRows: len(rows)}
	for idx, row := range rows {
		record, err := clients.FromRow(idx+1, row)
		if err != nil {
			var rowErr *clients.RowError
			if !apperrors.As(err, &rowErr) {
				rowErr = &clients.RowError{Row: idx + 1, Reason: err.Error()}
			}
			result.Errors = append(result.Errors, rowErr)
			continue
		}
		result.Records = append(result.Records, record)
		result.ImportedCount++
	}
	return result
}
