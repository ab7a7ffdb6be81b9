package importer

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jrsteele09/go-clients-dashboard/authorization"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetsSource reads rows through the Google Sheets values API
type SheetsSource struct {
	svc *sheets.Service
}

func NewSheetsSource(ctx context.Context, httpClient *http.Client, opts ...option.ClientOption) (*SheetsSource, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(httpClient)}, opts...)
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("[importer NewSheetsSource] failed to create sheets service: %w", err)
	}
	return &SheetsSource{svc: svc}, nil
}

func (s *SheetsSource) Rows(ctx context.Context, ref SheetRef) ([][]any, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(ref.SpreadsheetID, ref.Range).
		MajorDimension("ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("[SheetsSource Rows] spreadsheet %s range %s: %w", ref.SpreadsheetID, ref.Range, err)
	}
	return resp.Values, nil
}

// GoogleSheetsSources returns a factory that authorizes each new source with
// the credential it is given
func GoogleSheetsSources(manager *authorization.Manager, opts ...option.ClientOption) SourceFactory {
	return func(ctx context.Context, cred authorization.Credential) (RowSource, error) {
		return NewSheetsSource(ctx, manager.Client(ctx, cred), opts...)
	}
}
