package importer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jrsteele09/go-clients-dashboard/authorization"
	"github.com/jrsteele09/go-clients-dashboard/importer"
	apperrors "github.com/jrsteele09/go-clients-dashboard/internal/errors"
	"github.com/stretchr/testify/require"
)

var testCred = authorization.Credential{AccessToken: "at-1", TokenType: "Bearer", Expiry: time.Now().Add(time.Hour)}

// fakeSource serves fixed rows and records what it was asked for
type fakeSource struct {
	rows [][]any
	err  error
	refs []importer.SheetRef
}

func (f *fakeSource) Rows(ctx context.Context, ref importer.SheetRef) ([][]any, error) {
	f.refs = append(f.refs, ref)
	if f.err != nil {
		return nil, f.err
	}
	return f.rows, nil
}

func staticFactory(src *fakeSource) importer.SourceFactory {
	return func(ctx context.Context, cred authorization.Credential) (importer.RowSource, error) {
		return src, nil
	}
}

func TestImportPartialFailure(t *testing.T) {
	src := &fakeSource{rows: [][]any{
		{"Alice", "a@x.com"},
		{"", ""},
		{"Bob", "b@x.com"},
	}}
	imp := importer.New(staticFactory(src), "", 0)

	result, err := imp.Import(context.Background(), "https://sheets.example/abc", testCred)
	require.NoError(t, err)
	require.Equal(t, 2, result.ImportedCount)
	require.Equal(t, []string{"row 2: missing required field"}, result.Messages())
	require.Equal(t, 3, result.TotalRows)
	require.Len(t, result.Records, 2)
	require.Equal(t, "Alice", result.Records[0].Name)
	require.Equal(t, "Bob", result.Records[1].Name)

	require.Equal(t, []importer.SheetRef{{SpreadsheetID: "abc", Range: importer.DefaultRange}}, src.refs)
}

func TestImportPartitionsRowsInOrder(t *testing.T) {
	rows := [][]any{
		{"", "x@x.com"},
		{"A", "a@x.com"},
		{"B", "bad"},
		{},
		{"C", "c@x.com", "555", "Co"},
		{"D"},
	}
	imp := importer.New(staticFactory(&fakeSource{rows: rows}), "Clients!A2:D", time.Second)

	result, err := imp.Import(context.Background(), "https://sheets.example/abc", testCred)
	require.NoError(t, err)
	require.Equal(t, len(rows), result.ImportedCount+len(result.Errors))
	require.Equal(t, 2, result.ImportedCount)
	require.Equal(t, []string{
		"row 1: missing required field",
		`row 3: invalid email "bad"`,
		"row 4: missing required field",
		"row 6: missing required field",
	}, result.Messages())

	for i := 1; i < len(result.Errors); i++ {
		require.Less(t, result.Errors[i-1].Row, result.Errors[i].Row)
	}
}

func TestImportEmptySheet(t *testing.T) {
	imp := importer.New(staticFactory(&fakeSource{}), "", 0)
	result, err := imp.Import(context.Background(), "https://sheets.example/abc", testCred)
	require.NoError(t, err)
	require.Zero(t, result.ImportedCount)
	require.Empty(t, result.Errors)
}

func TestImportFetchFailureIsFatal(t *testing.T) {
	src := &fakeSource{err: errors.New("403 permission denied")}
	imp := importer.New(staticFactory(src), "", 0)

	result, err := imp.Import(context.Background(), "https://sheets.example/abc", testCred)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrFetch))
	require.Equal(t, importer.Result{}, result)
}

func TestImportFactoryFailureIsFetchError(t *testing.T) {
	imp := importer.New(func(ctx context.Context, cred authorization.Credential) (importer.RowSource, error) {
		return nil, errors.New("no transport")
	}, "", 0)

	_, err := imp.Import(context.Background(), "https://sheets.example/abc", testCred)
	require.True(t, apperrors.Is(err, apperrors.ErrFetch))
}

func TestImportRejectsBadInputBeforeFetching(t *testing.T) {
	src := &fakeSource{}
	imp := importer.New(staticFactory(src), "", 0)

	_, err := imp.Import(context.Background(), "not a url", testCred)
	require.True(t, apperrors.Is(err, apperrors.ErrValidation))

	_, err = imp.Import(context.Background(), "https://sheets.example/abc", authorization.Credential{})
	require.True(t, apperrors.Is(err, apperrors.ErrNotAuthorized))

	require.Empty(t, src.refs)
}

func TestImportFetchTimeout(t *testing.T) {
	imp := importer.New(func(ctx context.Context, cred authorization.Credential) (importer.RowSource, error) {
		return blockingSource{}, nil
	}, "", 20*time.Millisecond)

	_, err := imp.Import(context.Background(), "https://sheets.example/abc", testCred)
	require.True(t, apperrors.Is(err, apperrors.ErrFetch))
	require.True(t, errors.Is(err, context.DeadlineExceeded))
}

type blockingSource struct{}

func (blockingSource) Rows(ctx context.Context, ref importer.SheetRef) ([][]any, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}
