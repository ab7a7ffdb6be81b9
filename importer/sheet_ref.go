package importer

import (
	"errors"
	"net/url"
	"strings"

	apperrors "github.com/jrsteele09/go-clients-dashboard/internal/errors"
)

// SheetRef addresses a range of cells in one spreadsheet
type SheetRef struct {
	SpreadsheetID string
	Range         string
}

// ParseSheetURL extracts the spreadsheet id from a sheet link. Google links
// carry it after "/d/"; otherwise the last path segment is used.
func ParseSheetURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", apperrors.Kind(apperrors.ErrValidation, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", apperrors.Kind(apperrors.ErrValidation, errors.New("sheet url must be an absolute http(s) url"))
	}

	segments := make([]string, 0)
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	for i, s := range segments {
		if s == "d" && i+1 < len(segments) {
			return segments[i+1], nil
		}
	}
	if len(segments) == 0 {
		return "", apperrors.Kind(apperrors.ErrValidation, errors.New("sheet url has no spreadsheet id"))
	}
	return segments[len(segments)-1], nil
}
