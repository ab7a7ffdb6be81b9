package clients

import (
	"fmt"
	"net/mail"

	apperrors "github.com/jrsteele09/go-clients-dashboard/internal/errors"
	"github.com/jrsteele09/go-clients-dashboard/internal/utils"
)

// Column positions in the source sheet
const (
	ColumnName = iota
	ColumnEmail
	ColumnPhone
	ColumnCompany
)

const ReasonMissingField = "missing required field"

// Record is a client mapped from one spreadsheet row
type Record struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// RowError describes why a single row could not be mapped. Row is 1-based.
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

func (e *RowError) Is(target error) bool {
	return target == apperrors.ErrRowMapping
}

// FromRow maps the cells of row number rowNum into a Record.
// Name and email are required; the email must parse as an address.
func FromRow(rowNum int, row []any) (Record, error) {
	r := Record{
		Name:    utils.CellAt(row, ColumnName),
		Email:   utils.CellAt(row, ColumnEmail),
		Phone:   utils.CellAt(row, ColumnPhone),
		Company: utils.CellAt(row, ColumnCompany),
	}

	if r.Name == "" || r.Email == "" {
		return Record{}, &RowError{Row: rowNum, Reason: ReasonMissingField}
	}

	addr, err := mail.ParseAddress(r.Email)
	if err != nil || addr.Address != r.Email {
		return Record{}, &RowError{Row: rowNum, Reason: fmt.Sprintf("invalid email %q", r.Email)}
	}
	return r, nil
}
