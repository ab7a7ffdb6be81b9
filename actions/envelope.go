package actions

import "github.com/jrsteele09/go-clients-dashboard/authorization"

// Messages returned to callers. Internal error detail never appears here.
const (
	MsgInvalidInput    = "Invalid input."
	MsgNotAuthorized   = "Not authorized."
	MsgAuthFailed      = "Failed to authorize with Google."
	MsgFetchFailed     = "Failed to fetch spreadsheet data."
	MsgSearchFailed    = "Search failed. Please try again."
	MsgUnexpectedError = "An unexpected error occurred."

	rowErrorSeparator = "; "
)

// Envelope is the uniform outcome every action returns
type Envelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

func failure(msg string) Envelope {
	return Envelope{Success: false, Error: msg}
}

var succeeded = Envelope{Success: true}

type SearchResponse struct {
	Envelope
	Results string `json:"results,omitempty"`
}

// ImportResponse carries ImportedCount only when every row imported
type ImportResponse struct {
	Envelope
	ImportedCount *int `json:"importedCount,omitempty"`
}

type AuthorizationResponse struct {
	Envelope
	Credential authorization.Credential `json:"-"`
}

type AuthorizationURLResponse struct {
	URL string `json:"url"`
}
