package gwas

import "fmt"

// UpstreamError reports a non-success response or undecodable body from one
// of the catalog APIs. It is never retried.
type UpstreamError struct {
	Status int    // HTTP status code, 0 if the request itself failed
	URL    string // fully constructed request URL
	Msg    string // short description or body snippet
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upstream %s returned %d: %s", e.URL, e.Status, e.Msg)
	}
	return fmt.Sprintf("upstream %s: %s", e.URL, e.Msg)
}

// ValidationError reports a missing or malformed identifier parameter.
// It is raised before any HTTP call is attempted.
type ValidationError struct {
	Param   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Param, e.Message)
}
