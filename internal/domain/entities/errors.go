package entities

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrObjectNotFound is returned by object repositories when no record matches.
	ErrObjectNotFound = errors.New("object not found")

	// ErrRepositoryNotFound is returned when a repository cannot be found upstream.
	ErrRepositoryNotFound = errors.New("repository not found")

	// ErrOrganisationNotFound is returned when an organisation cannot be found upstream.
	ErrOrganisationNotFound = errors.New("organisation not found")

	// ErrFileNotFound is returned when none of the probed candidates hold a file.
	ErrFileNotFound = errors.New("no candidate file found")

	// ErrInvalidDocument is returned when fetched bytes do not decode into a usable document.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrMissingCredentials is returned when a source requires a token that is not configured.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrUnknownSource is returned when no source matches a name or URL.
	ErrUnknownSource = errors.New("unknown source")
)

// FetchError describes a failed call against an upstream API.
// StatusCode is zero for transport errors.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsNotFound reports whether the call failed with 404.
func (e *FetchError) IsNotFound() bool { return e.StatusCode == http.StatusNotFound }

// StatusOf returns the HTTP status carried by err, or zero.
func StatusOf(err error) int {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode
	}
	return 0
}
