package ftcscout

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel kinds for upstream errors. Use errors.Is against these.
var (
	ErrFetch    = errors.New("upstream fetch failed")
	ErrNotFound = errors.New("not found")
)

// FetchError reports a failed upstream request: a transport failure, a
// non-2xx status, or a body that is not valid JSON for the expected shape.
type FetchError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is matches ErrFetch always, and ErrNotFound for 404 responses.
func (e *FetchError) Is(target error) bool {
	switch target {
	case ErrFetch:
		return true
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// NotFoundError reports a well-formed but empty payload, e.g. an unknown team.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

// Is matches ErrNotFound.
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
