package downloadmgr

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound gets returned when a 404 occurred
	ErrNotFound = errors.New("resource not found")
	// ErrTooManyRequests gets returned when a 429 occurred. Mirrors are skipped after it
	ErrTooManyRequests = errors.New("too many requests")
	// ErrUnexpectedStatus matches every non 200 status code
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrChecksum matches ErrInvalidSha and ErrInvalidSize
	ErrChecksum = errors.New("checksum mismatch")
	// ErrNoURL is returned for tasks without a url
	ErrNoURL = errors.New("no download url")
)

// StatusError is returned for responses that are not 200
type StatusError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("invalid status code: %s from %s", e.Status, e.URL)
}

// Is makes errors.Is work with ErrNotFound, ErrTooManyRequests and ErrUnexpectedStatus
func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrTooManyRequests:
		return e.StatusCode == http.StatusTooManyRequests
	case ErrUnexpectedStatus:
		return true
	}
	return false
}

// ErrInvalidSha is returned when the downloaded file's sha1 sum does not match the expected one
type ErrInvalidSha struct {
	FileName    string
	ExpectedSha string
	ActualSha   string
}

func (e *ErrInvalidSha) Error() string {
	return fmt.Sprintf(
		"file corrupted: %s sha1 is invalid. expected to be %q but actually is %q",
		e.FileName,
		e.ExpectedSha,
		e.ActualSha,
	)
}

func (e *ErrInvalidSha) Is(target error) bool {
	return target == ErrChecksum
}

// ErrInvalidSize is returned when the downloaded file has the wrong size
type ErrInvalidSize struct {
	FileName string
	Expected int64
	Actual   int64
}

func (e *ErrInvalidSize) Error() string {
	return fmt.Sprintf("file corrupted: %s has %d bytes, expected %d", e.FileName, e.Actual, e.Expected)
}

func (e *ErrInvalidSize) Is(target error) bool {
	return target == ErrChecksum
}

func checkResponse(res *http.Response) error {
	if res.StatusCode == http.StatusOK {
		return nil
	}
	return &StatusError{URL: res.Request.URL.String(), StatusCode: res.StatusCode, Status: res.Status}
}
