package client

import (
	"errors"
	"fmt"
)

// TransportError means the report API could not be reached or the response
// could not be read: connection refused, DNS failure, timeout.
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to reach report API at %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RemoteError is a non-2xx response from the report API.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("report API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("report API returned %d: %s", e.StatusCode, e.Body)
}

// DecodeError is a 2xx response whose body is not a JSON array of rows.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to parse report API response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// FetchFailure formats the user-visible message for a failed fetch of entity.
func FetchFailure(entity string, err error) string {
	var re *RemoteError
	if errors.As(err, &re) {
		return fmt.Sprintf("Failed to fetch data for %s. Status code: %d", entity, re.StatusCode)
	}
	var de *DecodeError
	if errors.As(err, &de) {
		return fmt.Sprintf("Failed to fetch data for %s. The report service returned an unreadable response.", entity)
	}
	return fmt.Sprintf("Failed to fetch data for %s. The report service could not be reached.", entity)
}

// NoData formats the user-visible message for an empty result.
func NoData(entity string) string {
	return fmt.Sprintf("No data found for %s.", entity)
}
