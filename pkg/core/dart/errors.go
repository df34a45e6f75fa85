package dart

import "fmt"

// TransportError wraps a network failure or non-2xx HTTP response. The
// budget slot has already been released; the same call is safe to retry on
// a later run.
type TransportError struct {
	Endpoint string
	Status   int // 0 when the request never completed
	Err      error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("registry call to %s returned HTTP %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("registry call to %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// MalformedResponse wraps a payload that did not decode as expected. The
// budget slot has been released; the failure is surfaced to the caller and
// not retried automatically.
type MalformedResponse struct {
	Endpoint string
	Err      error
}

func (e *MalformedResponse) Error() string {
	return fmt.Sprintf("malformed response from %s: %v", e.Endpoint, e.Err)
}

func (e *MalformedResponse) Unwrap() error { return e.Err }

// RegistryError is a well-formed registry reply with an unexpected status
// code (anything other than data-found or no-data). The HTTP call itself
// succeeded, so the budget slot stays consumed.
type RegistryError struct {
	Status  string
	Message string
}

func (e *RegistryError) Error() string {
	return fmt.Sprintf("registry status %s: %s", e.Status, e.Message)
}
