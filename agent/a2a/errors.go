package a2a

import (
	"fmt"
	"net/http"

	contractx "github.com/tanpawarit/supportdesk/agent/contract"
)

// TransportError is a failed HTTP exchange: connection errors, non-2xx
// statuses and malformed bodies.
type TransportError struct {
	Op         string
	URL        string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("a2a %s %s: status %d: %v", e.Op, e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("a2a %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func (e *TransportError) Is(target error) bool {
	return target == contractx.ErrTransport
}

// RemoteAgentError is a JSON-RPC error object returned by the remote agent.
// When it arrived with a non-2xx status it also matches ErrTransport.
type RemoteAgentError struct {
	Code       int
	Message    string
	StatusCode int
}

func (e *RemoteAgentError) Error() string {
	return fmt.Sprintf("remote agent error %d: %s", e.Code, e.Message)
}

func (e *RemoteAgentError) Is(target error) bool {
	switch target {
	case contractx.ErrRemoteAgent:
		return true
	case contractx.ErrTransport:
		return e.StatusCode != 0 && (e.StatusCode < http.StatusOK || e.StatusCode >= http.StatusMultipleChoices)
	}
	return false
}
