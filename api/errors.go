package api

import "fmt"

// ServiceError is a failure reported by the service itself inside a
// well-formed response envelope. Its string form is the "code: message"
// shape callers surface as the agent's last error.
type ServiceError struct {
	Code string
	Msg  string
}

func (e *ServiceError) Error() string {
	return e.Code + ": " + e.Msg
}

// TransportError means the HTTP exchange itself did not succeed: the
// request could not be sent, the connection failed, or the endpoint
// answered with a non-success status. Status keeps the transport's own
// description of what went wrong.
type TransportError struct {
	Status string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport: %s: %v", e.Status, e.Err)
	}
	return "transport: " + e.Status
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
