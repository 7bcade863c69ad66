// Package api dispatches signed calls to the Remember The Milk REST
// endpoint and parses its XML responses.
//
// # Overview
//
// The service exposes every operation through a single form-encoded POST
// endpoint: the operation name travels as the "method" parameter and the
// whole parameter set is authenticated with an api_sig value computed by
// the signature package. This package owns that request shape, the fixed
// endpoints, and the generic response representation; it knows nothing
// about individual operations.
//
// # Request Construction
//
// Invoke assembles the outbound parameter set in a fixed order:
//
//  1. method=<operation name>
//  2. the caller's literal "key=value" parameters
//  3. api_key=<key>
//  4. auth_token=<token>, only when the session holds a token
//  5. timeline=<timeline>, only when the session holds a timeline
//  6. api_sig computed over all of the above
//
// The result is sent as an application/x-www-form-urlencoded POST. The
// signature is order-independent, so form encoding may reorder keys freely.
//
// # Responses
//
// Responses are shallow, irregular XML wrapped in an <rsp stat="ok|fail">
// envelope. Rather than typed per-method structs (the library is a generic
// dispatcher, not an SDK), bodies parse into a Node tree. Node.All always
// returns a sequence, even for a single element, so callers can index by
// position without caring whether one or many elements arrived.
//
// Envelope helpers cover the common markers:
//
//   - Response.Err: the <err code msg> element as a *ServiceError
//   - Response.Transaction: the <transaction id undoable> marker
//
// # Error Handling
//
// Two failure kinds are kept strictly separate:
//
//   - *TransportError: the HTTP exchange failed (network error or non-2xx
//     status). The transport's own status description is preserved.
//   - *ServiceError: the exchange succeeded but the service reported a
//     failure inside the envelope. Invoke does NOT turn these into Go
//     errors; the agent layer decides which are fatal.
//
// No retries happen at this layer; retry policy belongs to the caller.
//
// # Tracing
//
// The Trace bitmask enables Debug-level logging of the fully formed request
// body (TraceOutgoing) and the raw response body (TraceIncoming) through
// the configured slog.Logger. Each Invoke carries a generated request id so
// the two records of one exchange can be correlated. Tracing has no
// control-flow impact.
package api
