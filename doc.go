// Package rtmagent is a client library for the Remember The Milk API: it
// acquires and verifies auth tokens, signs requests, dispatches arbitrary
// operations by name, and persists session state (token, timeline, undo
// log) across runs.
//
// # Overview
//
// The library is a generic pass-through dispatcher, not a typed SDK. Any
// operation the service exposes is callable by name; ResolveMethod maps
// call-style names ("tasks_getList") onto the service's dotted operation
// names ("rtm.tasks.getList"), so the callable surface is open-ended.
// Callers wanting a typed surface write thin wrappers over Agent.Call.
//
// # Lifecycle
//
//	agent, err := rtmagent.New(rtmagent.Options{
//		APIKey:    key,
//		APISecret: secret,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer agent.Close()
//
//	if err := agent.Init(ctx); err != nil {
//		// First run, or credentials went stale: send the user to the
//		// authorization URL and Init again afterwards.
//		url, err := agent.AuthURL(ctx)
//		...
//	}
//
//	resp, err := agent.Call(ctx, "tasks_getList", "filter=status:incomplete")
//	if err != nil {
//		// Transport failure or unknown operation.
//	}
//	if resp == nil {
//		// Recoverable service error; details in agent.LastError().
//	}
//
// Close is explicit and idempotent: it writes session state back to the
// state file, and does nothing at all for an agent that never loaded state.
//
// # Failure Split
//
// Callers depend on which failures they must catch versus check, so the
// split is part of the contract:
//
//   - returned errors (catch): state file problems, transport failures,
//     ErrTokenInvalid, ErrAuthExchangeFailed, ErrUnknownOperation
//   - absent result (check): any other service-reported error; Call
//     returns (nil, nil) and LastError returns "code: message"
//
// There are no automatic retries anywhere.
//
// # Concurrency
//
// Everything is synchronous and blocking; impose timeouts through the
// context or a custom HTTP client. An Agent is not safe for concurrent use,
// and at most one live Agent should exist per state file: the state file is
// written last-writer-wins with no locking.
package rtmagent
