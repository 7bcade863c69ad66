package rtmagent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gomilk/rtmagent/api"
	"github.com/gomilk/rtmagent/session"
)

// Service error code meaning the operation name does not exist. Receiving
// it indicates a misspelled call, a programming error rather than a
// runtime condition.
const unknownMethodCode = "112"

var (
	// ErrTokenInvalid means the stored auth token was rejected by the
	// service. The agent clears the token and frob; the caller must restart
	// the handshake via AuthURL.
	ErrTokenInvalid = errors.New("auth token rejected by service")
	// ErrAuthExchangeFailed means the stored frob could not be exchanged
	// for a token. The usual fix is deleting the state file and
	// reauthorizing; the error message names the file.
	ErrAuthExchangeFailed = errors.New("frob exchange failed")
	// ErrUnknownOperation means the service does not recognize the resolved
	// operation name.
	ErrUnknownOperation = errors.New("unknown operation")
	// ErrNotInitialized means Init has not successfully run yet.
	ErrNotInitialized = errors.New("agent not initialized")
)

// Options configures an Agent. APIKey and APISecret are required; every
// other field has a usable zero value.
type Options struct {
	APIKey    string
	APISecret string

	// StatePath overrides the session state file location. Defaults to
	// ~/.rtmagent.
	StatePath string

	// Endpoint and AuthEndpoint override the fixed service URLs, mainly
	// for tests.
	Endpoint     string
	AuthEndpoint string

	// HTTPClient overrides the transport. Timeouts and cancellation are
	// imposed here or via the context passed to each call.
	HTTPClient *http.Client

	// Logger receives trace records; nil discards them.
	Logger *slog.Logger

	// Trace selects request/response tracing (api.TraceOutgoing,
	// api.TraceIncoming).
	Trace api.Trace
}

// Agent is one local session against the service: it owns the persisted
// session state and dispatches operations through the signing client.
// At most one live Agent should exist per state file; saves are
// last-writer-wins with no locking. Agents are not safe for concurrent
// use.
type Agent struct {
	client    *api.Client
	statePath string

	// state is non-nil once session state has been loaded or created;
	// Close only writes the file in that case.
	state   *session.State
	lastErr string
	closed  bool
}

// New builds an Agent. No I/O happens until Init or AuthURL is called.
func New(opts Options) (*Agent, error) {
	client, err := api.NewClient(opts.APIKey, opts.APISecret, api.Options{
		Endpoint:     opts.Endpoint,
		AuthEndpoint: opts.AuthEndpoint,
		HTTPClient:   opts.HTTPClient,
		Logger:       opts.Logger,
		Trace:        opts.Trace,
	})
	if err != nil {
		return nil, err
	}

	statePath := opts.StatePath
	if statePath == "" {
		statePath, err = session.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	return &Agent{client: client, statePath: statePath}, nil
}

// invoke dispatches one operation with the current token and timeline
// attached when set.
func (a *Agent) invoke(ctx context.Context, method string, params []string) (*api.Response, error) {
	req := api.Request{Method: method, Params: params}
	if a.state != nil {
		req.AuthToken = a.state.Token
		req.Timeline = a.state.Timeline
	}
	return a.client.Invoke(ctx, req)
}

// Init loads the persisted session and completes whatever part of the
// authorization handshake the loaded state allows: a stored token is
// verified, a stored frob is exchanged for a token, and a missing timeline
// is created (resetting the undo log). Transport failures propagate
// unchanged; auth failures come back as ErrTokenInvalid or
// ErrAuthExchangeFailed and leave recovery to the caller.
func (a *Agent) Init(ctx context.Context) error {
	st, err := session.Load(a.statePath)
	if err != nil {
		return err
	}
	a.state = st

	switch {
	case st.Token != "":
		if err := a.checkToken(ctx); err != nil {
			return err
		}
	case st.Frob != "":
		if err := a.exchangeFrob(ctx); err != nil {
			return err
		}
	}

	if a.state.Timeline == "" {
		if err := a.createTimeline(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *Agent) checkToken(ctx context.Context) error {
	resp, err := a.invoke(ctx, "rtm.auth.checkToken", nil)
	if err != nil {
		return err
	}
	if se := resp.Err(); se != nil {
		a.state.Token = ""
		a.state.Frob = ""
		return fmt.Errorf("%w: %v", ErrTokenInvalid, se)
	}
	return nil
}

func (a *Agent) exchangeFrob(ctx context.Context) error {
	resp, err := a.invoke(ctx, "rtm.auth.getToken", []string{"frob=" + a.state.Frob})
	if err != nil {
		return err
	}
	if se := resp.Err(); se != nil {
		return fmt.Errorf("%w: %v (delete %s and reauthorize)", ErrAuthExchangeFailed, se, a.statePath)
	}
	token := ""
	if auth := resp.First("auth"); auth != nil {
		token = auth.ChildText("token")
	}
	if token == "" {
		return fmt.Errorf("%w: no token in response (delete %s and reauthorize)", ErrAuthExchangeFailed, a.statePath)
	}
	a.state.Token = token
	a.state.Frob = ""
	return nil
}

func (a *Agent) createTimeline(ctx context.Context) error {
	resp, err := a.invoke(ctx, "rtm.timelines.create", nil)
	if err != nil {
		return err
	}
	if se := resp.Err(); se != nil {
		return fmt.Errorf("create timeline: %w", se)
	}
	timeline := resp.ChildText("timeline")
	if timeline == "" {
		return fmt.Errorf("create timeline: no timeline in response")
	}
	a.state.Timeline = timeline
	// A new timeline invalidates any previously recorded transactions.
	a.state.Undo.Entries = []session.UndoEntry{}
	return nil
}

// AuthURL obtains a fresh frob and returns the URL the user must visit,
// out of band, to authorize this agent. The frob is kept in session state
// so the next Init can exchange it for a token. AuthURL is a separate
// caller-driven step, not part of Init.
func (a *Agent) AuthURL(ctx context.Context) (string, error) {
	if a.state == nil {
		st, err := session.Load(a.statePath)
		if err != nil {
			return "", err
		}
		a.state = st
	}

	resp, err := a.invoke(ctx, "rtm.auth.getFrob", nil)
	if err != nil {
		return "", err
	}
	if se := resp.Err(); se != nil {
		return "", fmt.Errorf("get frob: %w", se)
	}
	frob := resp.ChildText("frob")
	if frob == "" {
		return "", fmt.Errorf("get frob: no frob in response")
	}
	a.state.Frob = frob
	return a.client.AuthorizationURL(frob), nil
}

// Call dispatches an arbitrary remote operation. The name is resolved via
// ResolveMethod, the current token and timeline are attached, and the
// parsed response is returned.
//
// Failure handling preserves the split callers depend on:
//
//   - transport failures and the unknown-operation service error return a
//     non-nil error;
//   - any other service error is recoverable: Call returns (nil, nil) and
//     the "code: message" string becomes available via LastError.
//
// A response carrying an undoable transaction marker appends one entry to
// the undo log.
func (a *Agent) Call(ctx context.Context, name string, params ...string) (*api.Response, error) {
	if a.state == nil {
		return nil, ErrNotInitialized
	}

	op := ResolveMethod(name)
	resp, err := a.invoke(ctx, op, params)
	if err != nil {
		return nil, err
	}
	if se := resp.Err(); se != nil {
		if se.Code == unknownMethodCode {
			return nil, fmt.Errorf("%w %q: %v", ErrUnknownOperation, op, se)
		}
		a.lastErr = se.Error()
		return nil, nil
	}

	if id, undoable := resp.Transaction(); undoable {
		a.state.Undo.Entries = append(a.state.Undo.Entries, session.UndoEntry{
			ID:        id,
			Operation: op,
			Params:    append([]string(nil), params...),
		})
	}
	return resp, nil
}

// LastError returns the "code: message" string of the most recent
// recoverable service error, or "" when none has occurred.
func (a *Agent) LastError() string {
	return a.lastErr
}

// Undoable returns a copy of the pending undo log.
func (a *Agent) Undoable() []session.UndoEntry {
	if a.state == nil {
		return nil
	}
	return append([]session.UndoEntry(nil), a.state.Undo.Entries...)
}

// ClearUndo drops the undo entry at index i, shifting later entries down.
// Out-of-range indexes are ignored.
func (a *Agent) ClearUndo(i int) {
	if a.state == nil || i < 0 || i >= len(a.state.Undo.Entries) {
		return
	}
	a.state.Undo.Entries = append(a.state.Undo.Entries[:i], a.state.Undo.Entries[i+1:]...)
}

// Undo asks the service to reverse the transaction recorded at index i and
// removes the entry on success.
func (a *Agent) Undo(ctx context.Context, i int) error {
	if a.state == nil {
		return ErrNotInitialized
	}
	if i < 0 || i >= len(a.state.Undo.Entries) {
		return fmt.Errorf("undo index %d out of range", i)
	}

	entry := a.state.Undo.Entries[i]
	resp, err := a.Call(ctx, "rtm.transactions.undo", "transaction_id="+entry.ID)
	if err != nil {
		return err
	}
	if resp == nil {
		return fmt.Errorf("undo transaction %s: %s", entry.ID, a.lastErr)
	}
	a.ClearUndo(i)
	return nil
}

// Close writes the session state back to its file. Closing an agent that
// never loaded state is a no-op and must not touch the file. Close is
// idempotent; a failed save may be retried.
func (a *Agent) Close() error {
	if a.closed || a.state == nil {
		return nil
	}
	if err := session.Save(a.statePath, a.state); err != nil {
		return err
	}
	a.closed = true
	return nil
}
