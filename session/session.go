package session

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sentinel errors for state file problems. Load wraps each with the
// offending path so callers can report it.
var (
	// ErrNotReadable means the state file exists but cannot be opened for
	// reading.
	ErrNotReadable = errors.New("state file is not readable")
	// ErrNotWritable means the state file exists but cannot be opened for
	// writing, so a later Save would fail.
	ErrNotWritable = errors.New("state file is not writable")
	// ErrInvalidFormat means the state file exists but is not a well-formed
	// state document.
	ErrInvalidFormat = errors.New("state file is not a well-formed state document")
)

const defaultStateFile = ".rtmagent"

// State is the locally persisted session document. A frob without a token
// means the authorization handshake is still in progress; a token means it
// completed. The undo log holds transactions the service still allows
// reversing.
type State struct {
	XMLName  xml.Name `xml:"RTMAgent"`
	Token    string   `xml:"token,omitempty"`
	Frob     string   `xml:"frob,omitempty"`
	Timeline string   `xml:"timeline,omitempty"`
	Undo     UndoLog  `xml:"undo"`
}

// UndoLog wraps the undo entries so the <undo> container element is always
// written, even when the log is empty. Downstream code relies on the log
// round-tripping as a sequence rather than disappearing.
type UndoLog struct {
	Entries []UndoEntry `xml:"entry"`
}

// UndoEntry records one undoable transaction: the service-assigned
// transaction id, the operation that produced it, and the parameters the
// operation was called with.
type UndoEntry struct {
	ID        string   `xml:"id,attr"`
	Operation string   `xml:"operation"`
	Params    []string `xml:"param"`
}

// New returns a fresh empty State with an initialized undo log.
func New() *State {
	return &State{Undo: UndoLog{Entries: []UndoEntry{}}}
}

// DefaultPath returns the state file location under the user's home
// directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, defaultStateFile), nil
}

// Load reads the state document at path. An absent file is not an error and
// yields a fresh empty State. When the file exists it must be both readable
// and writable; either permission failure is reported, with the path, before
// any parsing is attempted. Content that does not parse as a state document
// yields ErrInvalidFormat.
func Load(path string) (*State, error) {
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("stat state file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s: %w: path is a directory", path, ErrInvalidFormat)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNotReadable)
	}
	defer func() { _ = file.Close() }()

	w, err := os.OpenFile(path, os.O_WRONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, ErrNotWritable)
	}
	_ = w.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read state file %s: %w", path, err)
	}

	st := &State{}
	if err := xml.Unmarshal(data, st); err != nil {
		return nil, fmt.Errorf("%s: %w: %v", path, ErrInvalidFormat, err)
	}
	if st.Undo.Entries == nil {
		st.Undo.Entries = []UndoEntry{}
	}
	return st, nil
}

// Save serializes st and overwrites the file at path unconditionally,
// creating parent directories as needed. Last writer wins: nothing guards
// against another process racing on the same file.
func Save(path string, st *State) error {
	if st.Undo.Entries == nil {
		st.Undo.Entries = []UndoEntry{}
	}
	data, err := xml.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	out := append([]byte(xml.Header), data...)
	out = append(out, '\n')
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
