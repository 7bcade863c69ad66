package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gomilk/rtmagent/api"
)

func TestLoad_MissingConfigYieldsZeroConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg != (Config{}) {
		t.Fatalf("Load = %#v, want zero Config", cfg)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
api_key = "  key123  "
api_secret = "sekrit"
state_file = "~/.rtm-state"
trace = ["outgoing", "Incoming"]
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIKey != "key123" || cfg.APISecret != "sekrit" {
		t.Fatalf("credentials = %q/%q, want key123/sekrit", cfg.APIKey, cfg.APISecret)
	}
	if cfg.StateFile != filepath.Join(home, ".rtm-state") {
		t.Fatalf("StateFile = %q, want it expanded under HOME %q", cfg.StateFile, home)
	}
	if cfg.Trace != api.TraceOutgoing|api.TraceIncoming {
		t.Fatalf("Trace = %v, want outgoing|incoming", cfg.Trace)
	}
}

func TestLoad_UnknownTraceFlagFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`trace = ["sideways"]`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "sideways") {
		t.Fatalf("Load error = %v, want unknown trace flag error", err)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`api_key = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %v, want parse config error", err)
	}
}

func TestOptions_MapsFields(t *testing.T) {
	t.Parallel()

	cfg := Config{
		APIKey:    "k",
		APISecret: "s",
		StateFile: "/tmp/state",
		Trace:     api.TraceOutgoing,
	}
	opts := cfg.Options()
	if opts.APIKey != "k" || opts.APISecret != "s" || opts.StatePath != "/tmp/state" || opts.Trace != api.TraceOutgoing {
		t.Fatalf("Options = %#v, want config fields carried over", opts)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if got != filepath.Join(home, "a/b") {
		t.Fatalf("expandPath = %q, want %q", got, filepath.Join(home, "a/b"))
	}

	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath of blank returned nil error, want error")
	}
}
