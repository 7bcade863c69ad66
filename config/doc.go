// Package config loads the optional on-disk settings for an agent.
//
// The file lives at ~/.config/rtmagent/config.toml by default:
//
//	api_key = "0123456789abcdef"
//	api_secret = "fedcba9876543210"
//	state_file = "~/.rtmagent"
//	trace = ["outgoing", "incoming"]
//
// Every field is optional and a missing file is not an error, so programs
// embedding the library can skip this package entirely and fill in
// rtmagent.Options themselves. Tilde paths are expanded; parse errors are
// reported rather than papered over, since silently ignoring a typo in
// credentials would be worse than failing.
package config
