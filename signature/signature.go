// Package signature computes the request signatures the Remember The Milk
// API uses to verify that a caller holds the shared API secret.
package signature

import (
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
)

// Sign computes the api_sig value for a set of request parameters given as
// literal "key=value" strings. The parameters are sorted before hashing, so
// the result does not depend on the order they are supplied in. The service
// expects md5(secret + sorted parameters concatenated with every '='
// removed), rendered as a lowercase hex digest.
func Sign(secret string, params []string) string {
	sorted := make([]string, len(params))
	copy(sorted, params)
	sort.Strings(sorted)

	joined := strings.ReplaceAll(strings.Join(sorted, ""), "=", "")
	sum := md5.Sum([]byte(secret + joined))
	return hex.EncodeToString(sum[:])
}
