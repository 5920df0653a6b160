// Package identifier issues globally unique ticket identifiers.
package identifier

import "github.com/google/uuid"

// New returns a fresh 128-bit random identifier string. The value is drawn
// from crypto/rand via uuid v4, so ids are neither guessable nor enumerable
// and uniqueness holds probabilistically without consulting existing
// records. Panics only on entropy source failure.
func New() string {
	return uuid.NewString()
}
