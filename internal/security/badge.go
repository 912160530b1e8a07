package security

import (
	"crypto/rand"
	"fmt"
)

const badgeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// NewBadgeNumber returns a visitor badge code of the form VMS-XXXXXX,
// where each X is an uppercase letter or digit. Badges identify a
// checked-in visitor for the duration of a single visit; they are not
// required to be globally unique.
func NewBadgeNumber() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate badge: %w", err)
	}
	for i, b := range buf {
		buf[i] = badgeAlphabet[int(b)%len(badgeAlphabet)]
	}
	return "VMS-" + string(buf), nil
}
