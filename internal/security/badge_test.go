package security

import (
	"regexp"
	"testing"
)

func TestNewBadgeNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^VMS-[A-Z0-9]{6}$`)

	for i := 0; i < 100; i++ {
		badge, err := NewBadgeNumber()
		if err != nil {
			t.Fatalf("NewBadgeNumber: %v", err)
		}
		if !pattern.MatchString(badge) {
			t.Fatalf("badge %q does not match %s", badge, pattern)
		}
	}
}
