package ids

import "github.com/segmentio/ksuid"

// New returns a time-ordered unique identifier. KSUIDs sort by creation
// time, which keeps list queries cheap in both storage backends.
func New() string {
	return ksuid.New().String()
}
