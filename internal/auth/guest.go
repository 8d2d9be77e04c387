package auth

import (
	"fmt"
	"math/rand/v2"
)

var (
	guestAdjectives = []string{
		"amber", "bold", "calm", "clever", "curious", "gentle", "keen",
		"lucky", "mellow", "quiet", "swift", "wandering",
	}
	guestAnimals = []string{
		"badger", "falcon", "heron", "lynx", "marten", "otter", "raven",
		"sable", "stoat", "tern", "vole", "wren",
	}
)

// GenerateGuestName composes a random throwaway display name like
// "quiet-otter-83". Guest identities are never persisted server-side,
// so collisions are harmless.
func GenerateGuestName() string {
	return fmt.Sprintf("%s-%s-%d",
		guestAdjectives[rand.IntN(len(guestAdjectives))],
		guestAnimals[rand.IntN(len(guestAnimals))],
		rand.IntN(100),
	)
}
