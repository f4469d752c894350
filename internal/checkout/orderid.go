package checkout

import (
	"fmt"
	"math/rand"
)

// NewOrderID returns a short human-readable order code: a fixed prefix plus
// four digits. Visually distinct in casual use, not globally unique.
func NewOrderID() string {
	return fmt.Sprintf("BOT-%d", 1000+rand.Intn(9000))
}
