package booking

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/wolfman30/ward-portal/internal/schedule"
)

// PendingCode is shown while the draft has no slot.
const PendingCode = "TT-PENDING"

// maxSuffix bounds the random tail of a booking code.
const maxSuffix = 100

// CodeGenerator builds human-readable appointment codes of the form
// TT-DDMM-HHMM-NN. Codes are not checked for collisions.
type CodeGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewCodeGenerator uses rnd for the random suffix. A nil rnd is seeded from
// the clock.
func NewCodeGenerator(rnd *rand.Rand) *CodeGenerator {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &CodeGenerator{rnd: rnd}
}

// Generate returns a fresh code for date and slot. The suffix is uniform in
// [1, 100] and zero-padded to two digits.
func (g *CodeGenerator) Generate(date time.Time, slot schedule.Slot) string {
	g.mu.Lock()
	n := g.rnd.Intn(maxSuffix) + 1
	g.mu.Unlock()
	return Format(date, slot, n)
}

// Preview returns PendingCode until a slot is chosen, then a generated code.
func (g *CodeGenerator) Preview(date time.Time, slot *schedule.Slot) string {
	if slot == nil || slot.IsZero() {
		return PendingCode
	}
	return g.Generate(date, *slot)
}

// Format renders a code with a fixed suffix.
func Format(date time.Time, slot schedule.Slot, suffix int) string {
	return fmt.Sprintf("TT-%02d%02d-%s-%02d", date.Day(), int(date.Month()), slot.Start.Compact(), suffix)
}
