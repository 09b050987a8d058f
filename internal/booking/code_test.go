package booking

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/ward-portal/internal/schedule"
)

func TestFormat(t *testing.T) {
	date := time.Date(2026, 12, 5, 0, 0, 0, 0, time.UTC)
	slot := schedule.NewSlot(9, 0, 9, 30)

	assert.Equal(t, "TT-0512-0900-37", Format(date, slot, 37))
	assert.Equal(t, "TT-0512-0900-05", Format(date, slot, 5))
	assert.Equal(t, "TT-0512-0900-100", Format(date, slot, 100))
}

func TestGenerate_SuffixInRange(t *testing.T) {
	gen := NewCodeGenerator(rand.New(rand.NewSource(42)))
	date := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)
	slot := schedule.NewSlot(13, 30, 14, 0)
	pattern := regexp.MustCompile(`^TT-1610-1330-\d{2,3}$`)

	seen := map[int]bool{}
	for i := 0; i < 5000; i++ {
		code := gen.Generate(date, slot)
		require.Regexp(t, pattern, code)
		n, err := strconv.Atoi(code[strings.LastIndex(code, "-")+1:])
		require.NoError(t, err)
		require.GreaterOrEqual(t, n, 1)
		require.LessOrEqual(t, n, 100)
		seen[n] = true
	}
	assert.True(t, seen[1], "suffix 1 should be reachable")
	assert.True(t, seen[100], "suffix 100 should be reachable")
}

func TestPreview_PendingUntilSlotChosen(t *testing.T) {
	gen := NewCodeGenerator(rand.New(rand.NewSource(1)))
	date := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, PendingCode, gen.Preview(date, nil))
	assert.Equal(t, PendingCode, gen.Preview(date, &schedule.Slot{}))

	slot := schedule.NewSlot(7, 30, 8, 0)
	assert.True(t, strings.HasPrefix(gen.Preview(date, &slot), "TT-1610-0730-"))
}
