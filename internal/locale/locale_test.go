package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := map[string]Language{
		"en":    English,
		"EN-us": English,
		" vi ":  Vietnamese,
		"":      Vietnamese,
		"fr":    Vietnamese,
	}
	for in, want := range tests {
		assert.Equal(t, want, Parse(in), "Parse(%q)", in)
	}
}

func TestTablesComplete(t *testing.T) {
	for _, lang := range []Language{Vietnamese, English} {
		tbl := Strings(lang)
		for name, s := range map[string]string{
			"Welcome":           tbl.Welcome,
			"EmptyReply":        tbl.EmptyReply,
			"Instruction":       tbl.Instruction,
			"ApologyGeneric":    tbl.ApologyGeneric,
			"ApologyMissingKey": tbl.ApologyMissingKey,
			"ApologyQuota":      tbl.ApologyQuota,
			"ApologyInvalidKey": tbl.ApologyInvalidKey,
			"ApologyNetwork":    tbl.ApologyNetwork,
			"NoSlotsToday":      tbl.NoSlotsToday,
		} {
			assert.NotEmpty(t, s, "%s missing for %s", name, lang)
		}
		assert.Len(t, tbl.Suggestions, 5)
	}
}

func TestStringsUnknownFallsBack(t *testing.T) {
	assert.Equal(t, Strings(Vietnamese).Welcome, Strings(Language("de")).Welcome)
}

func TestApologiesAreDistinct(t *testing.T) {
	tbl := Strings(English)
	seen := map[string]bool{}
	for _, s := range []string{tbl.ApologyGeneric, tbl.ApologyMissingKey, tbl.ApologyQuota, tbl.ApologyInvalidKey, tbl.ApologyNetwork} {
		assert.False(t, seen[s], "duplicate apology %q", s)
		seen[s] = true
	}
}
