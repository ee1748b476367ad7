package desc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	p := DefaultRecoveryPolicy

	cases := []struct {
		raw  string
		want string
	}{
		{"Health_01234567890123456789012345678901_3", "Health"},
		{"A_98765432109876543210987654321098_12", "A"},
		// too short to contain a suffix: returned unchanged
		{"Health", "Health"},
		{"X_3", "X_3"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, p.DisplayName(tc.raw), "raw %q", tc.raw)
	}
}

func TestDisplayNameCustomPolicy(t *testing.T) {
	p := RecoveryPolicy{SuffixLen: 4, Separator: '-'}

	assert.Equal(t, "Speed", p.DisplayName("Speed-2-abcd"))
	assert.Equal(t, "Spd", p.DisplayName("Spd-abcd"))
}
