package desc

import "strings"

// RecoveryPolicy describes how to recover the authored display name of
// a script-struct property whose live name embeds a generated
// uniqueness suffix. The convention handled here is
// "<display>_<ordinal>_<suffix>" where the suffix has a fixed length;
// other host type systems can substitute their own rule.
type RecoveryPolicy struct {
	// SuffixLen is the length of the generated uniqueness suffix.
	SuffixLen int

	// Separator joins the display name, ordinal and suffix segments.
	Separator byte
}

// DefaultRecoveryPolicy matches the common 32-character hex suffix
// convention.
var DefaultRecoveryPolicy = RecoveryPolicy{SuffixLen: 32, Separator: '_'}

// DisplayName strips the generated segments from a live property
// name. Names too short to plausibly contain a suffix are returned
// unchanged.
func (p RecoveryPolicy) DisplayName(raw string) string {
	minimal := p.SuffixLen + 3
	if len(raw) <= minimal {
		return raw
	}

	name := raw[:len(raw)-p.SuffixLen-1]
	if i := strings.LastIndexByte(name, p.Separator); i >= 0 {
		name = name[:i]
	}
	return name
}
