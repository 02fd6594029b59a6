package schema

import (
	"fmt"
	"strings"

	errUtils "github.com/cloudposse/tierconf/errors"
)

// Tier is the precedence level of a configuration document. The zero Tier means "missing".
type Tier string

const (
	TierOrganization Tier = "organization"
	TierTeam         Tier = "team"
	TierProject      Tier = "project"
)

// Precedence lists tiers from most to least specific. It is the only definition of "who wins";
// everything else goes through Rank and Outranks.
var Precedence = []Tier{TierProject, TierTeam, TierOrganization}

// ParseTier parses a tier name case-insensitively.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q (expected one of %s)", errUtils.ErrInvalidTier, s, tierNames())
	}
	return t, nil
}

func tierNames() string {
	names := make([]string, len(Precedence))
	for i, t := range Precedence {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	return Rank(t) >= 0
}

func (t Tier) String() string {
	return string(t)
}

// Rank returns the position of t in Precedence (0 is the most specific) or -1 for unknown tiers.
func Rank(t Tier) int {
	for i, p := range Precedence {
		if p == t {
			return i
		}
	}
	return -1
}

// Outranks reports whether a strictly wins over b. Unknown tiers lose to every known tier.
func Outranks(a, b Tier) bool {
	ra, rb := Rank(a), Rank(b)
	switch {
	case ra < 0:
		return false
	case rb < 0:
		return true
	default:
		return ra < rb
	}
}
