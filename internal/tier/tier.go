// internal/tier/tier.go
package tier

import "fmt"

// Tier is a subscription level. Tiers are totally ordered by entitlement:
// Free < Pro < Enterprise.
type Tier string

const (
	Free       Tier = "free"
	Pro        Tier = "pro"
	Enterprise Tier = "enterprise"
)

var ranks = map[Tier]int{
	Free:       0,
	Pro:        1,
	Enterprise: 2,
}

// Rank returns the entitlement rank of the tier. Unknown tiers rank below Free.
func (t Tier) Rank() int {
	if r, ok := ranks[t]; ok {
		return r
	}
	return -1
}

// Valid reports whether t is a known tier.
func (t Tier) Valid() bool {
	_, ok := ranks[t]
	return ok
}

// Parse converts a string into a Tier.
func Parse(s string) (Tier, error) {
	t := Tier(s)
	if !t.Valid() {
		return "", fmt.Errorf("tier: unknown tier %q", s)
	}
	return t, nil
}

// HasAccess reports whether a user on current may use a feature requiring
// required. Access holds iff rank(current) >= rank(required).
func HasAccess(current, required Tier) bool {
	return current.Rank() >= required.Rank()
}

// Requirement pairs a feature name with the minimum tier that unlocks it.
type Requirement struct {
	Feature  string `json:"feature"`
	Required Tier   `json:"required_tier"`
}

// Allows reports whether current satisfies the requirement.
func (r Requirement) Allows(current Tier) bool {
	return HasAccess(current, r.Required)
}
