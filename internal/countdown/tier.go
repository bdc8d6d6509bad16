package countdown

import "fmt"

// Tier is a discrete urgency classification.
type Tier string

const (
	TierSafe     Tier = "safe"
	TierWarning  Tier = "warning"
	TierUrgent   Tier = "urgent"
	TierCritical Tier = "critical"
	TierPast     Tier = "past"
)

// Tiers lists every tier from least to most urgent.
var Tiers = []Tier{TierSafe, TierWarning, TierUrgent, TierCritical, TierPast}

// Classify maps the remaining time to a tier. Thresholds are strict, so exactly
// one day left is urgent, not critical, and exactly four days left is safe.
func Classify(days float64, totalMs int64) Tier {
	switch {
	case totalMs <= 0:
		return TierPast
	case days < 1:
		return TierCritical
	case days < 2:
		return TierUrgent
	case days < 4:
		return TierWarning
	default:
		return TierSafe
	}
}

// Severity returns the tier's position in Tiers; higher is more urgent.
func (t Tier) Severity() int {
	for i, v := range Tiers {
		if v == t {
			return i
		}
	}
	return -1
}

// ParseTier validates a tier name.
func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if t.Severity() < 0 {
		return "", fmt.Errorf("unknown urgency tier %q", s)
	}
	return t, nil
}
