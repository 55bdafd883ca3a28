package contracts

import "time"

// Risk check names. Every verdict reports all four, pass or fail.
const (
	CheckCash          = "cash_sufficiency"
	CheckConcentration = "position_concentration"
	CheckDailyLoss     = "daily_loss_ceiling"
	CheckPrice         = "price_sanity"
)

// CheckResult is one risk check's outcome. A check may record several
// violations (one per offending action); Passed means none.
type CheckResult struct {
	Name       string   `json:"name"`
	Passed     bool     `json:"passed"`
	Violations []string `json:"violations,omitempty"`
}

// RiskVerdict is the validator's output. IsValid is the conjunction of all
// checks; Violations lists every failing occurrence across all checks.
type RiskVerdict struct {
	IsValid     bool          `json:"is_valid"`
	Checks      []CheckResult `json:"checks"`
	Violations  []string      `json:"violations"`
	ValidatedAt time.Time     `json:"validated_at"`
}

// NewRiskVerdict derives IsValid and the flat violation list from the
// check results
func NewRiskVerdict(checks []CheckResult) *RiskVerdict {
	v := &RiskVerdict{
		IsValid:     true,
		Checks:      checks,
		Violations:  []string{},
		ValidatedAt: time.Now(),
	}
	for _, c := range checks {
		if !c.Passed {
			v.IsValid = false
			v.Violations = append(v.Violations, c.Violations...)
		}
	}
	return v
}
