package cv

// Tier 置信度等级
type Tier string

const (
	TierHigh   Tier = "HIGH"
	TierMedium Tier = "MEDIUM"
	TierLow    Tier = "LOW"
)

// Thresholds 置信度分级阈值
type Thresholds struct {
	High   float64
	Medium float64
}

// Classify 按阈值对置信度分级
// c >= High 为 HIGH；Medium <= c < High 为 MEDIUM；其余为 LOW
func (t Thresholds) Classify(c float64) Tier {
	switch {
	case c >= t.High:
		return TierHigh
	case c >= t.Medium:
		return TierMedium
	default:
		return TierLow
	}
}
