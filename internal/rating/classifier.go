package rating

import (
	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"
)

// Classify 把 1 位小数的健康分映射为状态/优先级标签
// 分段下界含边界；入参应当已按 1 位小数舍入，避免边界抖动：
//
//	score == nil  → (nil, nil)
//	score >= 4    → Good / Low
//	score >= 3    → Fair / Medium
//	score >= 2    → Poor / High
//	score <  2    → Critical / Critical
func Classify(score *float64) (*domain.HealthStatus, *domain.Priority) {
	if score == nil {
		return nil, nil
	}

	var status domain.HealthStatus
	var priority domain.Priority
	switch {
	case *score >= 4:
		status, priority = domain.HealthGood, domain.PriorityLow
	case *score >= 3:
		status, priority = domain.HealthFair, domain.PriorityMedium
	case *score >= 2:
		status, priority = domain.HealthPoor, domain.PriorityHigh
	default:
		status, priority = domain.HealthCritical, domain.PriorityCritical
	}
	return &status, &priority
}
