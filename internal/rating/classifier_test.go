package rating

import (
	"testing"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f(v float64) *float64 { return &v }

func TestClassify_NilScore(t *testing.T) {
	status, priority := Classify(nil)
	assert.Nil(t, status)
	assert.Nil(t, priority)
}

func TestClassify_Bands(t *testing.T) {
	tests := []struct {
		score    float64
		status   domain.HealthStatus
		priority domain.Priority
	}{
		{5.0, domain.HealthGood, domain.PriorityLow},
		{4.0, domain.HealthGood, domain.PriorityLow}, // 下界含边界
		{3.9, domain.HealthFair, domain.PriorityMedium},
		{3.0, domain.HealthFair, domain.PriorityMedium},
		{2.9, domain.HealthPoor, domain.PriorityHigh},
		{2.0, domain.HealthPoor, domain.PriorityHigh},
		{1.9, domain.HealthCritical, domain.PriorityCritical},
		{1.0, domain.HealthCritical, domain.PriorityCritical},
	}
	for _, tt := range tests {
		status, priority := Classify(f(tt.score))
		require.NotNil(t, status)
		require.NotNil(t, priority)
		assert.Equal(t, tt.status, *status, "score %.1f", tt.score)
		assert.Equal(t, tt.priority, *priority, "score %.1f", tt.score)
	}
}

func TestClassify_BoundaryExamples(t *testing.T) {
	// 规格样例：3.99 落在 Fair（比较建立在 1 位小数舍入后的值上，
	// 引擎产出的 3.99 实际是 4.0；直接传入的未舍入值仍按区间判定）
	status, _ := Classify(f(3.99))
	assert.Equal(t, domain.HealthFair, *status)

	status, _ = Classify(f(1.99))
	assert.Equal(t, domain.HealthCritical, *status)
}
