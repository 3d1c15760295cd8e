package rating

import (
	"math"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"
)

// 结构分与非结构分的固定权重（多处分类依赖此比例，保持与历史行为一致）
const (
	structuralWeight    = 0.7
	nonStructuralWeight = 0.3
)

// attentionThreshold 综合分低于该值的单元计入"需关注"
const attentionThreshold = 3.0

// RecomputeUnit 重算单元级汇总
// 每个分类只对当前持有评分的组件求平均（忽略未评分槽位），1 位小数舍入；
// 综合分仅在两个分类平均值都存在时计算；分类标签优先取综合分，
// 非结构缺失时退回结构分（安全分类始终以结构评分为先）
func RecomputeUnit(u domain.RateableUnit) domain.UnitRollup {
	structural := categoryAverage(u, domain.CategoryStructural)
	nonStructural := categoryAverage(u, domain.CategoryNonStructural)

	var combined *float64
	if structural != nil && nonStructural != nil {
		v := round1(*structural*structuralWeight + *nonStructural*nonStructuralWeight)
		combined = &v
	}

	status, priority := Classify(classificationBasis(combined, structural))

	return domain.UnitRollup{
		StructuralAvg:    structural,
		NonStructuralAvg: nonStructural,
		CombinedScore:    combined,
		HealthStatus:     status,
		Priority:         priority,
	}
}

// RecomputeFloor 重算楼层级汇总
// 对单元级分类平均值再求平均（不回到原始组件评分），只计入该分类
// 非空的单元；FlatsNeedingAttention 统计综合分 < 3 的单元数
func RecomputeFloor(f domain.Floor) domain.FloorRollup {
	var structVals, nonStructVals []float64
	attention := 0
	for i := range f.Units {
		r := f.Units[i].Rollup
		if r.StructuralAvg != nil {
			structVals = append(structVals, *r.StructuralAvg)
		}
		if r.NonStructuralAvg != nil {
			nonStructVals = append(nonStructVals, *r.NonStructuralAvg)
		}
		if r.CombinedScore != nil && *r.CombinedScore < attentionThreshold {
			attention++
		}
	}

	return rollupFromAverages(structVals, nonStructVals, attention)
}

// RecomputeStructure 重算建筑级汇总（最终健康评估），对楼层级平均值再求平均
func RecomputeStructure(s domain.Structure) domain.StructureRollup {
	var structVals, nonStructVals []float64
	attention := 0
	for i := range s.Floors {
		r := s.Floors[i].Rollup
		if r.StructuralAvg != nil {
			structVals = append(structVals, *r.StructuralAvg)
		}
		if r.NonStructuralAvg != nil {
			nonStructVals = append(nonStructVals, *r.NonStructuralAvg)
		}
		attention += r.FlatsNeedingAttention
	}

	fr := rollupFromAverages(structVals, nonStructVals, attention)
	return domain.StructureRollup(fr)
}

// RecomputeChain 评分提交后沿 单元 → 楼层 → 建筑 所有权链重算
// 只重算受影响子树的祖先；对无变化的重复调用产生位相同的结果（幂等）
func RecomputeChain(s *domain.Structure, floorID, unitID string) bool {
	floor := s.FindFloor(floorID)
	if floor == nil {
		return false
	}
	unit := floor.FindUnit(unitID)
	if unit == nil {
		return false
	}

	unit.Rollup = RecomputeUnit(*unit)
	floor.Rollup = RecomputeFloor(*floor)
	s.Rollup = RecomputeStructure(*s)
	return true
}

// categoryAverage 分类平均：对该分类下持有评分的组件求平均，无则返回 nil
func categoryAverage(u domain.RateableUnit, category domain.ComponentCategory) *float64 {
	sum, count := 0, 0
	for componentType, r := range u.Ratings {
		c, ok := domain.ComponentCategoryOf(componentType)
		if !ok || c != category {
			continue
		}
		if r.Rating < 1 {
			continue
		}
		sum += r.Rating
		count++
	}
	if count == 0 {
		return nil
	}
	avg := round1(float64(sum) / float64(count))
	return &avg
}

func rollupFromAverages(structVals, nonStructVals []float64, attention int) domain.FloorRollup {
	structural := average1(structVals)
	nonStructural := average1(nonStructVals)

	var combined *float64
	if structural != nil && nonStructural != nil {
		v := round1(*structural*structuralWeight + *nonStructural*nonStructuralWeight)
		combined = &v
	}

	status, priority := Classify(classificationBasis(combined, structural))

	return domain.FloorRollup{
		StructuralAvg:         structural,
		NonStructuralAvg:      nonStructural,
		CombinedScore:         combined,
		HealthStatus:          status,
		Priority:              priority,
		FlatsNeedingAttention: attention,
	}
}

// classificationBasis 分类依据：综合分存在用综合分，否则退回结构分;
// 只有非结构分时不给出安全分类
func classificationBasis(combined, structural *float64) *float64 {
	if combined != nil {
		return combined
	}
	return structural
}

func average1(vals []float64) *float64 {
	if len(vals) == 0 {
		return nil
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	avg := round1(sum / float64(len(vals)))
	return &avg
}

// round1 1 位小数舍入（分类边界比较建立在舍入后的值上）
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
