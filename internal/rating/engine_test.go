package rating

import (
	"testing"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitWithRatings 构造带指定评分的单元；structural/nonStructural 为
// 组件类型 → 评分
func unitWithRatings(structural, nonStructural map[string]int) domain.RateableUnit {
	u := domain.RateableUnit{
		UnitID:    "unit-1",
		UnitLabel: "101",
		UnitType:  "flat",
		Ratings:   map[string]domain.ComponentRating{},
	}
	for componentType, r := range structural {
		u.Ratings[componentType] = domain.ComponentRating{ComponentType: componentType, Rating: r}
	}
	for componentType, r := range nonStructural {
		u.Ratings[componentType] = domain.ComponentRating{ComponentType: componentType, Rating: r}
	}
	return u
}

// uniformUnit 全组件同一评分的单元
func uniformUnit(r int) domain.RateableUnit {
	structural := map[string]int{}
	for _, c := range domain.StructuralComponents {
		structural[c] = r
	}
	nonStructural := map[string]int{}
	for _, c := range domain.NonStructuralComponents {
		nonStructural[c] = r
	}
	return unitWithRatings(structural, nonStructural)
}

func TestRecomputeUnit_EmptyUnitYieldsNullRollup(t *testing.T) {
	// 无任何评分：空汇总，不是错误
	rollup := RecomputeUnit(unitWithRatings(nil, nil))
	assert.Nil(t, rollup.StructuralAvg)
	assert.Nil(t, rollup.NonStructuralAvg)
	assert.Nil(t, rollup.CombinedScore)
	assert.Nil(t, rollup.HealthStatus)
	assert.Nil(t, rollup.Priority)
}

func TestRecomputeUnit_WeightedCombination(t *testing.T) {
	// structural 4.0, non-structural 2.0 → combined 4.0*0.7+2.0*0.3 = 3.4 → Fair/Medium
	u := unitWithRatings(
		map[string]int{"beams": 4, "columns": 4},
		map[string]int{"plumbing": 2, "electrical_wiring": 2},
	)
	rollup := RecomputeUnit(u)

	require.NotNil(t, rollup.CombinedScore)
	assert.Equal(t, 4.0, *rollup.StructuralAvg)
	assert.Equal(t, 2.0, *rollup.NonStructuralAvg)
	assert.Equal(t, 3.4, *rollup.CombinedScore)
	assert.Equal(t, domain.HealthFair, *rollup.HealthStatus)
	assert.Equal(t, domain.PriorityMedium, *rollup.Priority)
}

func TestRecomputeUnit_IgnoresUnsetComponents(t *testing.T) {
	// 只评了部分槽位：平均只对已评分组件计算
	u := unitWithRatings(map[string]int{"beams": 5, "slab": 2}, nil)
	rollup := RecomputeUnit(u)

	require.NotNil(t, rollup.StructuralAvg)
	assert.Equal(t, 3.5, *rollup.StructuralAvg)
	assert.Nil(t, rollup.NonStructuralAvg)
	assert.Nil(t, rollup.CombinedScore)
}

func TestRecomputeUnit_StructuralOnlyClassification(t *testing.T) {
	// 非结构缺失：分类退回结构分
	u := unitWithRatings(map[string]int{"beams": 1, "columns": 1}, nil)
	rollup := RecomputeUnit(u)

	assert.Nil(t, rollup.CombinedScore)
	require.NotNil(t, rollup.HealthStatus)
	assert.Equal(t, domain.HealthCritical, *rollup.HealthStatus)
	assert.Equal(t, domain.PriorityCritical, *rollup.Priority)
}

func TestRecomputeUnit_NonStructuralOnlyNoClassification(t *testing.T) {
	// 只有非结构评分不给出安全分类（结构优先）
	u := unitWithRatings(nil, map[string]int{"plumbing": 5})
	rollup := RecomputeUnit(u)

	require.NotNil(t, rollup.NonStructuralAvg)
	assert.Nil(t, rollup.CombinedScore)
	assert.Nil(t, rollup.HealthStatus)
	assert.Nil(t, rollup.Priority)
}

func TestRecomputeUnit_RoundingToOneDecimal(t *testing.T) {
	// (5+4+4)/3 = 4.333... → 4.3
	u := unitWithRatings(map[string]int{"beams": 5, "columns": 4, "slab": 4}, nil)
	rollup := RecomputeUnit(u)
	assert.Equal(t, 4.3, *rollup.StructuralAvg)
}

func TestRecomputeFloor_AveragesUnitAverages(t *testing.T) {
	u1 := unitWithRatings(map[string]int{"beams": 5}, map[string]int{"plumbing": 5})
	u1.Rollup = RecomputeUnit(u1)
	u2 := unitWithRatings(map[string]int{"beams": 1}, map[string]int{"plumbing": 1})
	u2.Rollup = RecomputeUnit(u2)

	floor := domain.Floor{FloorID: "f1", FloorNumber: 1, Units: []domain.RateableUnit{u1, u2}}
	rollup := RecomputeFloor(floor)

	assert.Equal(t, 3.0, *rollup.StructuralAvg)
	assert.Equal(t, 3.0, *rollup.NonStructuralAvg)
	assert.Equal(t, 3.0, *rollup.CombinedScore)
	assert.Equal(t, domain.HealthFair, *rollup.HealthStatus)
	// u2 综合分 1.0 < 3 计入需关注
	assert.Equal(t, 1, rollup.FlatsNeedingAttention)
}

func TestRecomputeFloor_SkipsUnitsWithoutCategoryValue(t *testing.T) {
	rated := unitWithRatings(map[string]int{"beams": 4}, nil)
	rated.Rollup = RecomputeUnit(rated)
	empty := unitWithRatings(nil, nil)
	empty.Rollup = RecomputeUnit(empty)

	floor := domain.Floor{FloorID: "f1", Units: []domain.RateableUnit{rated, empty}}
	rollup := RecomputeFloor(floor)

	// 空单元不拉低平均
	assert.Equal(t, 4.0, *rollup.StructuralAvg)
	assert.Nil(t, rollup.NonStructuralAvg)
	assert.Equal(t, 0, rollup.FlatsNeedingAttention)
}

func TestRecomputeStructure_EndToEndScenario(t *testing.T) {
	// 两层各一个单元：一层全 5，二层全 1
	// 建筑级 structuralAvg = (5+1)/2 = 3.0，combined = 3.0 → Fair/Medium
	u1 := uniformUnit(5)
	u1.Rollup = RecomputeUnit(u1)
	u2 := uniformUnit(1)
	u2.Rollup = RecomputeUnit(u2)

	f1 := domain.Floor{FloorID: "f1", FloorNumber: 1, Units: []domain.RateableUnit{u1}}
	f1.Rollup = RecomputeFloor(f1)
	f2 := domain.Floor{FloorID: "f2", FloorNumber: 2, Units: []domain.RateableUnit{u2}}
	f2.Rollup = RecomputeFloor(f2)

	s := domain.Structure{StructureID: "s1", Floors: []domain.Floor{f1, f2}}
	rollup := RecomputeStructure(s)

	assert.Equal(t, 3.0, *rollup.StructuralAvg)
	assert.Equal(t, 3.0, *rollup.NonStructuralAvg)
	assert.Equal(t, 3.0, *rollup.CombinedScore)
	assert.Equal(t, domain.HealthFair, *rollup.HealthStatus)
	assert.Equal(t, domain.PriorityMedium, *rollup.Priority)
	// 二层单元综合分 1.0 < 3
	assert.Equal(t, 1, rollup.FlatsNeedingAttention)
}

func TestRecomputeChain_Idempotent(t *testing.T) {
	u := unitWithRatings(map[string]int{"beams": 4, "columns": 3}, map[string]int{"plumbing": 2})
	floor := domain.Floor{FloorID: "f1", FloorNumber: 1, Units: []domain.RateableUnit{u}}
	s := domain.Structure{
		StructureID: "s1",
		Floors:      []domain.Floor{floor},
	}

	require.True(t, RecomputeChain(&s, "f1", "unit-1"))
	first := s.Rollup
	firstFloor := s.Floors[0].Rollup
	firstUnit := s.Floors[0].Units[0].Rollup

	// 无变化重算：位相同的结果
	require.True(t, RecomputeChain(&s, "f1", "unit-1"))
	assert.Equal(t, first, s.Rollup)
	assert.Equal(t, firstFloor, s.Floors[0].Rollup)
	assert.Equal(t, firstUnit, s.Floors[0].Units[0].Rollup)
}

func TestRecomputeChain_UnknownIDs(t *testing.T) {
	s := domain.Structure{StructureID: "s1"}
	assert.False(t, RecomputeChain(&s, "missing-floor", "missing-unit"))
}

func TestRecomputeChain_PropagatesRatingChange(t *testing.T) {
	u := uniformUnit(5)
	floor := domain.Floor{FloorID: "f1", FloorNumber: 1, Units: []domain.RateableUnit{u}}
	s := domain.Structure{StructureID: "s1", Floors: []domain.Floor{floor}}

	require.True(t, RecomputeChain(&s, "f1", "unit-1"))
	assert.Equal(t, domain.HealthGood, *s.Rollup.HealthStatus)

	// 覆盖提交把 beams 降到 1 后重算，建筑级随之变化
	unit := s.Floors[0].FindUnit("unit-1")
	unit.Ratings["beams"] = domain.ComponentRating{ComponentType: "beams", Rating: 1}
	require.True(t, RecomputeChain(&s, "f1", "unit-1"))

	assert.Equal(t, 4.0, *s.Rollup.StructuralAvg)
	assert.Equal(t, domain.HealthGood, *s.Rollup.HealthStatus)
	assert.Less(t, *s.Rollup.StructuralAvg, 5.0)
}
