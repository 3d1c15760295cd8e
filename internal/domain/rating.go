package domain

import (
	"time"
)

// ComponentCategory 组件分类（结构 / 非结构）
type ComponentCategory string

const (
	CategoryStructural    ComponentCategory = "structural"
	CategoryNonStructural ComponentCategory = "non_structural"
)

// DistressType 病害类型
type DistressType string

const (
	DistressPhysical   DistressType = "physical"
	DistressChemical   DistressType = "chemical"
	DistressMechanical DistressType = "mechanical"
)

// StructuralComponents 结构组件槽位（每个单元各一个评分槽位）
var StructuralComponents = []string{
	"beams",
	"columns",
	"slab",
	"foundation",
}

// NonStructuralComponents 非结构组件槽位
var NonStructuralComponents = []string{
	"brick_plaster",
	"doors_windows",
	"flooring_tiles",
	"electrical_wiring",
	"sanitary_fittings",
	"railings",
	"water_tanks",
	"plumbing",
	"sewage_system",
	"lifts",
}

// ComponentCategoryOf 返回组件类型所属分类，未知组件返回 ok=false
func ComponentCategoryOf(componentType string) (ComponentCategory, bool) {
	for _, c := range StructuralComponents {
		if c == componentType {
			return CategoryStructural, true
		}
	}
	for _, c := range NonStructuralComponents {
		if c == componentType {
			return CategoryNonStructural, true
		}
	}
	return "", false
}

// DistressDimensions 病害尺寸（长/宽/高 + 计量单位）
type DistressDimensions struct {
	Length  float64 `json:"length,omitempty"`
	Breadth float64 `json:"breadth,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Unit    string  `json:"unit"` // "mm" | "cm" | "m" | "inch" | "feet"
}

// ComponentRating 单个组件的检查评分（通过证据校验后才会持久化）
type ComponentRating struct {
	ComponentType     string              `json:"component_type"`
	Rating            int                 `json:"rating"` // 1..5
	ConditionComment  string              `json:"condition_comment,omitempty"`
	Photos            []string            `json:"photos"`
	InspectorNotes    string              `json:"inspector_notes,omitempty"`
	Distress          *DistressDimensions `json:"distress_dimensions,omitempty"`
	DistressTypes     []DistressType      `json:"distress_types,omitempty"`
	RepairMethodology string              `json:"repair_methodology,omitempty"`
	RatedAt           time.Time           `json:"rated_at"`
}

// HealthStatus 健康状态标签
type HealthStatus string

const (
	HealthGood     HealthStatus = "Good"
	HealthFair     HealthStatus = "Fair"
	HealthPoor     HealthStatus = "Poor"
	HealthCritical HealthStatus = "Critical"
)

// Priority 处置优先级标签
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)

// UnitRollup 单元级汇总
// 平均值字段为 nil 表示该分类下没有任何已评分组件
type UnitRollup struct {
	StructuralAvg    *float64      `json:"structural_avg,omitempty"`
	NonStructuralAvg *float64      `json:"non_structural_avg,omitempty"`
	CombinedScore    *float64      `json:"combined_score,omitempty"`
	HealthStatus     *HealthStatus `json:"health_status,omitempty"`
	Priority         *Priority     `json:"priority,omitempty"`
}

// FloorRollup 楼层级汇总（对单元级平均值再求平均，不重算原始组件）
type FloorRollup struct {
	StructuralAvg         *float64      `json:"structural_avg,omitempty"`
	NonStructuralAvg      *float64      `json:"non_structural_avg,omitempty"`
	CombinedScore         *float64      `json:"combined_score,omitempty"`
	HealthStatus          *HealthStatus `json:"health_status,omitempty"`
	Priority              *Priority     `json:"priority,omitempty"`
	FlatsNeedingAttention int           `json:"flats_needing_attention"`
}

// StructureRollup 建筑级汇总（最终健康评估）
type StructureRollup struct {
	StructuralAvg         *float64      `json:"structural_avg,omitempty"`
	NonStructuralAvg      *float64      `json:"non_structural_avg,omitempty"`
	CombinedScore         *float64      `json:"combined_score,omitempty"`
	HealthStatus          *HealthStatus `json:"health_status,omitempty"`
	Priority              *Priority     `json:"priority,omitempty"`
	FlatsNeedingAttention int           `json:"flats_needing_attention"`
}
