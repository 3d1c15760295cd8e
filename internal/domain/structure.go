package domain

import (
	"time"
)

// StructureType 建筑类型（封闭枚举，决定身份码的 TypeCode）
type StructureType string

const (
	StructureTypeResidential   StructureType = "residential"
	StructureTypeCommercial    StructureType = "commercial"
	StructureTypeInstitutional StructureType = "institutional"
	StructureTypeEducational   StructureType = "educational"
	StructureTypeIndustrial    StructureType = "industrial"
)

// StructureStatus 建筑审计状态
type StructureStatus string

const (
	// StructureStatusDraft 草稿状态（可继续添加楼层/单元、提交评分）
	StructureStatusDraft StructureStatus = "draft"
	// StructureStatusSubmitted 终态（所有必填评分已提交）
	StructureStatusSubmitted StructureStatus = "submitted"
)

// Structure 建筑领域模型（对应 structures 表）
// IdentityCode 在创建时分配一次，之后不可变
type Structure struct {
	StructureID     string          `json:"structure_id"`
	IdentityCode    string          `json:"identity_code"`
	StateCode       string          `json:"state_code"`
	DistrictCode    string          `json:"district_code"`
	CityName        string          `json:"city_name"`
	LocationCode    string          `json:"location_code"`
	TypeOfStructure StructureType   `json:"type_of_structure"`
	Status          StructureStatus `json:"status"`
	Floors          []Floor         `json:"floors"`
	Rollup          StructureRollup `json:"rollup"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Floor 楼层领域模型（对应 floors 表）
type Floor struct {
	FloorID     string         `json:"floor_id"`
	FloorNumber int            `json:"floor_number"`
	Units       []RateableUnit `json:"units"`
	Rollup      FloorRollup    `json:"rollup"`
}

// RateableUnit 可评分单元（住宅 flat 或工业 block，对应 rateable_units 表）
// Ratings 以组件类型为 key，每个组件槽位最多持有一条评分（提交覆盖旧值）
type RateableUnit struct {
	UnitID    string                     `json:"unit_id"`
	UnitLabel string                     `json:"unit_label"`
	UnitType  string                     `json:"unit_type"` // "flat" 或 "block"
	Ratings   map[string]ComponentRating `json:"ratings"`
	Rollup    UnitRollup                 `json:"rollup"`
}

// FindFloor 按 ID 查找楼层（返回指向切片元素的指针，便于原位更新）
func (s *Structure) FindFloor(floorID string) *Floor {
	for i := range s.Floors {
		if s.Floors[i].FloorID == floorID {
			return &s.Floors[i]
		}
	}
	return nil
}

// FindUnit 按 ID 查找单元
func (f *Floor) FindUnit(unitID string) *RateableUnit {
	for i := range f.Units {
		if f.Units[i].UnitID == unitID {
			return &f.Units[i]
		}
	}
	return nil
}
