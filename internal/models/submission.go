package models

import (
	"encoding/json"
)

// DistressDimensionsPayload 病害尺寸（提交载荷）
type DistressDimensionsPayload struct {
	Length  float64 `json:"length,omitempty"`
	Breadth float64 `json:"breadth,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Unit    string  `json:"unit,omitempty"` // "mm" | "cm" | "m" | "inch" | "feet"
}

// RatingSubmission 单个组件的评分提交载荷（线上格式）
// Photos 可能是单个字符串或字符串数组；RepairMethodology 可能是任意
// JSON 值（历史客户端曾提交 boolean），因此二者保留原始 JSON，由
// 证据校验负责解释
type RatingSubmission struct {
	ComponentType     string                     `json:"component_type"`
	Rating            int                        `json:"rating"`
	ConditionComment  string                     `json:"condition_comment,omitempty"`
	Photos            json.RawMessage            `json:"photos,omitempty"`
	InspectorNotes    string                     `json:"inspector_notes,omitempty"`
	Distress          *DistressDimensionsPayload `json:"distress_dimensions,omitempty"`
	DistressTypes     []string                   `json:"distress_types,omitempty"`
	RepairMethodology json.RawMessage            `json:"repair_methodology,omitempty"`
}

// SubmissionEvent 评分提交事件（Redis Streams 消息体）
type SubmissionEvent struct {
	StructureID string             `json:"structure_id"`
	FloorID     string             `json:"floor_id"`
	UnitID      string             `json:"unit_id"`
	Ratings     []RatingSubmission `json:"ratings"`
	SubmittedAt int64              `json:"submitted_at"`
}
