package evidence

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/models"
)

// 证据要求阈值
const (
	// minCommentLength 低分（≤3）时状况说明的最小长度
	minCommentLength = 10
	// minMethodologyLength 低分时修复方案的最小长度
	minMethodologyLength = 10
	// lowRatingThreshold 低于等于该评分需要完整病害证据
	lowRatingThreshold = 3
)

// Violation 单条证据违规（结构化返回，调用方可一次性展示全部违规）
type Violation struct {
	ComponentType string `json:"component_type"`
	UnitLabel     string `json:"unit_label"`
	Message       string `json:"message"`
}

// Check 校验一条评分提交的证据是否充分，返回违规列表（空 = 通过）
// 规则：
//   - 任何评分（1–5）都必须带评分值和至少一张照片
//   - 评分 ≤ 3 时还必须有 ≥10 字的状况说明、至少一个 >0 的病害尺寸、
//     非空的病害类型子集、≥10 字的修复方案字符串
func Check(sub models.RatingSubmission, unitLabel string) []Violation {
	var violations []Violation
	add := func(format string, args ...any) {
		violations = append(violations, Violation{
			ComponentType: sub.ComponentType,
			UnitLabel:     unitLabel,
			Message:       fmt.Sprintf(format, args...),
		})
	}

	if sub.ComponentType == "" {
		add("component type is required")
	} else if _, ok := domain.ComponentCategoryOf(sub.ComponentType); !ok {
		add("unknown component type %q", sub.ComponentType)
	}

	if sub.Rating < 1 || sub.Rating > 5 {
		add("rating must be between 1 and 5, got %d", sub.Rating)
		return violations
	}

	photos, ok := NormalizePhotos(sub.Photos)
	if !ok || len(photos) == 0 {
		add("at least one photo is required for rating %d", sub.Rating)
	}

	if sub.Rating > lowRatingThreshold {
		return violations
	}

	// 低分路径：要求完整病害证据（长度按字符数而非字节数）
	if utf8.RuneCountInString(strings.TrimSpace(sub.ConditionComment)) < minCommentLength {
		add("condition comment of at least %d characters is required for rating <= %d", minCommentLength, lowRatingThreshold)
	}

	if sub.Distress == nil || (sub.Distress.Length <= 0 && sub.Distress.Breadth <= 0 && sub.Distress.Height <= 0) {
		add("distress dimensions with at least one of length/breadth/height > 0 are required for rating <= %d", lowRatingThreshold)
	}

	if len(sub.DistressTypes) == 0 {
		add("at least one distress type is required for rating <= %d", lowRatingThreshold)
	} else {
		for _, dt := range sub.DistressTypes {
			switch domain.DistressType(dt) {
			case domain.DistressPhysical, domain.DistressChemical, domain.DistressMechanical:
			default:
				add("unknown distress type %q", dt)
			}
		}
	}

	methodology, isString := NormalizeRepairMethodology(sub.RepairMethodology)
	if !isString {
		// boolean / number 等非字符串值是违规，不是有效的修复方案
		add("repair methodology must be descriptive text, not %s", rawKind(sub.RepairMethodology))
	} else if utf8.RuneCountInString(strings.TrimSpace(methodology)) < minMethodologyLength {
		add("repair methodology of at least %d characters is required for rating <= %d", minMethodologyLength, lowRatingThreshold)
	}

	return violations
}

// CheckAll 校验一批提交，汇总所有违规（不在首个失败处中断）
func CheckAll(subs []models.RatingSubmission, unitLabel string) []Violation {
	var violations []Violation
	for _, sub := range subs {
		violations = append(violations, Check(sub, unitLabel)...)
	}
	return violations
}

// NormalizePhotos 规整照片字段：接受单个字符串或字符串数组
// 返回 ok=false 表示字段存在但无法解释为照片列表
func NormalizePhotos(raw json.RawMessage) ([]string, bool) {
	if len(raw) == 0 {
		return nil, true
	}

	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		if strings.TrimSpace(single) == "" {
			return nil, true
		}
		return []string{single}, true
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		out := make([]string, 0, len(list))
		for _, p := range list {
			if strings.TrimSpace(p) != "" {
				out = append(out, p)
			}
		}
		return out, true
	}

	return nil, false
}

// NormalizeRepairMethodology 解释修复方案字段：只有 JSON 字符串是合法形态
func NormalizeRepairMethodology(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

// rawKind 粗分 JSON 值类型，用于违规提示
func rawKind(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	switch {
	case trimmed == "":
		return "a missing value"
	case trimmed == "true" || trimmed == "false":
		return "a boolean value"
	case strings.HasPrefix(trimmed, "{"):
		return "an object"
	case strings.HasPrefix(trimmed, "["):
		return "an array"
	case trimmed == "null":
		return "null"
	default:
		return "a non-string value"
	}
}
