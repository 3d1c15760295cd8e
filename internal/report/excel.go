package report

import (
	"bytes"
	"fmt"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/identity"

	"github.com/xuri/excelize/v2"
)

// AuditReportHeader 审计报告明细表头
var AuditReportHeader = []string{
	"Floor",
	"Unit",
	"Unit Type",
	"Structural Avg",
	"Non-Structural Avg",
	"Combined Score",
	"Health Status",
	"Priority",
}

// GenerateStructureReport 生成建筑审计报告 Excel
// Summary 工作表：身份码与建筑级最终健康评估
// Units 工作表：每单元一行的三级汇总明细
func GenerateStructureReport(s *domain.Structure) ([]byte, error) {
	f := excelize.NewFile()
	// 注意：出错路径手动 Close，WriteTo 需要文件保持打开

	summarySheet := "Summary"
	index, err := f.NewSheet(summarySheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	display := s.IdentityCode
	if formatted, err := identity.Format(s.IdentityCode); err == nil {
		display = formatted
	}

	summary := [][]any{
		{"Identity Code", display},
		{"State", s.StateCode},
		{"District", s.DistrictCode},
		{"City", s.CityName},
		{"Location", s.LocationCode},
		{"Structure Type", string(s.TypeOfStructure)},
		{"Status", string(s.Status)},
		{"Structural Avg", scoreCell(s.Rollup.StructuralAvg)},
		{"Non-Structural Avg", scoreCell(s.Rollup.NonStructuralAvg)},
		{"Combined Score", scoreCell(s.Rollup.CombinedScore)},
		{"Health Status", statusCell(s.Rollup.HealthStatus)},
		{"Priority", priorityCell(s.Rollup.Priority)},
		{"Flats Needing Attention", s.Rollup.FlatsNeedingAttention},
	}
	for i, row := range summary {
		labelCell, _ := excelize.CoordinatesToCellName(1, i+1)
		valueCell, _ := excelize.CoordinatesToCellName(2, i+1)
		if err := f.SetCellValue(summarySheet, labelCell, row[0]); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellValue(summarySheet, valueCell, row[1]); err != nil {
			f.Close()
			return nil, err
		}
		f.SetCellStyle(summarySheet, labelCell, labelCell, headerStyle)
	}
	f.SetColWidth(summarySheet, "A", "A", 24)
	f.SetColWidth(summarySheet, "B", "B", 28)

	unitsSheet := "Units"
	if _, err := f.NewSheet(unitsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create units sheet: %w", err)
	}

	for col, h := range AuditReportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(unitsSheet, cell, h); err != nil {
			f.Close()
			return nil, err
		}
		f.SetCellStyle(unitsSheet, cell, cell, headerStyle)
	}

	rowIdx := 2
	for i := range s.Floors {
		floor := &s.Floors[i]
		for j := range floor.Units {
			unit := &floor.Units[j]
			values := []any{
				floor.FloorNumber,
				unit.UnitLabel,
				unit.UnitType,
				scoreCell(unit.Rollup.StructuralAvg),
				scoreCell(unit.Rollup.NonStructuralAvg),
				scoreCell(unit.Rollup.CombinedScore),
				statusCell(unit.Rollup.HealthStatus),
				priorityCell(unit.Rollup.Priority),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, rowIdx)
				if err := f.SetCellValue(unitsSheet, cell, v); err != nil {
					f.Close()
					return nil, err
				}
			}
			rowIdx++
		}
	}
	f.SetColWidth(unitsSheet, "A", "H", 18)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func scoreCell(v *float64) any {
	if v == nil {
		return "-"
	}
	return *v
}

func statusCell(v *domain.HealthStatus) any {
	if v == nil {
		return "-"
	}
	return string(*v)
}

func priorityCell(v *domain.Priority) any {
	if v == nil {
		return "-"
	}
	return string(*v)
}
