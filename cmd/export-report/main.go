package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/config"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/database"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/logger"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/report"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/repository"
)

// 审计报告导出工具：按建筑 ID 加载完整聚合并写出 Excel 工作簿
func main() {
	if len(os.Args) < 3 {
		log.Fatalf("Usage: %s <structure_id> <output.xlsx>", os.Args[0])
	}
	structureID, outputFile := os.Args[1], os.Args[2]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "export-report")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	repo := repository.NewPostgresStructuresRepository(db, zlog)
	s, err := repo.GetStructure(context.Background(), structureID)
	if err != nil {
		log.Fatalf("Failed to load structure %s: %v", structureID, err)
	}

	data, err := report.GenerateStructureReport(s)
	if err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	if err := os.WriteFile(outputFile, data, 0o644); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}

	fmt.Printf("Exported audit report for %s to %s\n", s.IdentityCode, outputFile)
}
