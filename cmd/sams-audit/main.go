package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/config"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/consumer"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/logger"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/service"

	"go.uber.org/zap"
)

func main() {
	// 加载配置
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化日志
	log, err := logger.NewLogger(cfg.Log.Level, cfg.Log.Format, "sams-audit")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting sams-audit service")

	// 装配服务
	srv, err := service.NewServer(cfg, log)
	if err != nil {
		log.Fatal("Failed to create audit server", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv.StartRegistryRefresh(ctx)

	// 评分提交消费者
	submissionConsumer := consumer.NewSubmissionConsumer(
		srv.Redis(),
		srv.Audit,
		log,
		cfg.Audit.SubmissionStream,
		cfg.Audit.ConsumerGroup,
		cfg.Audit.ConsumerName,
		cfg.Audit.BatchSize,
	)

	// 监听系统信号
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := submissionConsumer.Start(ctx); err != nil {
			errChan <- err
		}
	}()

	select {
	case sig := <-sigChan:
		log.Info("Received signal, shutting down", zap.String("signal", sig.String()))
		cancel()
	case err := <-errChan:
		log.Error("Consumer error", zap.Error(err))
		cancel()
	}

	if err := srv.Stop(ctx); err != nil {
		log.Error("Error stopping server", zap.Error(err))
	}

	log.Info("Service stopped")
}
