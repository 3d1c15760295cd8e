package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/config"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/database"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/registry"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/repository"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/store"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Server 审计服务宿主：负责连接、装配与生命周期
type Server struct {
	config      *config.Config
	logger      *zap.Logger
	db          *sql.DB
	redisClient *redis.Client
	registry    *registry.Registry
	Audit       AuditService
}

// NewServer 装配审计服务
func NewServer(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	redisClient := store.NewRedisClient(&cfg.Redis)
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	var registryClient *registry.Client
	if cfg.Registry.Enabled && cfg.Registry.BaseURL != "" {
		registryClient = registry.NewClient(cfg.Registry.BaseURL, logger)
	}
	reg := registry.New(registryClient, logger)

	repo := repository.NewPostgresStructuresRepository(db, logger)
	cache := NewRollupCache(
		store.NewRedisKV(redisClient),
		time.Duration(cfg.Audit.RollupCacheTTL)*time.Second,
		logger,
	)
	audit := NewAuditService(repo, reg, cache, logger)

	return &Server{
		config:      cfg,
		logger:      logger,
		db:          db,
		redisClient: redisClient,
		registry:    reg,
		Audit:       audit,
	}, nil
}

// Redis 暴露客户端给消费者装配
func (s *Server) Redis() *redis.Client { return s.redisClient }

// StartRegistryRefresh 启动主数据定时刷新（未启用时立即返回）
func (s *Server) StartRegistryRefresh(ctx context.Context) {
	if !s.config.Registry.Enabled {
		return
	}
	interval := time.Duration(s.config.Registry.RefreshInterval) * time.Second
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := s.registry.Refresh(ctx); err != nil {
					s.logger.Warn("State registry refresh failed", zap.Error(err))
				}
			}
		}
	}()
}

// Stop 释放连接
func (s *Server) Stop(ctx context.Context) error {
	if err := s.redisClient.Close(); err != nil {
		s.logger.Error("Error closing redis client", zap.Error(err))
	}
	return database.Close(s.db)
}
