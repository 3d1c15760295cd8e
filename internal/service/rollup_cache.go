package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/store"

	"go.uber.org/zap"
)

// rollupKeyPrefix 建筑汇总缓存 key：sams:structure:{structure_id}:rollup
const (
	rollupKeyPrefix = "sams:structure:"
	rollupKeySuffix = ":rollup"
)

// RollupCache 建筑级最终健康评估的 Redis 缓存
type RollupCache struct {
	kv     store.KV
	ttl    time.Duration
	logger *zap.Logger
}

// NewRollupCache 创建汇总缓存
func NewRollupCache(kv store.KV, ttl time.Duration, logger *zap.Logger) *RollupCache {
	return &RollupCache{kv: kv, ttl: ttl, logger: logger}
}

func rollupKey(structureID string) string {
	return rollupKeyPrefix + structureID + rollupKeySuffix
}

// PutStructureRollup 写入最新汇总 JSON
func (c *RollupCache) PutStructureRollup(ctx context.Context, structureID string, rollup domain.StructureRollup) error {
	data, err := json.Marshal(rollup)
	if err != nil {
		return fmt.Errorf("failed to marshal rollup: %w", err)
	}
	return c.kv.Set(ctx, rollupKey(structureID), string(data), c.ttl)
}

// GetStructureRollup 读取缓存的汇总，miss 时返回 store.ErrMiss
func (c *RollupCache) GetStructureRollup(ctx context.Context, structureID string) (*domain.StructureRollup, error) {
	raw, err := c.kv.Get(ctx, rollupKey(structureID))
	if err != nil {
		return nil, err
	}
	var rollup domain.StructureRollup
	if err := json.Unmarshal([]byte(raw), &rollup); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached rollup: %w", err)
	}
	return &rollup, nil
}

// Invalidate 删除缓存条目
func (c *RollupCache) Invalidate(ctx context.Context, structureID string) error {
	return c.kv.Delete(ctx, rollupKey(structureID))
}
