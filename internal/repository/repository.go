package repository

import (
	"context"
	"errors"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"
)

// ErrNotFound 记录不存在
var ErrNotFound = errors.New("record not found")

// StructuresRepository 建筑聚合仓储
type StructuresRepository interface {
	// CreateStructure 持久化新建筑（含已分配的身份码）
	CreateStructure(ctx context.Context, s *domain.Structure) error

	// GetStructure 加载完整建筑聚合（楼层、单元、评分、汇总）
	GetStructure(ctx context.Context, structureID string) (*domain.Structure, error)

	// NextSequence 原子分配位置前缀下的下一个序号
	// 计数器行首次使用时从既有身份码播种，之后每次调用原子加一；
	// 并发的建筑创建对同一前缀不会拿到重复序号
	NextSequence(ctx context.Context, prefix string) (int, error)

	// AddFloor 向建筑追加楼层
	AddFloor(ctx context.Context, structureID string, f *domain.Floor) error

	// AddUnit 向楼层追加可评分单元
	AddUnit(ctx context.Context, floorID string, u *domain.RateableUnit) error

	// SaveSubmission 在一个事务内持久化一批组件评分（覆盖旧槽位）和
	// 聚合内所有层级的最新汇总；任一写入失败则整批回滚，不会留下
	// 评分与汇总不一致的中间状态
	SaveSubmission(ctx context.Context, unitID string, ratings []domain.ComponentRating, s *domain.Structure) error

	// UpdateStatus 更新建筑审计状态
	UpdateStatus(ctx context.Context, structureID string, status domain.StructureStatus) error
}
