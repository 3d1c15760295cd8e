package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/evidence"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/identity"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/models"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/rating"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/registry"
	"github.com/Chaitanya2872/acs-sams-sub000/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateStructureRequest 建筑创建请求
type CreateStructureRequest struct {
	StateCode       string               `json:"state_code"`
	DistrictCode    string               `json:"district_code"`
	CityName        string               `json:"city_name"`
	LocationCode    string               `json:"location_code"`
	TypeOfStructure domain.StructureType `json:"type_of_structure"`
}

// AddUnitRequest 单元创建请求
type AddUnitRequest struct {
	UnitLabel string `json:"unit_label"`
	UnitType  string `json:"unit_type"` // "flat" 或 "block"
}

// AuditService 结构审计服务接口
type AuditService interface {
	// CreateStructure 创建建筑并分配身份码（一次分配，之后不可变）
	CreateStructure(ctx context.Context, req CreateStructureRequest) (*domain.Structure, error)

	// AddFloor 添加楼层
	AddFloor(ctx context.Context, structureID string, floorNumber int) (*domain.Floor, error)

	// AddUnit 添加可评分单元
	AddUnit(ctx context.Context, structureID, floorID string, req AddUnitRequest) (*domain.RateableUnit, error)

	// SubmitRatings 提交一批组件评分
	// 证据校验不通过时返回全部违规且整批拒绝（不部分持久化）；
	// 通过后覆盖写入评分并沿 单元→楼层→建筑 重算汇总
	SubmitRatings(ctx context.Context, structureID, floorID, unitID string, subs []models.RatingSubmission) (*domain.UnitRollup, []evidence.Violation, error)

	// GetStructure 加载完整建筑聚合
	GetStructure(ctx context.Context, structureID string) (*domain.Structure, error)

	// GetFinalAssessment 获取建筑级最终健康评估（优先走缓存）
	GetFinalAssessment(ctx context.Context, structureID string) (*domain.StructureRollup, error)

	// SubmitStructure 将建筑置为终态（要求每个单元的全部组件槽位都已评分）
	SubmitStructure(ctx context.Context, structureID string) error
}

// auditService 结构审计服务实现
type auditService struct {
	repo     repository.StructuresRepository
	registry *registry.Registry
	cache    *RollupCache
	logger   *zap.Logger

	// 每建筑一把锁：读-改-写必须按建筑串行，否则并发提交会丢失
	// 先读后写的汇总效果
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewAuditService 创建审计服务
func NewAuditService(
	repo repository.StructuresRepository,
	reg *registry.Registry,
	cache *RollupCache,
	logger *zap.Logger,
) AuditService {
	return &auditService{
		repo:     repo,
		registry: reg,
		cache:    cache,
		logger:   logger,
		locks:    map[string]*sync.Mutex{},
	}
}

func (s *auditService) structureLock(structureID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[structureID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[structureID] = l
	}
	return l
}

func (s *auditService) CreateStructure(ctx context.Context, req CreateStructureRequest) (*domain.Structure, error) {
	state := strings.ToUpper(strings.TrimSpace(req.StateCode))
	if !s.registry.IsStateCode(state) {
		return nil, &identity.InvalidFieldError{Field: "stateCode", Message: fmt.Sprintf("%q is not a recognized state code", req.StateCode)}
	}

	prefix, err := identity.LocationPrefix(state, req.DistrictCode, req.CityName, req.LocationCode)
	if err != nil {
		return nil, err
	}

	sequence, err := s.repo.NextSequence(ctx, prefix)
	if err != nil {
		// 主分配路径不可用：降级为时间派生序号（并发下不保证无碰撞）
		fallback := identity.FallbackSequence(time.Now())
		sequence, _ = strconv.Atoi(fallback)
		s.logger.Warn("Sequence allocator unavailable, using time-derived fallback",
			zap.String("location_prefix", prefix),
			zap.String("fallback_sequence", fallback),
			zap.Error(err),
		)
	}

	code, err := identity.Encode(identity.Fields{
		StateCode:       state,
		DistrictCode:    req.DistrictCode,
		CityName:        req.CityName,
		LocationCode:    req.LocationCode,
		TypeOfStructure: req.TypeOfStructure,
	}, sequence)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	structure := &domain.Structure{
		StructureID:     uuid.NewString(),
		IdentityCode:    code,
		StateCode:       state,
		DistrictCode:    req.DistrictCode,
		CityName:        req.CityName,
		LocationCode:    req.LocationCode,
		TypeOfStructure: req.TypeOfStructure,
		Status:          domain.StructureStatusDraft,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.CreateStructure(ctx, structure); err != nil {
		return nil, fmt.Errorf("failed to create structure: %w", err)
	}

	s.logger.Info("Structure created",
		zap.String("structure_id", structure.StructureID),
		zap.String("identity_code", code),
		zap.String("location_prefix", prefix),
	)
	return structure, nil
}

func (s *auditService) AddFloor(ctx context.Context, structureID string, floorNumber int) (*domain.Floor, error) {
	lock := s.structureLock(structureID)
	lock.Lock()
	defer lock.Unlock()

	structure, err := s.repo.GetStructure(ctx, structureID)
	if err != nil {
		return nil, err
	}
	if structure.Status == domain.StructureStatusSubmitted {
		return nil, fmt.Errorf("structure %s is already submitted", structureID)
	}
	for i := range structure.Floors {
		if structure.Floors[i].FloorNumber == floorNumber {
			return nil, fmt.Errorf("floor %d already exists", floorNumber)
		}
	}

	floor := &domain.Floor{
		FloorID:     uuid.NewString(),
		FloorNumber: floorNumber,
	}
	if err := s.repo.AddFloor(ctx, structureID, floor); err != nil {
		return nil, fmt.Errorf("failed to add floor: %w", err)
	}
	return floor, nil
}

func (s *auditService) AddUnit(ctx context.Context, structureID, floorID string, req AddUnitRequest) (*domain.RateableUnit, error) {
	lock := s.structureLock(structureID)
	lock.Lock()
	defer lock.Unlock()

	structure, err := s.repo.GetStructure(ctx, structureID)
	if err != nil {
		return nil, err
	}
	floor := structure.FindFloor(floorID)
	if floor == nil {
		return nil, fmt.Errorf("floor %s not found in structure %s: %w", floorID, structureID, repository.ErrNotFound)
	}

	unitType := req.UnitType
	if unitType == "" {
		unitType = "flat"
	}

	unit := &domain.RateableUnit{
		UnitID:    uuid.NewString(),
		UnitLabel: req.UnitLabel,
		UnitType:  unitType,
		Ratings:   map[string]domain.ComponentRating{},
	}
	if err := s.repo.AddUnit(ctx, floorID, unit); err != nil {
		return nil, fmt.Errorf("failed to add unit: %w", err)
	}
	return unit, nil
}

func (s *auditService) SubmitRatings(ctx context.Context, structureID, floorID, unitID string, subs []models.RatingSubmission) (*domain.UnitRollup, []evidence.Violation, error) {
	lock := s.structureLock(structureID)
	lock.Lock()
	defer lock.Unlock()

	structure, err := s.repo.GetStructure(ctx, structureID)
	if err != nil {
		return nil, nil, err
	}
	floor := structure.FindFloor(floorID)
	if floor == nil {
		return nil, nil, fmt.Errorf("floor %s not found: %w", floorID, repository.ErrNotFound)
	}
	unit := floor.FindUnit(unitID)
	if unit == nil {
		return nil, nil, fmt.Errorf("unit %s not found: %w", unitID, repository.ErrNotFound)
	}

	// 证据门禁：任一违规则整批拒绝，违规全量返回
	violations := evidence.CheckAll(subs, unit.UnitLabel)
	if len(violations) > 0 {
		s.logger.Info("Rating submission rejected",
			zap.String("structure_id", structureID),
			zap.String("unit_id", unitID),
			zap.Int("violations", len(violations)),
		)
		return nil, violations, nil
	}

	now := time.Now().UTC()
	ratings := make([]domain.ComponentRating, 0, len(subs))
	for _, sub := range subs {
		cr := toComponentRating(sub, now)
		unit.Ratings[cr.ComponentType] = cr
		ratings = append(ratings, cr)
	}

	// 沿所有权链重算：单元 → 楼层 → 建筑
	if !rating.RecomputeChain(structure, floorID, unitID) {
		return nil, nil, fmt.Errorf("recompute chain failed for unit %s", unitID)
	}
	// 评分与三级汇总一个事务落库：失败时不会留下半批评分配旧汇总
	if err := s.repo.SaveSubmission(ctx, unitID, ratings, structure); err != nil {
		return nil, nil, fmt.Errorf("failed to persist submission: %w", err)
	}

	// 缓存最新建筑汇总（尽力而为，失败只记日志）
	if s.cache != nil {
		if err := s.cache.PutStructureRollup(ctx, structureID, structure.Rollup); err != nil {
			s.logger.Warn("Failed to cache structure rollup",
				zap.String("structure_id", structureID),
				zap.Error(err),
			)
		}
	}

	rollup := unit.Rollup
	return &rollup, nil, nil
}

func (s *auditService) GetStructure(ctx context.Context, structureID string) (*domain.Structure, error) {
	return s.repo.GetStructure(ctx, structureID)
}

func (s *auditService) GetFinalAssessment(ctx context.Context, structureID string) (*domain.StructureRollup, error) {
	if s.cache != nil {
		if rollup, err := s.cache.GetStructureRollup(ctx, structureID); err == nil {
			return rollup, nil
		}
	}

	structure, err := s.repo.GetStructure(ctx, structureID)
	if err != nil {
		return nil, err
	}
	rollup := structure.Rollup
	if s.cache != nil {
		if err := s.cache.PutStructureRollup(ctx, structureID, rollup); err != nil {
			s.logger.Warn("Failed to cache structure rollup", zap.Error(err))
		}
	}
	return &rollup, nil
}

func (s *auditService) SubmitStructure(ctx context.Context, structureID string) error {
	lock := s.structureLock(structureID)
	lock.Lock()
	defer lock.Unlock()

	structure, err := s.repo.GetStructure(ctx, structureID)
	if err != nil {
		return err
	}
	if structure.Status == domain.StructureStatusSubmitted {
		return nil
	}
	if len(structure.Floors) == 0 {
		return fmt.Errorf("structure %s has no floors", structureID)
	}

	required := len(domain.StructuralComponents) + len(domain.NonStructuralComponents)
	for i := range structure.Floors {
		floor := &structure.Floors[i]
		if len(floor.Units) == 0 {
			return fmt.Errorf("floor %d has no rateable units", floor.FloorNumber)
		}
		for j := range floor.Units {
			unit := &floor.Units[j]
			if len(unit.Ratings) < required {
				return fmt.Errorf("unit %s has %d of %d component ratings", unit.UnitLabel, len(unit.Ratings), required)
			}
		}
	}

	if err := s.repo.UpdateStatus(ctx, structureID, domain.StructureStatusSubmitted); err != nil {
		return fmt.Errorf("failed to submit structure: %w", err)
	}
	s.logger.Info("Structure submitted", zap.String("structure_id", structureID))
	return nil
}

// toComponentRating 把通过证据校验的提交载荷转换为领域评分
func toComponentRating(sub models.RatingSubmission, ratedAt time.Time) domain.ComponentRating {
	photos, _ := evidence.NormalizePhotos(sub.Photos)
	methodology, _ := evidence.NormalizeRepairMethodology(sub.RepairMethodology)

	cr := domain.ComponentRating{
		ComponentType:     sub.ComponentType,
		Rating:            sub.Rating,
		ConditionComment:  sub.ConditionComment,
		Photos:            photos,
		InspectorNotes:    sub.InspectorNotes,
		RepairMethodology: methodology,
		RatedAt:           ratedAt,
	}
	if sub.Distress != nil {
		cr.Distress = &domain.DistressDimensions{
			Length:  sub.Distress.Length,
			Breadth: sub.Distress.Breadth,
			Height:  sub.Distress.Height,
			Unit:    sub.Distress.Unit,
		}
	}
	for _, dt := range sub.DistressTypes {
		cr.DistressTypes = append(cr.DistressTypes, domain.DistressType(dt))
	}
	return cr
}
