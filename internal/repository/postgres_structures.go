package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/Chaitanya2872/acs-sams-sub000/internal/domain"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// PostgresStructuresRepository 建筑聚合的 PostgreSQL 仓储实现
// 表：structures / floors / rateable_units / component_ratings / identity_sequences
type PostgresStructuresRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewPostgresStructuresRepository(db *sql.DB, logger *zap.Logger) *PostgresStructuresRepository {
	return &PostgresStructuresRepository{db: db, logger: logger}
}

func (r *PostgresStructuresRepository) CreateStructure(ctx context.Context, s *domain.Structure) error {
	rollup, err := json.Marshal(s.Rollup)
	if err != nil {
		return fmt.Errorf("failed to marshal rollup: %w", err)
	}

	q := `
		INSERT INTO structures (
			structure_id, identity_code, state_code, district_code,
			city_name, location_code, type_of_structure, status, rollup,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.ExecContext(ctx, q,
		s.StructureID, s.IdentityCode, s.StateCode, s.DistrictCode,
		s.CityName, s.LocationCode, string(s.TypeOfStructure), string(s.Status), rollup,
		s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert structure: %w", err)
	}
	return nil
}

func (r *PostgresStructuresRepository) GetStructure(ctx context.Context, structureID string) (*domain.Structure, error) {
	q := `
		SELECT
			structure_id::text, identity_code, state_code, district_code,
			city_name, location_code, type_of_structure, status, rollup,
			created_at, updated_at
		FROM structures
		WHERE structure_id = $1
	`
	var s domain.Structure
	var typeName, status string
	var rollup []byte
	err := r.db.QueryRowContext(ctx, q, structureID).Scan(
		&s.StructureID, &s.IdentityCode, &s.StateCode, &s.DistrictCode,
		&s.CityName, &s.LocationCode, &typeName, &status, &rollup,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query structure: %w", err)
	}
	s.TypeOfStructure = domain.StructureType(typeName)
	s.Status = domain.StructureStatus(status)
	if len(rollup) > 0 {
		if err := json.Unmarshal(rollup, &s.Rollup); err != nil {
			return nil, fmt.Errorf("failed to unmarshal structure rollup: %w", err)
		}
	}

	if err := r.loadFloors(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *PostgresStructuresRepository) loadFloors(ctx context.Context, s *domain.Structure) error {
	q := `
		SELECT floor_id::text, floor_number, rollup
		FROM floors
		WHERE structure_id = $1
		ORDER BY floor_number
	`
	rows, err := r.db.QueryContext(ctx, q, s.StructureID)
	if err != nil {
		return fmt.Errorf("failed to query floors: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f domain.Floor
		var rollup []byte
		if err := rows.Scan(&f.FloorID, &f.FloorNumber, &rollup); err != nil {
			return fmt.Errorf("failed to scan floor: %w", err)
		}
		if len(rollup) > 0 {
			if err := json.Unmarshal(rollup, &f.Rollup); err != nil {
				return fmt.Errorf("failed to unmarshal floor rollup: %w", err)
			}
		}
		s.Floors = append(s.Floors, f)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range s.Floors {
		if err := r.loadUnits(ctx, &s.Floors[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresStructuresRepository) loadUnits(ctx context.Context, f *domain.Floor) error {
	q := `
		SELECT unit_id::text, unit_label, unit_type, rollup
		FROM rateable_units
		WHERE floor_id = $1
		ORDER BY unit_label
	`
	rows, err := r.db.QueryContext(ctx, q, f.FloorID)
	if err != nil {
		return fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var u domain.RateableUnit
		var rollup []byte
		if err := rows.Scan(&u.UnitID, &u.UnitLabel, &u.UnitType, &rollup); err != nil {
			return fmt.Errorf("failed to scan unit: %w", err)
		}
		if len(rollup) > 0 {
			if err := json.Unmarshal(rollup, &u.Rollup); err != nil {
				return fmt.Errorf("failed to unmarshal unit rollup: %w", err)
			}
		}
		u.Ratings = map[string]domain.ComponentRating{}
		f.Units = append(f.Units, u)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range f.Units {
		if err := r.loadRatings(ctx, &f.Units[i]); err != nil {
			return err
		}
	}
	return nil
}

func (r *PostgresStructuresRepository) loadRatings(ctx context.Context, u *domain.RateableUnit) error {
	q := `
		SELECT
			component_type, rating, condition_comment, photos,
			inspector_notes, distress_length, distress_breadth,
			distress_height, distress_unit, distress_types,
			repair_methodology, rated_at
		FROM component_ratings
		WHERE unit_id = $1
	`
	rows, err := r.db.QueryContext(ctx, q, u.UnitID)
	if err != nil {
		return fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cr domain.ComponentRating
		var comment, notes, methodology sql.NullString
		var length, breadth, height sql.NullFloat64
		var unit sql.NullString
		var photos, distressTypes []string
		if err := rows.Scan(
			&cr.ComponentType, &cr.Rating, &comment, pq.Array(&photos),
			&notes, &length, &breadth,
			&height, &unit, pq.Array(&distressTypes),
			&methodology, &cr.RatedAt,
		); err != nil {
			return fmt.Errorf("failed to scan rating: %w", err)
		}
		cr.ConditionComment = comment.String
		cr.InspectorNotes = notes.String
		cr.RepairMethodology = methodology.String
		cr.Photos = photos
		if length.Valid || breadth.Valid || height.Valid {
			cr.Distress = &domain.DistressDimensions{
				Length:  length.Float64,
				Breadth: breadth.Float64,
				Height:  height.Float64,
				Unit:    unit.String,
			}
		}
		for _, dt := range distressTypes {
			cr.DistressTypes = append(cr.DistressTypes, domain.DistressType(dt))
		}
		u.Ratings[cr.ComponentType] = cr
	}
	return rows.Err()
}

func (r *PostgresStructuresRepository) AddFloor(ctx context.Context, structureID string, f *domain.Floor) error {
	rollup, err := json.Marshal(f.Rollup)
	if err != nil {
		return fmt.Errorf("failed to marshal floor rollup: %w", err)
	}
	q := `INSERT INTO floors (floor_id, structure_id, floor_number, rollup) VALUES ($1, $2, $3, $4)`
	if _, err := r.db.ExecContext(ctx, q, f.FloorID, structureID, f.FloorNumber, rollup); err != nil {
		return fmt.Errorf("failed to insert floor: %w", err)
	}
	return nil
}

func (r *PostgresStructuresRepository) AddUnit(ctx context.Context, floorID string, u *domain.RateableUnit) error {
	rollup, err := json.Marshal(u.Rollup)
	if err != nil {
		return fmt.Errorf("failed to marshal unit rollup: %w", err)
	}
	q := `INSERT INTO rateable_units (unit_id, floor_id, unit_label, unit_type, rollup) VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.db.ExecContext(ctx, q, u.UnitID, floorID, u.UnitLabel, u.UnitType, rollup); err != nil {
		return fmt.Errorf("failed to insert unit: %w", err)
	}
	return nil
}

// SaveSubmission 一个事务内持久化整批评分与建筑/楼层/单元三级汇总
// 同一单元同一组件槽位的重复提交覆盖旧值；任一写入失败整批回滚
func (r *PostgresStructuresRepository) SaveSubmission(ctx context.Context, unitID string, ratings []domain.ComponentRating, s *domain.Structure) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, cr := range ratings {
		if err := upsertRating(ctx, tx, unitID, cr); err != nil {
			return err
		}
	}
	if err := saveRollups(ctx, tx, s); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertRating(ctx context.Context, tx *sql.Tx, unitID string, cr domain.ComponentRating) error {
	var length, breadth, height sql.NullFloat64
	var distressUnit sql.NullString
	if cr.Distress != nil {
		length = sql.NullFloat64{Float64: cr.Distress.Length, Valid: true}
		breadth = sql.NullFloat64{Float64: cr.Distress.Breadth, Valid: true}
		height = sql.NullFloat64{Float64: cr.Distress.Height, Valid: true}
		distressUnit = sql.NullString{String: cr.Distress.Unit, Valid: cr.Distress.Unit != ""}
	}
	distressTypes := make([]string, 0, len(cr.DistressTypes))
	for _, dt := range cr.DistressTypes {
		distressTypes = append(distressTypes, string(dt))
	}

	q := `
		INSERT INTO component_ratings (
			unit_id, component_type, rating, condition_comment, photos,
			inspector_notes, distress_length, distress_breadth,
			distress_height, distress_unit, distress_types,
			repair_methodology, rated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (unit_id, component_type) DO UPDATE SET
			rating = EXCLUDED.rating,
			condition_comment = EXCLUDED.condition_comment,
			photos = EXCLUDED.photos,
			inspector_notes = EXCLUDED.inspector_notes,
			distress_length = EXCLUDED.distress_length,
			distress_breadth = EXCLUDED.distress_breadth,
			distress_height = EXCLUDED.distress_height,
			distress_unit = EXCLUDED.distress_unit,
			distress_types = EXCLUDED.distress_types,
			repair_methodology = EXCLUDED.repair_methodology,
			rated_at = EXCLUDED.rated_at
	`
	_, err := tx.ExecContext(ctx, q,
		unitID, cr.ComponentType, cr.Rating, cr.ConditionComment, pq.Array(cr.Photos),
		cr.InspectorNotes, length, breadth,
		height, distressUnit, pq.Array(distressTypes),
		cr.RepairMethodology, cr.RatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save rating: %w", err)
	}
	return nil
}

// saveRollups 在调用方事务内更新三级汇总
func saveRollups(ctx context.Context, tx *sql.Tx, s *domain.Structure) error {
	structRollup, err := json.Marshal(s.Rollup)
	if err != nil {
		return fmt.Errorf("failed to marshal structure rollup: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE structures SET rollup = $2, updated_at = NOW() WHERE structure_id = $1`,
		s.StructureID, structRollup,
	); err != nil {
		return fmt.Errorf("failed to update structure rollup: %w", err)
	}

	for i := range s.Floors {
		f := &s.Floors[i]
		floorRollup, err := json.Marshal(f.Rollup)
		if err != nil {
			return fmt.Errorf("failed to marshal floor rollup: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE floors SET rollup = $2 WHERE floor_id = $1`,
			f.FloorID, floorRollup,
		); err != nil {
			return fmt.Errorf("failed to update floor rollup: %w", err)
		}

		for j := range f.Units {
			u := &f.Units[j]
			unitRollup, err := json.Marshal(u.Rollup)
			if err != nil {
				return fmt.Errorf("failed to marshal unit rollup: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`UPDATE rateable_units SET rollup = $2 WHERE unit_id = $1`,
				u.UnitID, unitRollup,
			); err != nil {
				return fmt.Errorf("failed to update unit rollup: %w", err)
			}
		}
	}

	return nil
}

func (r *PostgresStructuresRepository) UpdateStatus(ctx context.Context, structureID string, status domain.StructureStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE structures SET status = $2, updated_at = NOW() WHERE structure_id = $1`,
		structureID, string(status),
	)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
