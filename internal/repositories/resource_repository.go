package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/securitylessons/backend/internal/models"
	"go.uber.org/zap"
)

const resourceColumns = `id, lesson, kind, owner_id, title, details, is_public, created_at, updated_at`

type resourceRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(db *sql.DB, logger *zap.Logger) *resourceRepository {
	return &resourceRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new resource into the database
func (r *resourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	details, err := encodeDetails(resource.Details)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO resources (lesson, kind, owner_id, title, details, is_public)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, resource.Lesson, resource.Kind, resource.OwnerID, resource.Title, details, resource.IsPublic)
	if err != nil {
		r.logger.Error("failed to create resource", zap.Error(err))
		return fmt.Errorf("failed to create resource: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	resource.ID = int(id)
	return nil
}

// GetByID retrieves a resource of a lesson kind by ID
func (r *resourceRepository) GetByID(ctx context.Context, lesson, kind string, id int) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + `
		FROM resources
		WHERE id = ? AND lesson = ? AND kind = ?
	`

	return r.getOne(ctx, query, id, lesson, kind)
}

// GetByTitle retrieves a resource of a lesson kind by its owner and title
func (r *resourceRepository) GetByTitle(ctx context.Context, lesson, kind string, ownerID int, title string) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + `
		FROM resources
		WHERE lesson = ? AND kind = ? AND owner_id = ? AND title = ?
		LIMIT 1
	`

	return r.getOne(ctx, query, lesson, kind, ownerID, title)
}

// ListByOwner returns the resources of a lesson kind owned by a user
func (r *resourceRepository) ListByOwner(ctx context.Context, lesson, kind string, ownerID int) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + `
		FROM resources
		WHERE lesson = ? AND kind = ? AND owner_id = ?
		ORDER BY id
	`

	return r.list(ctx, query, lesson, kind, ownerID)
}

// ListByKind returns every resource of a lesson kind
func (r *resourceRepository) ListByKind(ctx context.Context, lesson, kind string) ([]*models.Resource, error) {
	query := `SELECT ` + resourceColumns + `
		FROM resources
		WHERE lesson = ? AND kind = ?
		ORDER BY id
	`

	return r.list(ctx, query, lesson, kind)
}

// UpdateTitle changes the title of a resource. Ownership is never changed.
func (r *resourceRepository) UpdateTitle(ctx context.Context, id int, title string) error {
	query := `UPDATE resources SET title = ? WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query, title, id)
	if err != nil {
		r.logger.Error("failed to update resource", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to update resource: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		// MySQL reports changed rows, so an unchanged title also lands here
		return r.ensureExists(ctx, id)
	}

	return nil
}

func (r *resourceRepository) ensureExists(ctx context.Context, id int) error {
	query := `SELECT EXISTS(SELECT 1 FROM resources WHERE id = ?)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		r.logger.Error("failed to check resource", zap.Error(err), zap.Int("id", id))
		return fmt.Errorf("failed to check resource: %w", err)
	}
	if !exists {
		return models.ErrNotFound
	}
	return nil
}

func (r *resourceRepository) getOne(ctx context.Context, query string, args ...any) (*models.Resource, error) {
	resource, err := scanResource(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get resource", zap.Error(err))
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return resource, nil
}

func (r *resourceRepository) list(ctx context.Context, query string, args ...any) ([]*models.Resource, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query resources", zap.Error(err))
		return nil, fmt.Errorf("failed to query resources: %w", err)
	}
	defer rows.Close()

	resources := []*models.Resource{}
	for rows.Next() {
		resource, err := scanResource(rows)
		if err != nil {
			r.logger.Error("failed to scan resource", zap.Error(err))
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, resource)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return resources, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResource(row rowScanner) (*models.Resource, error) {
	resource := &models.Resource{}
	var details sql.NullString
	err := row.Scan(
		&resource.ID,
		&resource.Lesson,
		&resource.Kind,
		&resource.OwnerID,
		&resource.Title,
		&details,
		&resource.IsPublic,
		&resource.CreatedAt,
		&resource.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if details.Valid && details.String != "" {
		if err := json.Unmarshal([]byte(details.String), &resource.Details); err != nil {
			return nil, fmt.Errorf("failed to decode resource details: %w", err)
		}
	}

	return resource, nil
}

func encodeDetails(details map[string]string) (sql.NullString, error) {
	if len(details) == 0 {
		return sql.NullString{}, nil
	}
	encoded, err := json.Marshal(details)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode resource details: %w", err)
	}
	return sql.NullString{String: string(encoded), Valid: true}, nil
}
