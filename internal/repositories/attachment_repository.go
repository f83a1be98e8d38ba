package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/securitylessons/backend/internal/models"
	"go.uber.org/zap"
)

type attachmentRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAttachmentRepository creates a new attachment repository
func NewAttachmentRepository(db *sql.DB, logger *zap.Logger) *attachmentRepository {
	return &attachmentRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new attachment into the database
func (r *attachmentRepository) Create(ctx context.Context, attachment *models.Attachment) error {
	query := `
		INSERT INTO attachments (resource_id, owner_id, storage_key, filename)
		VALUES (?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query, attachment.ResourceID, attachment.OwnerID, attachment.StorageKey, attachment.Filename)
	if err != nil {
		r.logger.Error("failed to create attachment", zap.Error(err))
		return fmt.Errorf("failed to create attachment: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		r.logger.Error("failed to get last insert id", zap.Error(err))
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	attachment.ID = int(id)
	return nil
}

// GetByID retrieves an attachment by ID
func (r *attachmentRepository) GetByID(ctx context.Context, id int) (*models.Attachment, error) {
	query := `
		SELECT id, resource_id, owner_id, storage_key, filename, created_at
		FROM attachments
		WHERE id = ?
	`

	attachment := &models.Attachment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&attachment.ID,
		&attachment.ResourceID,
		&attachment.OwnerID,
		&attachment.StorageKey,
		&attachment.Filename,
		&attachment.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		r.logger.Error("failed to get attachment", zap.Error(err), zap.Int("id", id))
		return nil, fmt.Errorf("failed to get attachment: %w", err)
	}

	return attachment, nil
}

// ListByResource returns the attachments of a resource
func (r *attachmentRepository) ListByResource(ctx context.Context, resourceID int) ([]*models.Attachment, error) {
	query := `
		SELECT id, resource_id, owner_id, storage_key, filename, created_at
		FROM attachments
		WHERE resource_id = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, resourceID)
	if err != nil {
		r.logger.Error("failed to query attachments", zap.Error(err))
		return nil, fmt.Errorf("failed to query attachments: %w", err)
	}
	defer rows.Close()

	attachments := []*models.Attachment{}
	for rows.Next() {
		attachment := &models.Attachment{}
		if err := rows.Scan(
			&attachment.ID,
			&attachment.ResourceID,
			&attachment.OwnerID,
			&attachment.StorageKey,
			&attachment.Filename,
			&attachment.CreatedAt,
		); err != nil {
			r.logger.Error("failed to scan attachment", zap.Error(err))
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, attachment)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("error iterating rows", zap.Error(err))
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return attachments, nil
}
