package repositories

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/securitylessons/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var attachmentColumns = []string{"id", "resource_id", "owner_id", "storage_key", "filename", "created_at"}

func TestAttachmentRepository_Create(t *testing.T) {
	db, mock, logger, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewAttachmentRepository(db, logger)

	mock.ExpectExec(`INSERT INTO attachments`).
		WithArgs(11, 2, "resumes/11/cv.txt", "cv.txt").
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectExec(`INSERT INTO attachments`).
		WillReturnError(errors.New("database error"))

	attachment := &models.Attachment{ResourceID: 11, OwnerID: 2, StorageKey: "resumes/11/cv.txt", Filename: "cv.txt"}
	require.NoError(t, repo.Create(context.Background(), attachment))
	assert.Equal(t, 21, attachment.ID)

	assert.Error(t, repo.Create(context.Background(), &models.Attachment{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttachmentRepository_GetByID(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedError  error
		expectedAnyErr bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM attachments WHERE id = \?`).
					WithArgs(21).
					WillReturnRows(sqlmock.NewRows(attachmentColumns).
						AddRow(21, 11, 2, "resumes/11/cv.txt", "cv.txt", fixedTime))
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM attachments WHERE id = \?`).
					WithArgs(21).
					WillReturnRows(sqlmock.NewRows(attachmentColumns))
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM attachments WHERE id = \?`).
					WithArgs(21).
					WillReturnError(errors.New("database error"))
			},
			expectedAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, logger, cleanup := setupTestDB(t)
			defer cleanup()
			repo := NewAttachmentRepository(db, logger)

			tt.setupMock(mock)

			attachment, err := repo.GetByID(context.Background(), 21)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.expectedAnyErr:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, 11, attachment.ResourceID)
				assert.Equal(t, "resumes/11/cv.txt", attachment.StorageKey)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestAttachmentRepository_ListByResource(t *testing.T) {
	db, mock, logger, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewAttachmentRepository(db, logger)

	mock.ExpectQuery(`SELECT (.+) FROM attachments WHERE resource_id = \? ORDER BY id`).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows(attachmentColumns).
			AddRow(21, 11, 2, "resumes/11/a.txt", "a.txt", fixedTime).
			AddRow(22, 11, 2, "resumes/11/b.txt", "b.txt", fixedTime))
	mock.ExpectQuery(`SELECT (.+) FROM attachments WHERE resource_id = \?`).
		WithArgs(12).
		WillReturnRows(sqlmock.NewRows(attachmentColumns))

	attachments, err := repo.ListByResource(context.Background(), 11)
	require.NoError(t, err)
	require.Len(t, attachments, 2)
	assert.Equal(t, "b.txt", attachments[1].Filename)

	empty, err := repo.ListByResource(context.Background(), 12)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	assert.NoError(t, mock.ExpectationsWereMet())
}
