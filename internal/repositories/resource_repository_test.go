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

var resourceRowColumns = []string{"id", "lesson", "kind", "owner_id", "title", "details", "is_public", "created_at", "updated_at"}

func TestResourceRepository_Create(t *testing.T) {
	tests := []struct {
		name           string
		resource       *models.Resource
		setupMock      func(sqlmock.Sqlmock)
		expectedAnyErr bool
		expectedID     int
	}{
		{
			name:     "success with details",
			resource: &models.Resource{Lesson: "hr", Kind: "candidates", OwnerID: 2, Title: "Ivan Petrov", Details: map[string]string{"email": "ivan@example.com"}},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO resources`).
					WithArgs("hr", "candidates", 2, "Ivan Petrov", `{"email":"ivan@example.com"}`, false).
					WillReturnResult(sqlmock.NewResult(11, 1))
			},
			expectedID: 11,
		},
		{
			name:     "success without details",
			resource: &models.Resource{Lesson: "notes", Kind: "note", OwnerID: 2, Title: "Dev Note A", IsPublic: true},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO resources`).
					WithArgs("notes", "note", 2, "Dev Note A", nil, true).
					WillReturnResult(sqlmock.NewResult(12, 1))
			},
			expectedID: 12,
		},
		{
			name:     "database error",
			resource: &models.Resource{Lesson: "notes", Kind: "note", OwnerID: 2, Title: "Dev Note A"},
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`INSERT INTO resources`).
					WillReturnError(errors.New("database error"))
			},
			expectedAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, logger, cleanup := setupTestDB(t)
			defer cleanup()
			repo := NewResourceRepository(db, logger)

			tt.setupMock(mock)

			err := repo.Create(context.Background(), tt.resource)
			if tt.expectedAnyErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expectedID, tt.resource.ID)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestResourceRepository_GetByID(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedError  error
		expectedAnyErr bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(resourceRowColumns).
					AddRow(5, "booking", "booking", 2, "Dev Booking A", `{"room":"101"}`, false, fixedTime, fixedTime)
				mock.ExpectQuery(`SELECT (.+) FROM resources WHERE id = \? AND lesson = \? AND kind = \?`).
					WithArgs(5, "booking", "booking").
					WillReturnRows(rows)
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM resources`).
					WithArgs(5, "booking", "booking").
					WillReturnRows(sqlmock.NewRows(resourceRowColumns))
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "corrupt details",
			setupMock: func(mock sqlmock.Sqlmock) {
				rows := sqlmock.NewRows(resourceRowColumns).
					AddRow(5, "booking", "booking", 2, "Dev Booking A", `{not json`, false, fixedTime, fixedTime)
				mock.ExpectQuery(`SELECT (.+) FROM resources`).
					WithArgs(5, "booking", "booking").
					WillReturnRows(rows)
			},
			expectedAnyErr: true,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT (.+) FROM resources`).
					WithArgs(5, "booking", "booking").
					WillReturnError(errors.New("database error"))
			},
			expectedAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, logger, cleanup := setupTestDB(t)
			defer cleanup()
			repo := NewResourceRepository(db, logger)

			tt.setupMock(mock)

			resource, err := repo.GetByID(context.Background(), "booking", "booking", 5)

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.expectedAnyErr:
				assert.Error(t, err)
				assert.NotErrorIs(t, err, models.ErrNotFound)
			default:
				require.NoError(t, err)
				assert.Equal(t, 5, resource.ID)
				assert.Equal(t, 2, resource.OwnerID)
				assert.Equal(t, map[string]string{"room": "101"}, resource.Details)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestResourceRepository_GetByTitle(t *testing.T) {
	db, mock, logger, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewResourceRepository(db, logger)

	rows := sqlmock.NewRows(resourceRowColumns).
		AddRow(9, "notes", "note", 3, "Mod Note X", nil, false, fixedTime, fixedTime)
	mock.ExpectQuery(`SELECT (.+) FROM resources WHERE lesson = \? AND kind = \? AND owner_id = \? AND title = \?`).
		WithArgs("notes", "note", 3, "Mod Note X").
		WillReturnRows(rows)

	resource, err := repo.GetByTitle(context.Background(), "notes", "note", 3, "Mod Note X")
	require.NoError(t, err)
	assert.Equal(t, 9, resource.ID)
	assert.Nil(t, resource.Details)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResourceRepository_List(t *testing.T) {
	db, mock, logger, cleanup := setupTestDB(t)
	defer cleanup()
	repo := NewResourceRepository(db, logger)

	mock.ExpectQuery(`SELECT (.+) FROM resources WHERE lesson = \? AND kind = \? AND owner_id = \? ORDER BY id`).
		WithArgs("tickets", "ticket", 2).
		WillReturnRows(sqlmock.NewRows(resourceRowColumns).
			AddRow(1, "tickets", "ticket", 2, "Dev Ticket A", nil, false, fixedTime, fixedTime))
	mock.ExpectQuery(`SELECT (.+) FROM resources WHERE lesson = \? AND kind = \? ORDER BY id`).
		WithArgs("tickets", "ticket").
		WillReturnRows(sqlmock.NewRows(resourceRowColumns).
			AddRow(1, "tickets", "ticket", 2, "Dev Ticket A", nil, false, fixedTime, fixedTime).
			AddRow(2, "tickets", "ticket", 3, "Mod Ticket X", nil, false, fixedTime, fixedTime))
	mock.ExpectQuery(`SELECT (.+) FROM resources`).
		WithArgs("tickets", "message").
		WillReturnError(errors.New("database error"))

	mine, err := repo.ListByOwner(context.Background(), "tickets", "ticket", 2)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := repo.ListByKind(context.Background(), "tickets", "ticket")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 3, all[1].OwnerID)

	_, err = repo.ListByKind(context.Background(), "tickets", "message")
	assert.Error(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResourceRepository_UpdateTitle(t *testing.T) {
	tests := []struct {
		name           string
		setupMock      func(sqlmock.Sqlmock)
		expectedError  error
		expectedAnyErr bool
	}{
		{
			name: "success",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE resources SET title = \? WHERE id = \?`).
					WithArgs("renamed", 4).
					WillReturnResult(sqlmock.NewResult(0, 1))
			},
		},
		{
			name: "unchanged title",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE resources SET title = \? WHERE id = \?`).
					WithArgs("renamed", 4).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM resources WHERE id = \?\)`).
					WithArgs(4).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
			},
		},
		{
			name: "not found",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE resources SET title = \? WHERE id = \?`).
					WithArgs("renamed", 4).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs(4).
					WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
			},
			expectedError: models.ErrNotFound,
		},
		{
			name: "existence check error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE resources`).
					WithArgs("renamed", 4).
					WillReturnResult(sqlmock.NewResult(0, 0))
				mock.ExpectQuery(`SELECT EXISTS`).
					WithArgs(4).
					WillReturnError(errors.New("database error"))
			},
			expectedAnyErr: true,
		},
		{
			name: "database error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectExec(`UPDATE resources`).
					WithArgs("renamed", 4).
					WillReturnError(errors.New("database error"))
			},
			expectedAnyErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, logger, cleanup := setupTestDB(t)
			defer cleanup()
			repo := NewResourceRepository(db, logger)

			tt.setupMock(mock)

			err := repo.UpdateTitle(context.Background(), 4, "renamed")

			switch {
			case tt.expectedError != nil:
				assert.ErrorIs(t, err, tt.expectedError)
			case tt.expectedAnyErr:
				assert.Error(t, err)
			default:
				assert.NoError(t, err)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
