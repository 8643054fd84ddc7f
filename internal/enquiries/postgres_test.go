package enquiries

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"
)

func TestPostgresCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO enquiries`).
		WithArgs(pgxmock.AnyArg(), "Jane Doe", "jane@example.com", "", "Need a site", pgxmock.AnyArg(), StatusNew).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := NewPostgresRepositoryWithDB(mock)
	e, err := repo.Create(context.Background(), &SubmitEnquiryRequest{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		Requirement: "Need a site",
	})
	require.NoError(t, err)
	require.NotEmpty(t, e.ID)
	require.Equal(t, StatusNew, e.Status)
	require.Equal(t, now, e.CreatedAt)
	require.WithinDuration(t, time.Now(), e.SubmittedAt, time.Minute)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateClientTimestamp(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	submitted := time.Date(2026, 8, 1, 10, 30, 0, 0, time.UTC)
	now := time.Now().UTC()
	mock.ExpectQuery(`INSERT INTO enquiries`).
		WithArgs(pgxmock.AnyArg(), "Jane Doe", "jane@example.com", "", "", submitted, StatusNew).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	repo := NewPostgresRepositoryWithDB(mock)
	e, err := repo.Create(context.Background(), &SubmitEnquiryRequest{
		Name:        "Jane Doe",
		Email:       "jane@example.com",
		SubmittedAt: "2026-08-01T10:30:00Z",
	})
	require.NoError(t, err)
	require.True(t, e.SubmittedAt.Equal(submitted))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCreateRejectsInvalidWithoutQuery(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.Create(context.Background(), &SubmitEnquiryRequest{Name: ""})

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.NoError(t, mock.ExpectationsWereMet(), "invalid request must not touch the database")
}

func TestPostgresGetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	id := "7b8a4b7e-0000-4000-8000-1234567890ab"
	mock.ExpectQuery(`SELECT id, name, email, phone, requirement, submitted_at, status`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "email", "phone", "requirement", "submitted_at",
			"status", "notes", "follow_up_at", "created_at", "updated_at",
		}).AddRow(id, "Jane Doe", "jane@example.com", "", "Need a site", now,
			StatusNew, "", nil, now, now))

	repo := NewPostgresRepositoryWithDB(mock)
	e, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", e.Name)
	require.Nil(t, e.FollowUpAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetByIDNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT id, name, email, phone, requirement, submitted_at, status`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "email", "phone", "requirement", "submitted_at",
			"status", "notes", "follow_up_at", "created_at", "updated_at",
		}))

	repo := NewPostgresRepositoryWithDB(mock)
	_, err = repo.GetByID(context.Background(), "missing")
	require.ErrorIs(t, err, ErrEnquiryNotFound)
}

func TestPostgresStats(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now().UTC()
	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(pgxmock.NewRows([]string{"count", "new", "contacted"}).
			AddRow(int64(42), int64(7), int64(3)))
	mock.ExpectQuery(`SELECT id, name, status, submitted_at`).
		WithArgs(recentLimit).
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "status", "submitted_at"}).
			AddRow("id-1", "Jane", StatusNew, now).
			AddRow("id-2", "Bob", StatusContacted, now.Add(-time.Hour)))

	repo := NewPostgresRepositoryWithDB(mock)
	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(42), stats.TotalEnquiries)
	require.Equal(t, int64(7), stats.NewEnquiries)
	require.Equal(t, int64(3), stats.ContactedEnquiries)
	require.Len(t, stats.RecentEnquiries, 2)
	require.Equal(t, "Jane", stats.RecentEnquiries[0].Name)

	require.NoError(t, mock.ExpectationsWereMet())
}
