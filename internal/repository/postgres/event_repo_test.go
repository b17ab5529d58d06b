package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/UnluckyRio/S3-L3/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
)

var confDate = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func TestEventRepository_Create(t *testing.T) {
	ctx := context.Background()

	description := "Annual Java conference"

	tests := []struct {
		name    string
		event   *domain.Event
		mock    func(mock sqlmock.Sqlmock)
		wantID  int64
		wantErr error
	}{
		{
			name:  "success",
			event: domain.NewEvent("Conferenza Java 2024", confDate, &description, domain.EventKindPublic, 100, 1),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events \(title, event_date, description, kind, capacity, venue_id\)`).
					WithArgs("Conferenza Java 2024", confDate, &description, "PUBLIC", 100, int64(1)).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
			},
			wantID: 1,
		},
		{
			name:  "success without description",
			event: domain.NewEvent("Meetup", confDate, nil, domain.EventKindPrivate, 10, 1),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
			},
			wantID: 2,
		},
		{
			name:    "zero capacity",
			event:   domain.NewEvent("Conferenza Java 2024", confDate, nil, domain.EventKindPublic, 0, 1),
			mock:    func(mock sqlmock.Sqlmock) {},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "negative capacity",
			event:   domain.NewEvent("Conferenza Java 2024", confDate, nil, domain.EventKindPublic, -5, 1),
			mock:    func(mock sqlmock.Sqlmock) {},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "unknown kind",
			event:   domain.NewEvent("Conferenza Java 2024", confDate, nil, domain.EventKind("SECRET"), 100, 1),
			mock:    func(mock sqlmock.Sqlmock) {},
			wantErr: domain.ErrValidation,
		},
		{
			name:  "venue does not exist",
			event: domain.NewEvent("Conferenza Java 2024", confDate, nil, domain.EventKindPublic, 100, 99),
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`INSERT INTO events`).
					WillReturnError(&pq.Error{Code: "23503"})
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			err = repo.Create(ctx, tt.event)
			if tt.wantErr != nil {
				require.Error(t, err)
				require.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantID, tt.event.ID)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("success with null description", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, event_date, description, kind, capacity, venue_id`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "event_date", "description", "kind", "capacity", "venue_id"}).
				AddRow(int64(1), "Conferenza Java 2024", confDate, nil, "PUBLIC", 100, int64(1)))

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, 1)
		require.NoError(t, err)
		require.Equal(t, "Conferenza Java 2024", got.Title)
		require.Nil(t, got.Description)
		require.Equal(t, domain.EventKindPublic, got.Kind)
		require.Equal(t, 100, got.Capacity)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT id, title, event_date, description, kind, capacity, venue_id`).
			WithArgs(int64(9)).
			WillReturnError(sql.ErrNoRows)

		repo := NewEventRepository(db)
		got, err := repo.GetByID(ctx, 9)
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_SearchByTitle(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, event_date, description, kind, capacity, venue_id`).
		WithArgs("Java").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "event_date", "description", "kind", "capacity", "venue_id"}).
			AddRow(int64(1), "Conferenza Java 2024", confDate, "Annual Java conference", "PUBLIC", 100, int64(1)))

	repo := NewEventRepository(db)
	got, err := repo.SearchByTitle(ctx, "Java")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Conferenza Java 2024", got[0].Title)
	require.NotNil(t, got[0].Description)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_RemainingSeats(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		eventID int64
		mock    func(mock sqlmock.Sqlmock)
		want    int
		wantErr error
	}{
		{
			name:    "one participation against capacity 100",
			eventID: 1,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT e.capacity - COUNT\(p.id\)`).
					WithArgs(int64(1)).
					WillReturnRows(sqlmock.NewRows([]string{"remaining"}).AddRow(99))
			},
			want: 99,
		},
		{
			name:    "full event",
			eventID: 2,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT e.capacity - COUNT\(p.id\)`).
					WithArgs(int64(2)).
					WillReturnRows(sqlmock.NewRows([]string{"remaining"}).AddRow(0))
			},
			want: 0,
		},
		{
			name:    "event not found",
			eventID: 9,
			mock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(`SELECT e.capacity - COUNT\(p.id\)`).
					WithArgs(int64(9)).
					WillReturnError(sql.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			tt.mock(mock)
			repo := NewEventRepository(db)
			got, err := repo.RemainingSeats(ctx, tt.eventID)
			if tt.wantErr != nil {
				require.True(t, errors.Is(err, tt.wantErr))
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestEventRepository_HasAvailableSeats(t *testing.T) {
	ctx := context.Background()

	t.Run("seats left", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT e.capacity - COUNT\(p.id\)`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"remaining"}).AddRow(5))

		repo := NewEventRepository(db)
		got, err := repo.HasAvailableSeats(ctx, 1)
		require.NoError(t, err)
		require.True(t, got)
	})

	t.Run("full", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectQuery(`SELECT e.capacity - COUNT\(p.id\)`).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"remaining"}).AddRow(0))

		repo := NewEventRepository(db)
		got, err := repo.HasAvailableSeats(ctx, 1)
		require.NoError(t, err)
		require.False(t, got)
	})
}

func TestEventRepository_CountParticipations(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM participations WHERE event_id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	repo := NewEventRepository(db)
	got, err := repo.CountParticipations(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 42, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEventRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades to participations", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM participations WHERE event_id = \$1`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 4))
		mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		repo := NewEventRepository(db)
		require.NoError(t, repo.Delete(ctx, 1))
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on failure", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectExec(`DELETE FROM participations WHERE event_id = \$1`).
			WithArgs(int64(1)).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		repo := NewEventRepository(db)
		require.Error(t, repo.Delete(ctx, 1))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEventRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectExec(`UPDATE events`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		e := domain.NewEvent("Conferenza Java 2024", confDate, nil, domain.EventKindPublic, 100, 1)
		e.ID = 9
		repo := NewEventRepository(db)
		err = repo.Update(ctx, e)
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
