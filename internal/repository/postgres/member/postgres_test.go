package member

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	memberdomain "membership-admin/internal/domain/member"
)

func newSQLiteRepo(t *testing.T) *PostgresRepository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.Table(DefaultTable).AutoMigrate(&memberdomain.Member{}))
	return NewPostgres(db, "")
}

func newMockRepo(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, DriverName: "postgres"}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewPostgres(db, DefaultTable), mock
}

func strPtr(v string) *string { return &v }

func TestPostgresRepositoryRoundTrip(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	repo.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	first, err := repo.Insert(ctx, memberdomain.Fields{
		FullName:            "Jane Doe",
		Email:               "jane@x.com",
		PhoneNumber:         strPtr("0700"),
		MembershipStartDate: strPtr("2025-01-15"),
	})
	require.NoError(t, err)
	assert.Equal(t, memberdomain.DefaultStatus, first.Status)

	second, err := repo.Insert(ctx, memberdomain.Fields{FullName: "John Roe", Email: "john@x.com", Status: "expired"})
	require.NoError(t, err)

	members, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, second.ID, members[0].ID)
	assert.Equal(t, first.ID, members[1].ID)
	require.NotNil(t, members[1].MembershipStartDate)
	assert.Equal(t, "2025-01-15", *members[1].MembershipStartDate)

	got, err := repo.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", got.FullName)
	require.NotNil(t, got.PhoneNumber)
	assert.Equal(t, "0700", *got.PhoneNumber)
}

func TestPostgresRepositoryUpdateClearsOptionals(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, memberdomain.Fields{FullName: "Jane", Email: "j@x.com", PhoneNumber: strPtr("0700")})
	require.NoError(t, err)

	updated, err := repo.Update(ctx, created.ID, memberdomain.Fields{FullName: "Jane Doe", Email: "j@x.com", Status: "suspended"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Jane Doe", updated.FullName)
	assert.Equal(t, "suspended", updated.Status)
	assert.Nil(t, updated.PhoneNumber)
}

func TestPostgresRepositoryNotFound(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()
	missing := "5b0f5a4e-9d5e-4c0c-9c55-2a4a3c8b1f00"

	_, err := repo.Get(ctx, missing)
	assert.True(t, errors.Is(err, memberdomain.ErrNotFound))

	_, err = repo.Update(ctx, missing, memberdomain.Fields{FullName: "x", Email: "y"})
	assert.True(t, errors.Is(err, memberdomain.ErrNotFound))

	_, err = repo.Get(ctx, "not-a-uuid")
	assert.True(t, errors.Is(err, memberdomain.ErrNotFound))
}

func TestPostgresRepositoryDeleteIsIdempotent(t *testing.T) {
	repo := newSQLiteRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, memberdomain.Fields{FullName: "Jane", Email: "j@x.com"})
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID))
	require.NoError(t, repo.Delete(ctx, created.ID))

	members, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, members)
}

func TestPostgresRepositoryListBackendError(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT \* FROM "member"`).WillReturnError(errors.New("connection refused"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.True(t, memberdomain.IsBackend(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresRepositoryGetKeepsServerCode(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := "5b0f5a4e-9d5e-4c0c-9c55-2a4a3c8b1f00"

	mock.ExpectQuery(`SELECT \* FROM "member"`).
		WillReturnError(&pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"})

	_, err := repo.Get(context.Background(), id)
	var backendErr *memberdomain.BackendError
	require.ErrorAs(t, err, &backendErr)
	assert.Equal(t, "57014", backendErr.Code)
	assert.Equal(t, "get", backendErr.Op)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		validation bool
		notFound   bool
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, notFound: true},
		{name: "not null", err: &pgconn.PgError{Code: "23502", Message: "null value", ColumnName: "email"}, validation: true},
		{name: "check", err: &pgconn.PgError{Code: "23514", Message: "violates check constraint"}, validation: true},
		{name: "bad date", err: &pgconn.PgError{Code: "22007", Message: "invalid input syntax for type date"}, validation: true},
		{name: "too long", err: &pgconn.PgError{Code: "22001", Message: "value too long for type character varying(20)"}, validation: true},
		{name: "invalid byte sequence", err: &pgconn.PgError{Code: "22021", Message: "invalid byte sequence for encoding \"UTF8\""}},
		{name: "untranslatable character", err: &pgconn.PgError{Code: "22P05", Message: "unsupported Unicode escape sequence"}},
		{name: "other", err: errors.New("boom")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("insert", tt.err)
			assert.Equal(t, tt.validation, memberdomain.IsValidation(err))
			assert.Equal(t, tt.notFound, errors.Is(err, memberdomain.ErrNotFound))
			if !tt.validation && !tt.notFound {
				assert.True(t, memberdomain.IsBackend(err))
			}
		})
	}
}
