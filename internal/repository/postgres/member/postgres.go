package member

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	memberdomain "membership-admin/internal/domain/member"
)

const DefaultTable = "member"

// PostgresRepository talks to the member table directly through gorm.
type PostgresRepository struct {
	db    *gorm.DB
	table string
	now   func() time.Time
}

func NewPostgres(db *gorm.DB, table string) *PostgresRepository {
	table = strings.TrimSpace(table)
	if table == "" {
		table = DefaultTable
	}
	return &PostgresRepository{
		db:    db,
		table: table,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *PostgresRepository) List(ctx context.Context) ([]memberdomain.Member, error) {
	var members []memberdomain.Member
	if err := r.db.WithContext(ctx).
		Table(r.table).
		Order("created_at desc").
		Find(&members).Error; err != nil {
		return nil, classify("list", err)
	}
	for i := range members {
		normalizeDates(&members[i])
	}
	return members, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*memberdomain.Member, error) {
	if !validID(id) {
		return nil, memberdomain.ErrNotFound
	}

	var m memberdomain.Member
	if err := r.db.WithContext(ctx).
		Table(r.table).
		Where("id = ?", id).
		Take(&m).Error; err != nil {
		return nil, classify("get", err)
	}
	normalizeDates(&m)
	return &m, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, fields memberdomain.Fields) (*memberdomain.Member, error) {
	m := memberdomain.Member{ID: uuid.NewString(), CreatedAt: r.now()}
	m.Apply(fields)
	if m.Status == "" {
		m.Status = memberdomain.DefaultStatus
	}

	if err := r.db.WithContext(ctx).Table(r.table).Create(&m).Error; err != nil {
		return nil, classify("insert", err)
	}
	normalizeDates(&m)
	return &m, nil
}

// Update replaces every non-identity column, clearing optionals that are absent.
func (r *PostgresRepository) Update(ctx context.Context, id string, fields memberdomain.Fields) (*memberdomain.Member, error) {
	if !validID(id) {
		return nil, memberdomain.ErrNotFound
	}
	if fields.Status == "" {
		fields.Status = memberdomain.DefaultStatus
	}

	var updated memberdomain.Member
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Table(r.table).Where("id = ?", id).Updates(memberdomain.CanonicalSchema.Encode(fields))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return memberdomain.ErrNotFound
		}
		return tx.Table(r.table).Where("id = ?", id).Take(&updated).Error
	})
	if err != nil {
		return nil, classify("update", err)
	}
	normalizeDates(&updated)
	return &updated, nil
}

// Delete is idempotent: removing an unknown id succeeds.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return nil
	}
	if err := r.db.WithContext(ctx).
		Table(r.table).
		Where("id = ?", id).
		Delete(&memberdomain.Member{}).Error; err != nil {
		return classify("delete", err)
	}
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(strings.TrimSpace(id))
	return err == nil
}

func normalizeDates(m *memberdomain.Member) {
	m.MembershipStartDate = memberdomain.NormalizeDate(m.MembershipStartDate)
	m.MembershipEndDate = memberdomain.NormalizeDate(m.MembershipEndDate)
}

// classify turns driver errors into member errors. Integrity and data-format
// violations are the caller's fault; any other SQLSTATE is a backend failure.
func classify(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, memberdomain.ErrNotFound) {
		return memberdomain.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if memberdomain.IsValidationCode(pgErr.Code) {
			return &memberdomain.ValidationError{Field: pgErr.ColumnName, Message: pgErr.Message}
		}
		return &memberdomain.BackendError{Op: op, Code: pgErr.Code, Message: pgErr.Message, Err: err}
	}
	return memberdomain.NewBackendError(op, err)
}
