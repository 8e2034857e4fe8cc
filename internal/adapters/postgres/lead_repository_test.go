package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/arch-mania/takanekaitori-prod/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *uuid.UUID:
			*p = r.values[i].(uuid.UUID)
		case *string:
			*p = r.values[i].(string)
		case *time.Time:
			*p = r.values[i].(time.Time)
		default:
			return errors.New("unsupported scan target")
		}
	}
	return nil
}

type fakeDB struct {
	execSQL  []string
	execArgs [][]any
	execErr  error
	row      fakeRow
	queried  int
}

func (f *fakeDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execSQL = append(f.execSQL, sql)
	f.execArgs = append(f.execArgs, args)
	return pgconn.NewCommandTag("INSERT 0 1"), f.execErr
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	f.queried++
	return f.row
}

func TestLeadRepository_Save(t *testing.T) {
	db := &fakeDB{}
	repo := NewLeadRepository(db)
	lead := &domain.Lead{
		ID:          uuid.New(),
		FormKind:    domain.FormKindUnlockDetails,
		InquiryType: domain.UnlockInquiryType,
		Name:        "佐藤",
		Email:       "sato@example.jp",
		Phone:       "09012345678",
		CreatedAt:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}

	require.NoError(t, repo.Save(context.Background(), lead))
	require.Len(t, db.execArgs, 1)
	args := db.execArgs[0]
	require.Len(t, args, 12)
	assert.Equal(t, lead.ID, args[0])
	assert.Equal(t, string(domain.FormKindUnlockDetails), args[1])
	assert.Equal(t, "09012345678", args[9])
	assert.Equal(t, lead.CreatedAt, args[11])

	db.execErr = errors.New("unique violation")
	err := repo.Save(context.Background(), lead)
	require.Error(t, err)
	assert.Contains(t, err.Error(), lead.ID.String())
}

func TestLeadRepository_GetByID(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	db := &fakeDB{row: fakeRow{values: []any{
		id, "propertyInquiry", "P-1", "渋谷", "山田", "内見希望", "", "佐藤", "sato@example.jp", "", "週末", created,
	}}}
	repo := NewLeadRepository(db)

	lead, err := repo.GetByID(context.Background(), id.String())
	require.NoError(t, err)
	require.NotNil(t, lead)
	assert.Equal(t, domain.FormKindPropertyInquiry, lead.FormKind)
	assert.Equal(t, "週末", lead.Message)
	assert.Equal(t, created, lead.CreatedAt)

	lead, err = repo.GetByID(context.Background(), "not-a-uuid")
	require.NoError(t, err)
	assert.Nil(t, lead)
	assert.Equal(t, 1, db.queried, "malformed ids never reach the database")

	db.row = fakeRow{err: pgx.ErrNoRows}
	lead, err = repo.GetByID(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, lead)
}

func TestLeadRepository_EnsureSchema(t *testing.T) {
	db := &fakeDB{}
	require.NoError(t, NewLeadRepository(db).EnsureSchema(context.Background()))
	assert.True(t, strings.Contains(db.execSQL[0], "CREATE TABLE IF NOT EXISTS leads"))
}
