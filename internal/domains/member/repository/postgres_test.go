package repository

import (
	"context"
	"errors"
	"testing"

	"cms-backend/internal/domains/member/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	sql  string
	args []any
}

// recordingDB captures statements instead of running them.
type recordingDB struct {
	calls []call
}

func (d *recordingDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	d.calls = append(d.calls, call{sql, args})
	return pgconn.NewCommandTag("UPDATE 1"), nil
}

func (d *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}

func (d *recordingDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.calls = append(d.calls, call{sql, args})
	return idRow(int64(len(d.calls)))
}

type idRow int64

func (r idRow) Scan(dest ...any) error {
	*dest[0].(*int64) = int64(r)
	return nil
}

func TestMemberWithoutEmailIsStoredAsNull(t *testing.T) {
	db := &recordingDB{}
	repo := NewPostgresMemberRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Ada", "Grace"} {
		_, err := repo.Create(ctx, &model.Member{FirstName: name, LastName: "Member"})
		require.NoError(t, err)
	}
	_, err := repo.Update(ctx, 1, &model.Member{FirstName: "Ada", LastName: "Member"})
	require.NoError(t, err)

	require.Len(t, db.calls, 3)
	assert.Contains(t, db.calls[0].sql, "NULLIF($5, '')")
	assert.Equal(t, "", db.calls[0].args[4])
	assert.Equal(t, "", db.calls[1].args[4])
	assert.Contains(t, db.calls[2].sql, "email = NULLIF($6, '')")
	assert.Contains(t, memberColumns, "COALESCE(email, '')")
}
