package kv

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/gophadmin/internal/dbx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE local_storage (
  key        TEXT PRIMARY KEY,
  value      BLOB NOT NULL,
  updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);`)
	require.NoError(t, err)
	return db
}

func TestSetAndGet(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "app_auth_token", []byte(`"abc"`)))

	v, err := r.Get(ctx, "app_auth_token")
	require.NoError(t, err)
	assert.Equal(t, []byte(`"abc"`), v)
}

func TestGet_Absent_ReturnsNilNil(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	v, err := r.Get(context.Background(), "absent")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestSet_Upserts(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	v, err := r.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), v)
}

func TestDelete_IsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "x", []byte{1}))
	require.NoError(t, r.Delete(ctx, "x"))
	require.NoError(t, r.Delete(ctx, "x"))

	v, err := r.Get(ctx, "x")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestDeleteMany_InTransaction(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))
	require.NoError(t, r.Set(ctx, "b", []byte{2}))
	require.NoError(t, r.Set(ctx, "keep", []byte{3}))

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return NewSQLiteRepository(tx).DeleteMany(ctx, []string{"a", "b", "never-set"})
	})
	require.NoError(t, err)

	for k, want := range map[string][]byte{"a": nil, "b": nil, "keep": {3}} {
		v, err := r.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, want, v, k)
	}
}

func TestDeleteMany_RollsBackOnFailure(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "a", []byte{1}))

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := NewSQLiteRepository(tx).DeleteMany(ctx, []string{"a"}); err != nil {
			return err
		}
		return errors.New("abort")
	})
	require.Error(t, err)

	v, err := r.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte{1}, v)
}

func newMock(t *testing.T) (*SQLiteRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewSQLiteRepository(db), mock
}

func TestRepository_ErrorsAreWrapped(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("disk I/O error")

	t.Run("get", func(t *testing.T) {
		r, mock := newMock(t)
		mock.ExpectQuery(`SELECT value FROM local_storage`).WithArgs("k").WillReturnError(boom)

		v, err := r.Get(ctx, "k")
		require.ErrorIs(t, err, boom)
		assert.Nil(t, v)
		assert.Contains(t, err.Error(), "failed to get local_storage[k]")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("set", func(t *testing.T) {
		r, mock := newMock(t)
		mock.ExpectExec(`INSERT INTO local_storage`).WithArgs("k", []byte("v")).WillReturnError(boom)

		err := r.Set(ctx, "k", []byte("v"))
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to set local_storage[k]")
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete many stops at first failure", func(t *testing.T) {
		r, mock := newMock(t)
		mock.ExpectExec(`DELETE FROM local_storage`).WithArgs("a").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`DELETE FROM local_storage`).WithArgs("b").WillReturnError(boom)

		err := r.DeleteMany(ctx, []string{"a", "b", "c"})
		require.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to delete local_storage[b]")
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
