package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaimeStill/promptstore/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func scanName(s repository.Scanner) (string, error) {
	var name string
	err := s.Scan(&name)
	return name, err
}

func TestMapError(t *testing.T) {
	other := errors.New("some other error")
	foreignKey := &pgconn.PgError{Code: "23503"}

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("find: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"other pg error passthrough", foreignKey, foreignKey},
		{"passthrough", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.in, errNotFound, errDuplicate)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.ErrorIs(t, got, tt.want)
		})
	}
}

func TestWithTxCommits(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM prompts").WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	n, err := repository.WithTx(context.Background(), db, func(tx *sql.Tx) (int64, error) {
		return repository.ExecAffected(context.Background(), tx, "DELETE FROM prompts")
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithTxRollsBackOnError(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := repository.WithTx(context.Background(), db, func(tx *sql.Tx) (struct{}, error) {
		return struct{}{}, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryMany(t *testing.T) {
	db, mock := newMock(t)

	t.Run("rows", func(t *testing.T) {
		mock.ExpectQuery("SELECT name").
			WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a").AddRow("b"))

		got, err := repository.QueryMany(context.Background(), db, "SELECT name FROM t", nil, scanName)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, got)
	})

	t.Run("no rows yields empty slice", func(t *testing.T) {
		mock.ExpectQuery("SELECT name").WillReturnRows(sqlmock.NewRows([]string{"name"}))

		got, err := repository.QueryMany(context.Background(), db, "SELECT name FROM t", nil, scanName)
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryOneNoRows(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT name").WithArgs(1).WillReturnRows(sqlmock.NewRows([]string{"name"}))

	_, err := repository.QueryOne(context.Background(), db, "SELECT name FROM t WHERE id = $1", []any{1}, scanName)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestQueryScalar(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := repository.QueryScalar[int](context.Background(), db, "SELECT COUNT(*) FROM t")
	require.NoError(t, err)
	assert.Equal(t, 42, n)
}

func TestExecExpectOne(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("DELETE").WithArgs(1).WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repository.ExecExpectOne(context.Background(), db, "DELETE FROM t WHERE id = $1", 1))

	mock.ExpectExec("DELETE").WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, repository.ExecExpectOne(context.Background(), db, "DELETE FROM t WHERE id = $1", 2), sql.ErrNoRows)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestJSONContainsNul(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`{"a":"\u0000"}`, true},
		{`{"\u0000":1}`, true},
		{`[1,["x\u0000y"]]`, true},
		{`{"a":"\\u0000"}`, false},
		{`{"a":"plain"}`, false},
		{`{"a":`, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, repository.JSONContainsNul([]byte(tt.raw)), tt.raw)
	}
}

func TestContainsNul(t *testing.T) {
	assert.True(t, repository.ContainsNul("a\x00b"))
	assert.False(t, repository.ContainsNul(`a\u0000b`))
}
