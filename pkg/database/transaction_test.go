package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx records how a transaction ended; other pgx.Tx methods are unused.
type fakeTx struct {
	pgx.Tx
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Commit(ctx context.Context) error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	t.rolledBack = true
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestWithTransactionResult_Commits(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}

	n, err := WithTransactionResult(context.Background(), db, func(tx pgx.Tx) (int64, error) {
		return 3, nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
	assert.True(t, db.tx.committed)
	assert.False(t, db.tx.rolledBack)
}

func TestWithTransactionResult_RollsBackOnError(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}
	boom := errors.New("copy failed")

	n, err := WithTransactionResult(context.Background(), db, func(tx pgx.Tx) (int64, error) {
		return 2, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Zero(t, n)
	assert.True(t, db.tx.rolledBack)
	assert.False(t, db.tx.committed)
}

func TestWithTransaction_RollsBackOnPanic(t *testing.T) {
	db := &fakeBeginner{tx: &fakeTx{}}

	assert.Panics(t, func() {
		_ = WithTransaction(context.Background(), db, func(tx pgx.Tx) error {
			panic("boom")
		})
	})
	assert.True(t, db.tx.rolledBack)
}

func TestWithTransaction_BeginFails(t *testing.T) {
	db := &fakeBeginner{err: errors.New("pool closed")}

	err := WithTransaction(context.Background(), db, func(tx pgx.Tx) error {
		t.Fatal("fn must not run")
		return nil
	})

	assert.ErrorContains(t, err, "failed to begin transaction")
}
