package tr

import (
	"context"
	"testing"

	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTx struct {
	pgx.Tx
	id int
}

func TestWithTxRoundtrip(t *testing.T) {
	tx := fakeTx{id: 42}

	ctx := WithTx(context.Background(), tx)

	got, err := TxFromCtx(ctx)
	require.NoError(t, err)
	assert.Equal(t, tx, got)
}

func TestTxFromCtx_Missing(t *testing.T) {
	_, err := TxFromCtx(context.Background())
	assert.ErrorIs(t, err, e.ErrTransactionNotFound)
}

func TestTxFromCtx_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), TxKey, "not a tx")

	_, err := TxFromCtx(ctx)
	assert.ErrorIs(t, err, e.ErrTransactionNotFound)
}
