package tr

import (
	"context"

	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/jackc/pgx/v5"
)

type ctxKey struct{}

// TxKey — ключ контекста для транзакции.
var TxKey = ctxKey{}

// WithTx кладёт транзакцию в контекст.
func WithTx(ctx context.Context, tx pgx.Tx) context.Context {
	return context.WithValue(ctx, TxKey, tx)
}

// TxFromCtx извлекает объект транзакции (pgx.Tx) из контекста
func TxFromCtx(ctx context.Context) (pgx.Tx, error) {
	txAny := ctx.Value(TxKey)
	tx, ok := txAny.(pgx.Tx)
	if !ok {
		return nil, e.ErrTransactionNotFound
	}
	return tx, nil
}
