package pgdb

import (
	"context"

	"github.com/DRSN-tech/recsys-backend/internal/domain"
	"github.com/DRSN-tech/recsys-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/recsys-backend/pkg/e"
	"github.com/DRSN-tech/recsys-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jimlawless/whereami"
)

// ProductRepo реализует репозиторий товаров поверх PostgreSQL.
type ProductRepo struct {
	pool *pgxpool.Pool
	conv converter.ProductConverter
}

func NewProductRepo(pool *pgxpool.Pool, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

const productColumns = `
	id, code, name, COALESCE(description, ''), price,
	COALESCE(color, ''), COALESCE(product_type, ''), COALESCE(occasion, ''), COALESCE(skin_tone, ''),
	created_at, updated_at, is_archived
`

// GetCatalog возвращает неархивные товары в порядке возрастания id.
// Порядок важен: локальные индексы каталога в памяти должны совпадать
// от загрузки к загрузке.
func (p *ProductRepo) GetCatalog(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE NOT is_archived
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return p.scanProducts(rows)
}

// GetByCodes возвращает неархивные товары по их кодам.
func (p *ProductRepo) GetByCodes(ctx context.Context, codes []string) ([]domain.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products
		WHERE code = ANY($1) AND NOT is_archived
	`

	rows, err := p.pool.Query(ctx, query, codes)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	return p.scanProducts(rows)
}

// UpsertBatch идемпотентно создаёт или обновляет товары по уникальному коду.
// Товар, вернувшийся в каталог, разархивируется. Требует транзакции в контексте.
func (p *ProductRepo) UpsertBatch(ctx context.Context, products []domain.Product) error {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		INSERT INTO products (code, name, description, price, color, product_type, occasion, skin_tone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (code)
		DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			price = EXCLUDED.price,
			color = EXCLUDED.color,
			product_type = EXCLUDED.product_type,
			occasion = EXCLUDED.occasion,
			skin_tone = EXCLUDED.skin_tone,
			is_archived = false,
			updated_at = NOW()
	`

	batch := &pgx.Batch{}
	for _, product := range products {
		batch.Queue(query,
			product.Code, product.Name, product.Description, product.Price,
			product.Color, product.ProductType, product.Occasion, product.SkinTone,
		)
	}

	br := tx.SendBatch(ctx, batch)
	for range products {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if err := br.Close(); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// ArchiveMissing архивирует товары, которых нет в новом каталоге.
// Возвращает число заархивированных записей. Требует транзакции в контексте.
func (p *ProductRepo) ArchiveMissing(ctx context.Context, keepCodes []string) (int64, error) {
	tx, err := tr.TxFromCtx(ctx)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	query := `
		UPDATE products
		SET is_archived = true, updated_at = NOW()
		WHERE NOT is_archived AND code <> ALL($1)
	`

	tag, err := tx.Exec(ctx, query, keepCodes)
	if err != nil {
		return 0, e.Wrap(whereami.WhereAmI(), err)
	}

	return tag.RowsAffected(), nil
}

func (p *ProductRepo) scanProducts(rows pgx.Rows) ([]domain.Product, error) {
	models := make([]converter.ProductModel, 0)
	for rows.Next() {
		var m converter.ProductModel
		if err := rows.Scan(
			&m.ID, &m.Code, &m.Name, &m.Description, &m.Price,
			&m.Color, &m.ProductType, &m.Occasion, &m.SkinTone,
			&m.CreatedAt, &m.UpdatedAt, &m.IsArchived,
		); err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}

		models = append(models, m)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return p.conv.ToArrEntity(models), nil
}
