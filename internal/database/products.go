package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type Product struct {
	ID         uuid.UUID
	CategoryID pgtype.UUID
	Name       string
	SKU        string
	Price      pgtype.Numeric
	Stock      pgtype.Int4
	ImageURL   pgtype.Text
	Status     string
}

type ProductVariant struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	Label     string
	Price     pgtype.Numeric
	Stock     pgtype.Int4
}

type SearchProductsParams struct {
	Term        string
	CategoryID  pgtype.UUID
	InStockOnly bool
	Filter      string
	Limit       int32
	Offset      int32
}

// Filter narrows by product type ('simple' has no variants, 'variants'
// has at least one). It runs inside the query so LIMIT/OFFSET and the
// matching count see the same row set.
const searchProducts = `
SELECT p.id, p.category_id, p.name, p.sku, p.price, p.stock, p.image_url, p.status
FROM products p
WHERE p.status = 'active'
  AND ($1 = '' OR p.name ILIKE '%' || $1 || '%' OR p.sku ILIKE '%' || $1 || '%')
  AND ($2::uuid IS NULL OR p.category_id = $2)
  AND (NOT $3::bool OR p.stock > 0 OR EXISTS (
        SELECT 1 FROM product_variants v WHERE v.product_id = p.id AND v.stock > 0))
  AND ($4::text != 'simple' OR NOT EXISTS (
        SELECT 1 FROM product_variants v WHERE v.product_id = p.id))
  AND ($4::text != 'variants' OR EXISTS (
        SELECT 1 FROM product_variants v WHERE v.product_id = p.id))
ORDER BY p.name
LIMIT $5 OFFSET $6
`

func (q *Queries) SearchProducts(ctx context.Context, arg SearchProductsParams) ([]Product, error) {
	rows, err := q.db.Query(ctx, searchProducts,
		arg.Term, arg.CategoryID, arg.InStockOnly, arg.Filter, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.CategoryID, &p.Name, &p.SKU, &p.Price, &p.Stock, &p.ImageURL, &p.Status); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

const countProducts = `
SELECT count(*)
FROM products p
WHERE p.status = 'active'
  AND ($1 = '' OR p.name ILIKE '%' || $1 || '%' OR p.sku ILIKE '%' || $1 || '%')
  AND ($2::uuid IS NULL OR p.category_id = $2)
  AND (NOT $3::bool OR p.stock > 0 OR EXISTS (
        SELECT 1 FROM product_variants v WHERE v.product_id = p.id AND v.stock > 0))
  AND ($4::text != 'simple' OR NOT EXISTS (
        SELECT 1 FROM product_variants v WHERE v.product_id = p.id))
  AND ($4::text != 'variants' OR EXISTS (
        SELECT 1 FROM product_variants v WHERE v.product_id = p.id))
`

type CountProductsParams struct {
	Term        string
	CategoryID  pgtype.UUID
	InStockOnly bool
	Filter      string
}

func (q *Queries) CountProducts(ctx context.Context, arg CountProductsParams) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countProducts, arg.Term, arg.CategoryID, arg.InStockOnly, arg.Filter).Scan(&n)
	return n, err
}

const listVariantsByProduct = `
SELECT id, product_id, label, price, stock
FROM product_variants
WHERE product_id = $1
ORDER BY label
`

func (q *Queries) ListVariantsByProduct(ctx context.Context, productID uuid.UUID) ([]ProductVariant, error) {
	rows, err := q.db.Query(ctx, listVariantsByProduct, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ProductVariant
	for rows.Next() {
		var v ProductVariant
		if err := rows.Scan(&v.ID, &v.ProductID, &v.Label, &v.Price, &v.Stock); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

const getProductForDraft = `
SELECT id, category_id, name, sku, price, stock, image_url, status
FROM products
WHERE id = $1 AND status = 'active'
`

func (q *Queries) GetProductForDraft(ctx context.Context, id uuid.UUID) (Product, error) {
	var p Product
	err := q.db.QueryRow(ctx, getProductForDraft, id).
		Scan(&p.ID, &p.CategoryID, &p.Name, &p.SKU, &p.Price, &p.Stock, &p.ImageURL, &p.Status)
	return p, err
}

const getVariantForDraft = `
SELECT id, product_id, label, price, stock
FROM product_variants
WHERE id = $1
`

func (q *Queries) GetVariantForDraft(ctx context.Context, id uuid.UUID) (ProductVariant, error) {
	var v ProductVariant
	err := q.db.QueryRow(ctx, getVariantForDraft, id).
		Scan(&v.ID, &v.ProductID, &v.Label, &v.Price, &v.Stock)
	return v, err
}
