package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"storeadmin/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound         = errors.New("product not found")
	ErrCategoryNotFound = errors.New("category does not belong to this store")
	ErrOptionNotFound   = errors.New("size or color does not belong to this store")
)

// Store is the data access abstraction for the products domain.
type Store interface {
	Create(ctx context.Context, storeID uuid.UUID, in ProductInput) (*ProductDetail, error)
	GetDetail(ctx context.Context, storeID, id uuid.UUID) (*ProductDetail, error)
	List(ctx context.Context, storeID uuid.UUID, f ListFilter) ([]*ProductCard, int, error)
	// Update rewrites the product, replaces its images and reconciles its
	// variations in one transaction. deleted lists images removed on the client
	// that may never have been persisted; mediaPrefix scopes which of them may
	// be purged.
	Update(ctx context.Context, storeID, id uuid.UUID, in ProductInput, deleted []ImageInput, mediaPrefix string) (*UpdateResult, error)
	// Delete removes the product and returns the public IDs of its images.
	Delete(ctx context.Context, storeID, id uuid.UUID) (*Product, []string, error)
}

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const productColumns = `p.id, p.store_id, p.category_id, p.name, p.description, p.price_cents,
	p.is_featured, p.is_archived, p.created_at, p.updated_at`

func scanProduct(row pgx.Row, extra ...any) (*Product, error) {
	p := &Product{}
	dest := []any{&p.ID, &p.StoreID, &p.CategoryID, &p.Name, &p.Description, &p.PriceCents,
		&p.IsFeatured, &p.IsArchived, &p.CreatedAt, &p.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ------------------------------------
// Reads
// ------------------------------------

func (r *Repository) GetDetail(ctx context.Context, storeID, id uuid.UUID) (*ProductDetail, error) {
	return getDetail(ctx, r.pool, storeID, id)
}

func getDetail(ctx context.Context, q db.Querier, storeID, id uuid.UUID) (*ProductDetail, error) {
	d := &ProductDetail{}
	p, err := scanProduct(q.QueryRow(ctx, `
		SELECT `+productColumns+`, c.name
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1 AND p.store_id = $2`, id, storeID), &d.Category.Name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	d.Product = *p
	d.Category.ID = p.CategoryID

	if d.Images, err = listImages(ctx, q, id); err != nil {
		return nil, err
	}
	if d.Variations, err = listVariationDetails(ctx, q, id); err != nil {
		return nil, err
	}
	return d, nil
}

func listImages(ctx context.Context, q db.Querier, productID uuid.UUID) ([]*Image, error) {
	rows, err := q.Query(ctx, `
		SELECT id, product_id, url, public_id, position, created_at
		FROM images
		WHERE product_id = $1
		ORDER BY position ASC, created_at ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	out := []*Image{}
	for rows.Next() {
		img := &Image{}
		if err := rows.Scan(&img.ID, &img.ProductID, &img.URL, &img.PublicID, &img.Position, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

func listVariationDetails(ctx context.Context, q db.Querier, productID uuid.UUID) ([]*Variation, error) {
	rows, err := q.Query(ctx, `
		SELECT pv.id, pv.product_id, pv.size_id, s.name, s.value,
		       pv.color_id, c.name, c.value, pv.quantity, pv.created_at, pv.updated_at
		FROM product_variations pv
		JOIN sizes s  ON s.id = pv.size_id
		JOIN colors c ON c.id = pv.color_id
		WHERE pv.product_id = $1
		ORDER BY pv.created_at ASC, pv.id ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list variations: %w", err)
	}
	defer rows.Close()

	out := []*Variation{}
	for rows.Next() {
		v := &Variation{Size: &Option{}, Color: &Option{}}
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SizeID, &v.Size.Name, &v.Size.Value,
			&v.ColorID, &v.Color.Name, &v.Color.Value, &v.Quantity, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variation: %w", err)
		}
		v.Size.ID = v.SizeID
		v.Color.ID = v.ColorID
		out = append(out, v)
	}
	return out, rows.Err()
}

// lockVariations loads the bare variation rows of a product and locks them
// for the rest of the transaction.
func lockVariations(ctx context.Context, tx pgx.Tx, productID uuid.UUID) ([]*Variation, error) {
	rows, err := tx.Query(ctx, `
		SELECT id, product_id, size_id, color_id, quantity, created_at, updated_at
		FROM product_variations
		WHERE product_id = $1
		ORDER BY created_at ASC, id ASC
		FOR UPDATE`, productID)
	if err != nil {
		return nil, fmt.Errorf("lock variations: %w", err)
	}
	defer rows.Close()

	out := []*Variation{}
	for rows.Next() {
		v := &Variation{}
		if err := rows.Scan(&v.ID, &v.ProductID, &v.SizeID, &v.ColorID, &v.Quantity, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan variation: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// variationRefs returns the order line items that point at any of ids.
func variationRefs(ctx context.Context, q db.Querier, ids []string) ([]VariationRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := q.Query(ctx, `
		SELECT oi.product_variation_id, o.id, o.delivered
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		WHERE oi.product_variation_id = ANY($1::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("variation refs: %w", err)
	}
	defer rows.Close()

	var out []VariationRef
	for rows.Next() {
		var ref VariationRef
		if err := rows.Scan(&ref.VariationID, &ref.OrderID, &ref.Delivered); err != nil {
			return nil, fmt.Errorf("scan variation ref: %w", err)
		}
		out = append(out, ref)
	}
	return out, rows.Err()
}

func (r *Repository) List(ctx context.Context, storeID uuid.UUID, f ListFilter) ([]*ProductCard, int, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 30
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := []string{"p.store_id = $1"}
	args := []any{storeID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if !f.IncludeArchived {
		where = append(where, "p.is_archived = false")
	}
	if f.CategoryID != nil {
		where = append(where, "p.category_id = "+arg(*f.CategoryID))
	}
	if f.IsFeatured != nil {
		where = append(where, "p.is_featured = "+arg(*f.IsFeatured))
	}
	if f.SizeID != nil {
		where = append(where, "EXISTS (SELECT 1 FROM product_variations v WHERE v.product_id = p.id AND v.size_id = "+arg(*f.SizeID)+")")
	}
	if f.ColorID != nil {
		where = append(where, "EXISTS (SELECT 1 FROM product_variations v WHERE v.product_id = p.id AND v.color_id = "+arg(*f.ColorID)+")")
	}

	limit := arg(f.Limit)
	offset := arg(f.Offset)

	query := `
		SELECT ` + productColumns + `,
		       c.name,
		       (SELECT i.url FROM images i WHERE i.product_id = p.id ORDER BY i.position ASC, i.created_at ASC LIMIT 1),
		       COALESCE((SELECT SUM(v.quantity) FROM product_variations v WHERE v.product_id = p.id), 0)::int,
		       COUNT(*) OVER()
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY p.created_at DESC
		LIMIT ` + limit + ` OFFSET ` + offset

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	out := []*ProductCard{}
	total := 0
	for rows.Next() {
		card := &ProductCard{}
		p, err := scanProduct(rows, &card.CategoryName, &card.ImageURL, &card.Stock, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		card.Product = *p
		out = append(out, card)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// ------------------------------------
// Writes
// ------------------------------------

// checkRefs makes sure the category, sizes and colors of in belong to storeID.
func checkRefs(ctx context.Context, q db.Querier, storeID uuid.UUID, in ProductInput) error {
	var ok bool
	if err := q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1 AND store_id = $2)`,
		in.CategoryID, storeID,
	).Scan(&ok); err != nil {
		return fmt.Errorf("check category: %w", err)
	}
	if !ok {
		return ErrCategoryNotFound
	}

	sizeSet := map[string]struct{}{}
	colorSet := map[string]struct{}{}
	for _, v := range in.Variations {
		sizeSet[v.SizeID.String()] = struct{}{}
		colorSet[v.ColorID.String()] = struct{}{}
	}
	if len(sizeSet) == 0 {
		return nil
	}

	keys := func(m map[string]struct{}) []string {
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k)
		}
		return out
	}

	var sizes, colors int
	if err := q.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM sizes  WHERE store_id = $1 AND id = ANY($2::uuid[])),
			(SELECT COUNT(*) FROM colors WHERE store_id = $1 AND id = ANY($3::uuid[]))`,
		storeID, keys(sizeSet), keys(colorSet),
	).Scan(&sizes, &colors); err != nil {
		return fmt.Errorf("check options: %w", err)
	}
	if sizes != len(sizeSet) || colors != len(colorSet) {
		return ErrOptionNotFound
	}
	return nil
}

func queueImages(b *pgx.Batch, productID uuid.UUID, imgs []ImageInput) {
	for i, img := range imgs {
		b.Queue(`INSERT INTO images (product_id, url, public_id, position) VALUES ($1, $2, $3, $4)`,
			productID, img.URL, img.PublicID, i)
	}
}

func queueNewVariations(b *pgx.Batch, productID uuid.UUID, vs []VariationInput) {
	for _, v := range vs {
		b.Queue(`INSERT INTO product_variations (product_id, size_id, color_id, quantity) VALUES ($1, $2, $3, $4)`,
			productID, v.SizeID, v.ColorID, v.Quantity)
	}
}

// runBatch sends b on tx and checks every queued statement.
func runBatch(ctx context.Context, tx pgx.Tx, b *pgx.Batch) error {
	if b.Len() == 0 {
		return nil
	}
	br := tx.SendBatch(ctx, b)
	for i := 0; i < b.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("batch statement %d: %w", i, err)
		}
	}
	return br.Close()
}

func (r *Repository) Create(ctx context.Context, storeID uuid.UUID, in ProductInput) (*ProductDetail, error) {
	// Variations of a product that does not exist yet cannot carry IDs.
	if _, err := PlanVariations(nil, in.Variations, nil); err != nil {
		return nil, err
	}

	var detail *ProductDetail
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		if err := checkRefs(ctx, tx, storeID, in); err != nil {
			return err
		}

		var id uuid.UUID
		if err := tx.QueryRow(ctx, `
			INSERT INTO products (store_id, category_id, name, description, price_cents, is_featured, is_archived)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			storeID, in.CategoryID, in.Name, in.Description, in.PriceCents, in.IsFeatured, in.IsArchived,
		).Scan(&id); err != nil {
			return fmt.Errorf("insert product: %w", err)
		}

		b := &pgx.Batch{}
		queueImages(b, id, in.Images)
		queueNewVariations(b, id, in.Variations)
		if err := runBatch(ctx, tx, b); err != nil {
			return err
		}

		var err error
		detail, err = getDetail(ctx, tx, storeID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

func (r *Repository) Update(
	ctx context.Context,
	storeID, id uuid.UUID,
	in ProductInput,
	deleted []ImageInput,
	mediaPrefix string,
) (*UpdateResult, error) {
	res := &UpdateResult{}

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		// 1) Lock the product row; concurrent edits of the same product queue here.
		var locked uuid.UUID
		if err := tx.QueryRow(ctx,
			`SELECT id FROM products WHERE id = $1 AND store_id = $2 FOR UPDATE`, id, storeID,
		).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock product: %w", err)
		}

		if err := checkRefs(ctx, tx, storeID, in); err != nil {
			return err
		}

		// 2) Classify variations against what is persisted.
		persisted, err := lockVariations(ctx, tx, id)
		if err != nil {
			return err
		}
		removed := RemovedVariations(persisted, in.Variations)
		refs, err := variationRefs(ctx, tx, variationIDs(removed))
		if err != nil {
			return err
		}
		plan, err := PlanVariations(persisted, in.Variations, refs)
		if err != nil {
			return err
		}
		res.Plan = plan

		oldImages, err := listImages(ctx, tx, id)
		if err != nil {
			return err
		}

		// 3) Apply.
		if _, err := tx.Exec(ctx, `
			UPDATE products
			SET category_id = $3, name = $4, description = $5, price_cents = $6,
			    is_featured = $7, is_archived = $8, updated_at = now()
			WHERE id = $1 AND store_id = $2`,
			id, storeID, in.CategoryID, in.Name, in.Description, in.PriceCents, in.IsFeatured, in.IsArchived,
		); err != nil {
			return fmt.Errorf("update product: %w", err)
		}

		b := &pgx.Batch{}
		b.Queue(`DELETE FROM images WHERE product_id = $1`, id)
		queueImages(b, id, in.Images)
		for _, v := range plan.Update {
			b.Queue(`
				UPDATE product_variations
				SET size_id = $2, color_id = $3, quantity = $4, updated_at = now()
				WHERE id = $1`, *v.ID, v.SizeID, v.ColorID, v.Quantity)
		}
		if len(plan.Disconnect) > 0 {
			b.Queue(`UPDATE product_variations SET product_id = NULL, updated_at = now() WHERE id = ANY($1::uuid[])`,
				uuidStrings(plan.Disconnect))
		}
		if len(plan.Delete) > 0 {
			b.Queue(`DELETE FROM product_variations WHERE id = ANY($1::uuid[])`, uuidStrings(plan.Delete))
		}
		queueNewVariations(b, id, plan.Create)
		if err := runBatch(ctx, tx, b); err != nil {
			return err
		}

		res.PurgePublicIDs = StaleImages(oldImages, in.Images, deleted, mediaPrefix)
		res.Product, err = getDetail(ctx, tx, storeID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Repository) Delete(ctx context.Context, storeID, id uuid.UUID) (*Product, []string, error) {
	var (
		deleted   *Product
		publicIDs []string
	)

	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var locked uuid.UUID
		if err := tx.QueryRow(ctx,
			`SELECT id FROM products WHERE id = $1 AND store_id = $2 FOR UPDATE`, id, storeID,
		).Scan(&locked); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock product: %w", err)
		}

		persisted, err := lockVariations(ctx, tx, id)
		if err != nil {
			return err
		}
		refs, err := variationRefs(ctx, tx, variationIDs(persisted))
		if err != nil {
			return err
		}
		// Removing every variation goes through the same rules as an update
		// with an empty variation list.
		if _, err := PlanVariations(persisted, nil, refs); err != nil {
			return err
		}

		imgs, err := listImages(ctx, tx, id)
		if err != nil {
			return err
		}
		publicIDs = ImagePublicIDs(imgs)

		if _, err := tx.Exec(ctx, `
			DELETE FROM product_variations pv
			WHERE pv.product_id = $1
			  AND NOT EXISTS (SELECT 1 FROM order_items oi WHERE oi.product_variation_id = pv.id)`, id); err != nil {
			return fmt.Errorf("delete variations: %w", err)
		}

		// Images cascade; referenced variations lose their product_id.
		deleted, err = scanProduct(tx.QueryRow(ctx, `
			DELETE FROM products p
			WHERE p.id = $1
			RETURNING `+productColumns, id))
		if err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return deleted, publicIDs, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}
