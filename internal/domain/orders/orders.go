package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"storeadmin/internal/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository struct {
	pool  *pgxpool.Pool
	codes *CodeGenerator
}

func NewRepository(pool *pgxpool.Pool, codes *CodeGenerator) *Repository {
	if codes == nil {
		panic("orders: CodeGenerator is nil")
	}
	return &Repository{pool: pool, codes: codes}
}

const orderColumns = `o.id, o.store_id, o.seq, o.is_paid, o.awaiting_payment, o.delivered, o.phone, o.address,
	COALESCE((SELECT SUM(oi.quantity * oi.unit_price_cents) FROM order_items oi WHERE oi.order_id = o.id), 0)::bigint,
	COALESCE((SELECT SUM(oi.quantity) FROM order_items oi WHERE oi.order_id = o.id), 0)::int,
	o.created_at, o.updated_at`

func (r *Repository) scanOrder(row pgx.Row, extra ...any) (*Order, error) {
	o := &Order{}
	dest := []any{&o.ID, &o.StoreID, &o.Seq, &o.IsPaid, &o.AwaitingPayment, &o.Delivered, &o.Phone, &o.Address,
		&o.TotalCents, &o.ItemCount, &o.CreatedAt, &o.UpdatedAt}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	o.Code = r.codes.Encode(o.Seq)
	return o, nil
}

// CreateCheckout creates an unpaid order for the requested variations.
// Stock is checked here and only taken when the order is paid.
func (r *Repository) CreateCheckout(ctx context.Context, storeID uuid.UUID, in CheckoutInput) (*OrderDetail, error) {
	// Merge repeated lines so stock is checked against the combined quantity.
	wanted := map[uuid.UUID]int{}
	var order []uuid.UUID
	for _, l := range in.Items {
		if _, ok := wanted[l.VariationID]; !ok {
			order = append(order, l.VariationID)
		}
		wanted[l.VariationID] += l.Quantity
	}
	ids := make([]string, 0, len(order))
	for _, id := range order {
		ids = append(ids, id.String())
	}

	var detail *OrderDetail
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		type line struct {
			productID  uuid.UUID
			name       string
			priceCents int64
			stock      int
		}
		lines := map[uuid.UUID]line{}

		// 1) Lock the variations so concurrent checkouts see the same stock.
		rows, err := tx.Query(ctx, `
			SELECT pv.id, p.id, p.name, p.price_cents, pv.quantity
			FROM product_variations pv
			JOIN products p ON p.id = pv.product_id
			WHERE pv.id = ANY($1::uuid[])
			  AND p.store_id = $2
			  AND p.is_archived = false
			FOR UPDATE OF pv`, ids, storeID)
		if err != nil {
			return fmt.Errorf("lock variations: %w", err)
		}
		for rows.Next() {
			var id uuid.UUID
			var l line
			if err := rows.Scan(&id, &l.productID, &l.name, &l.priceCents, &l.stock); err != nil {
				rows.Close()
				return fmt.Errorf("scan variation: %w", err)
			}
			lines[id] = l
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		// 2) Validate membership and stock.
		for _, id := range order {
			l, ok := lines[id]
			if !ok {
				return fmt.Errorf("%w: %s", ErrVariationUnavailable, id)
			}
			if l.stock < wanted[id] {
				return fmt.Errorf("%w: %s", ErrInsufficientStock, id)
			}
		}

		// 3) Order + item snapshot.
		var orderID uuid.UUID
		if err := tx.QueryRow(ctx,
			`INSERT INTO orders (store_id) VALUES ($1) RETURNING id`, storeID,
		).Scan(&orderID); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		b := &pgx.Batch{}
		for _, id := range order {
			l := lines[id]
			b.Queue(`
				INSERT INTO order_items (order_id, product_id, product_variation_id, product_name, quantity, unit_price_cents)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				orderID, l.productID, id, l.name, wanted[id], l.priceCents)
		}
		br := tx.SendBatch(ctx, b)
		for range order {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("create order items: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return err
		}

		detail, err = r.getDetail(ctx, tx, storeID, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// DeleteUnpaid removes an order whose payment session could not be opened.
func (r *Repository) DeleteUnpaid(ctx context.Context, storeID, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM orders WHERE id = $1 AND store_id = $2 AND is_paid = false`, id, storeID)
	if err != nil {
		return fmt.Errorf("delete unpaid order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAbandoned removes checkouts that were never paid. The payment session
// of such an order has expired by cutoff. Orders whose payment is still being
// processed are kept.
func (r *Repository) DeleteAbandoned(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM orders
		WHERE is_paid = false AND awaiting_payment = false AND created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete abandoned orders: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SetAwaitingPayment records that the customer finished checkout with a
// payment method that settles later, or clears it when that payment failed.
func (r *Repository) SetAwaitingPayment(ctx context.Context, id uuid.UUID, awaiting bool) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE orders
		SET awaiting_payment = $2, updated_at = now()
		WHERE id = $1 AND is_paid = false`, id, awaiting)
	if err != nil {
		return fmt.Errorf("set awaiting payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkPaid flags the order paid, stores the contact details collected by the
// payment provider and takes the ordered quantities out of stock.
func (r *Repository) MarkPaid(ctx context.Context, id uuid.UUID, phone, address string) (*Order, error) {
	var paid *Order
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		var isPaid bool
		if err := tx.QueryRow(ctx,
			`SELECT is_paid FROM orders WHERE id = $1 FOR UPDATE`, id,
		).Scan(&isPaid); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}
		if isPaid {
			return ErrAlreadyPaid
		}

		if _, err := tx.Exec(ctx, `
			UPDATE orders
			SET is_paid = true, awaiting_payment = false, phone = $2, address = $3, updated_at = now()
			WHERE id = $1`, id, phone, address); err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}

		// Stock never goes negative; the shortfall is the owner's to resolve.
		if _, err := tx.Exec(ctx, `
			UPDATE product_variations pv
			SET quantity = GREATEST(pv.quantity - oi.qty, 0), updated_at = now()
			FROM (
				SELECT product_variation_id, SUM(quantity) AS qty
				FROM order_items
				WHERE order_id = $1 AND product_variation_id IS NOT NULL
				GROUP BY product_variation_id
			) oi
			WHERE pv.id = oi.product_variation_id`, id); err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}

		var err error
		paid, err = r.scanOrder(tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return paid, nil
}

// List returns the store's orders, newest first. Default limit is 30.
func (r *Repository) List(ctx context.Context, storeID uuid.UUID, f ListFilter) ([]Order, int, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 30
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	where := []string{"o.store_id = $1"}
	args := []any{storeID}
	arg := 2

	if f.IsPaid != nil {
		where = append(where, fmt.Sprintf("o.is_paid = $%d", arg))
		args = append(args, *f.IsPaid)
		arg++
	}
	if f.Delivered != nil {
		where = append(where, fmt.Sprintf("o.delivered = $%d", arg))
		args = append(args, *f.Delivered)
		arg++
	}

	q := fmt.Sprintf(`
SELECT %s,
       COUNT(*) OVER() AS total_count
FROM orders o
WHERE %s
ORDER BY o.created_at DESC
LIMIT $%d OFFSET $%d`, orderColumns, strings.Join(where, " AND "), arg, arg+1)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var (
		out   = []Order{}
		total int
	)
	for rows.Next() {
		var t int
		o, err := r.scanOrder(rows, &t)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

func (r *Repository) GetDetail(ctx context.Context, storeID, id uuid.UUID) (*OrderDetail, error) {
	return r.getDetail(ctx, r.pool, storeID, id)
}

func (r *Repository) getDetail(ctx context.Context, q db.Querier, storeID, id uuid.UUID) (*OrderDetail, error) {
	o, err := r.scanOrder(q.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.id = $1 AND o.store_id = $2`, id, storeID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := loadItems(ctx, q, id)
	if err != nil {
		return nil, err
	}
	return &OrderDetail{Order: *o, Items: items}, nil
}

func loadItems(ctx context.Context, q db.Querier, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.Query(ctx, `
SELECT oi.id, oi.order_id, oi.product_id, oi.product_variation_id, oi.product_name,
       s.name, c.name, oi.quantity, oi.unit_price_cents
FROM order_items oi
LEFT JOIN product_variations pv ON pv.id = oi.product_variation_id
LEFT JOIN sizes s  ON s.id = pv.size_id
LEFT JOIN colors c ON c.id = pv.color_id
WHERE oi.order_id = $1
ORDER BY oi.created_at ASC, oi.id ASC`, orderID)
	if err != nil {
		return nil, fmt.Errorf("order items: %w", err)
	}
	defer rows.Close()

	items := []OrderItem{}
	for rows.Next() {
		var it OrderItem
		if err := rows.Scan(
			&it.ID, &it.OrderID, &it.ProductID, &it.ProductVariationID, &it.ProductName,
			&it.Size, &it.Color, &it.Quantity, &it.UnitPriceCents,
		); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		it.TotalPriceCents = int64(it.Quantity) * it.UnitPriceCents
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *Repository) SetDelivered(ctx context.Context, storeID, id uuid.UUID, delivered bool) (*Order, error) {
	var updated uuid.UUID
	err := r.pool.QueryRow(ctx, `
		UPDATE orders
		SET delivered = $3, updated_at = now()
		WHERE id = $1 AND store_id = $2
		RETURNING id`, id, storeID, delivered).Scan(&updated)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("set delivered: %w", err)
	}

	o, err := r.scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders o WHERE o.id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	return o, nil
}
