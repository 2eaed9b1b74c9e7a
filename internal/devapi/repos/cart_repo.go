package repos

import (
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"stridecart/internal/domain"
)

type CartRepo struct{ db *sqlx.DB }

func NewCartRepo(db *sqlx.DB) *CartRepo { return &CartRepo{db: db} }

type cartRow struct {
	ID   string  `db:"item_id"`
	Size float64 `db:"size"`
	Qty  int     `db:"qty"`
	productRow
}

// Items returns the user's cart lines, oldest first, each with the current
// product document.
func (r *CartRepo) Items(userID string) ([]domain.CartItem, error) {
	var rows []cartRow
	if err := r.db.Select(&rows, `
	  SELECT ci.id AS item_id, ci.size, ci.qty,
	         p.id, p.name, p.brand, p.description, p.price, p.stock,
	         p.images_json, p.sizes_json, p.category, p.created_at
	  FROM cart_items ci JOIN products p ON p.id = ci.product_id
	  WHERE ci.user_id = ?
	  ORDER BY ci.created_at, ci.id
	`, userID); err != nil {
		return nil, err
	}
	out := make([]domain.CartItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.CartItem{ID: row.ID, Product: row.product(), Size: row.Size, Quantity: row.Qty})
	}
	return out, nil
}

// Line returns the quantity of the (product, size) line, 0 when absent.
func (r *CartRepo) Line(userID, productID string, size float64) (int, error) {
	var qty int
	err := r.db.Get(&qty, `SELECT qty FROM cart_items WHERE user_id = ? AND product_id = ? AND size = ?`,
		userID, productID, size)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return qty, err
}

// Add inserts a line or raises the quantity of the existing one.
func (r *CartRepo) Add(id, userID, productID string, size float64, qty int) error {
	_, err := r.db.Exec(`
		INSERT INTO cart_items(id,user_id,product_id,size,qty,created_at)
		VALUES(?,?,?,?,?,?)
		ON CONFLICT(user_id,product_id,size) DO UPDATE
		SET qty = cart_items.qty + excluded.qty, updated_at = excluded.created_at
	`, id, userID, productID, size, qty, now())
	return err
}

// Item returns the product id and quantity of one of the user's lines.
func (r *CartRepo) Item(userID, itemID string) (productID string, qty int, err error) {
	var row struct {
		ProductID string `db:"product_id"`
		Qty       int    `db:"qty"`
	}
	err = r.db.Get(&row, `SELECT product_id, qty FROM cart_items WHERE id = ? AND user_id = ?`, itemID, userID)
	return row.ProductID, row.Qty, err
}

func (r *CartRepo) SetQty(userID, itemID string, qty int) (bool, error) {
	res, err := r.db.Exec(`UPDATE cart_items SET qty = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		qty, now(), itemID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *CartRepo) Remove(userID, itemID string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM cart_items WHERE id = ? AND user_id = ?`, itemID, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
