package repos

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"stridecart/internal/domain"
)

type ProductRepo struct{ db *sqlx.DB }

func NewProductRepo(db *sqlx.DB) *ProductRepo { return &ProductRepo{db: db} }

type productRow struct {
	ID          string  `db:"id"`
	Name        string  `db:"name"`
	Brand       string  `db:"brand"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Stock       int     `db:"stock"`
	ImagesJSON  string  `db:"images_json"`
	SizesJSON   string  `db:"sizes_json"`
	Category    string  `db:"category"`
	CreatedAt   string  `db:"created_at"`
}

const productCols = `id, name, brand, description, price, stock, images_json, sizes_json, category, created_at`

func (r productRow) product() domain.Product {
	p := domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Brand:       r.Brand,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		Images:      []string{},
		Sizes:       []float64{},
		Category:    r.Category,
	}
	_ = json.Unmarshal([]byte(r.ImagesJSON), &p.Images)
	_ = json.Unmarshal([]byte(r.SizesJSON), &p.Sizes)
	p.CreatedAt, _ = time.Parse(time.RFC3339Nano, r.CreatedAt)
	return p
}

// List returns products newest first. A non-empty search matches name, brand,
// description or category, case-insensitively.
func (r *ProductRepo) List(search string) ([]domain.Product, error) {
	where := `1 = 1`
	args := []any{}
	if q := strings.ToLower(strings.TrimSpace(search)); q != "" {
		where += ` AND (LOWER(name) LIKE ? OR LOWER(brand) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?)`
		like := "%" + q + "%"
		args = append(args, like, like, like, like)
	}
	var rows []productRow
	if err := r.db.Select(&rows, `SELECT `+productCols+` FROM products WHERE `+where+` ORDER BY created_at DESC`, args...); err != nil {
		return nil, err
	}
	out := make([]domain.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.product())
	}
	return out, nil
}

func (r *ProductRepo) Get(id string) (domain.Product, error) {
	var row productRow
	if err := r.db.Get(&row, `SELECT `+productCols+` FROM products WHERE id = ?`, id); err != nil {
		return domain.Product{}, err
	}
	return row.product(), nil
}

func (r *ProductRepo) Create(p domain.Product) error {
	images, sizes := encodeLists(p)
	_, err := r.db.Exec(`
		INSERT INTO products(`+productCols+`)
		VALUES(?,?,?,?,?,?,?,?,?,?)
	`, p.ID, p.Name, p.Brand, p.Description, p.Price, p.Stock, images, sizes, p.Category,
		p.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// Update overwrites every editable column. It reports false when no product
// has the id.
func (r *ProductRepo) Update(p domain.Product) (bool, error) {
	images, sizes := encodeLists(p)
	res, err := r.db.Exec(`
		UPDATE products
		SET name = ?, brand = ?, description = ?, price = ?, stock = ?,
		    images_json = ?, sizes_json = ?, category = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Brand, p.Description, p.Price, p.Stock, images, sizes, p.Category, now(), p.ID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *ProductRepo) Delete(id string) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

func encodeLists(p domain.Product) (string, string) {
	images, sizes := p.Images, p.Sizes
	if images == nil {
		images = []string{}
	}
	if sizes == nil {
		sizes = []float64{}
	}
	ib, _ := json.Marshal(images)
	sb, _ := json.Marshal(sizes)
	return string(ib), string(sb)
}
