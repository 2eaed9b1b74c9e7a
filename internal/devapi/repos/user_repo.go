package repos

import (
	"github.com/jmoiron/sqlx"

	"stridecart/internal/domain"
)

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// UserRow is a stored account including its password hash.
type UserRow struct {
	ID    string `db:"id"`
	Email string `db:"email"`
	Name  string `db:"name"`
	Hash  string `db:"password_hash"`
	Role  string `db:"role"`
}

// User converts the row to its wire form. A role the schema would not allow
// is reported as an error rather than guessed.
func (r UserRow) User() (domain.User, error) {
	role, err := domain.ParseRole(r.Role)
	if err != nil {
		return domain.User{}, err
	}
	return domain.User{ID: r.ID, Name: r.Name, Email: r.Email, Role: role}, nil
}

func (r *UserRepo) ByEmail(email string) (*UserRow, error) {
	var u UserRow
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE LOWER(email)=LOWER(?)`, email)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(id string) (*UserRow, error) {
	var u UserRow
	err := r.DB.Get(&u, `SELECT id,email,name,password_hash,role FROM users WHERE id=?`, id)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Create(u UserRow) error {
	_, err := r.DB.Exec(`INSERT INTO users(id,email,name,password_hash,role,created_at) VALUES(?,?,?,?,?,?)`,
		u.ID, u.Email, u.Name, u.Hash, u.Role, now())
	return err
}

// List returns every account ordered by email.
func (r *UserRepo) List() ([]UserRow, error) {
	var out []UserRow
	err := r.DB.Select(&out, `SELECT id,email,name,password_hash,role FROM users ORDER BY LOWER(email)`)
	return out, err
}

func (r *UserRepo) Update(id, name, email, role string) (bool, error) {
	res, err := r.DB.Exec(`UPDATE users SET name=?, email=?, role=?, updated_at=? WHERE id=?`,
		name, email, role, now(), id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Delete removes the account; its cart lines go with it.
func (r *UserRepo) Delete(id string) (bool, error) {
	tx, err := r.DB.Beginx()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM cart_items WHERE user_id=?`, id); err != nil {
		return false, err
	}
	res, err := tx.Exec(`DELETE FROM users WHERE id=?`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, tx.Commit()
}
