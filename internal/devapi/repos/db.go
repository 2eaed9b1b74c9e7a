package repos

import (
	"log"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"
)

// OpenDB opens the dev backend database, creates the schema and seeds the
// demo catalog and accounts when they are missing.
func OpenDB(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// one connection keeps ":memory:" databases shared across queries
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	if err := seedIfEmpty(db); err != nil {
		return nil, err
	}
	// Ensure users exist (idempotent; safe to run every start)
	if err := seedUsers(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('customer','manager')),
  created_at TEXT NOT NULL,
  updated_at TEXT
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));

CREATE TABLE IF NOT EXISTS products(
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  brand TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL CHECK (price >= 0),
  stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
  images_json TEXT NOT NULL DEFAULT '[]',
  sizes_json TEXT NOT NULL DEFAULT '[]',
  category TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_products_name       ON products(LOWER(name));
CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at);

-- one line per (user, product, size); adding again raises the quantity
CREATE TABLE IF NOT EXISTS cart_items(
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
  product_id TEXT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
  size REAL NOT NULL,
  qty INTEGER NOT NULL CHECK (qty >= 1),
  created_at TEXT NOT NULL,
  updated_at TEXT,
  UNIQUE (user_id, product_id, size)
);
CREATE INDEX IF NOT EXISTS idx_cart_items_user ON cart_items(user_id);
`
	_, err := db.Exec(schema)
	return err
}

func now() string { return time.Now().UTC().Format(time.RFC3339Nano) }

func seedIfEmpty(db *sqlx.DB) error {
	var n int
	if err := db.Get(&n, `SELECT COUNT(*) FROM products`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo products")

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	at := func(days int) string { return base.AddDate(0, 0, days).Format(time.RFC3339Nano) }

	tx := db.MustBegin()
	tx.MustExec(`INSERT INTO products(id,name,brand,description,price,stock,images_json,sizes_json,category,created_at) VALUES
	  ('air-runner-01','Air Runner','Stride','Lightweight daily trainer with a breathable mesh upper.',89.99,12,'["uploads/air-runner-01.jpg"]','[7,8,9,10,11]','Running',?),
	  ('trail-blazer-02','Trail Blazer','Summit','Grippy outsole and rock plate for technical trails.',129.00,5,'["uploads/trail-blazer-02.jpg"]','[8,9,9.5,10]','Trail',?),
	  ('court-classic-03','Court Classic','Baseline','Leather low-top with a cupsole built for hard courts.',74.50,0,'["uploads/court-classic-03.jpg"]','[6,7,8]','Tennis',?),
	  ('city-slip-04','City Slip','Stride','Knit slip-on for everyday wear.',59.00,20,'["uploads/city-slip-04.jpg"]','[5,6,7,8,9]','Lifestyle',?),
	  ('tempo-racer-05','Tempo Racer','Velo','Carbon-plated racer for race day.',219.00,3,'["uploads/tempo-racer-05.jpg","uploads/tempo-racer-05-side.jpg"]','[8,8.5,9,9.5,10]','Running',?)`,
		at(0), at(10), at(20), at(30), at(40))
	return tx.Commit()
}

// seedUsers ensures the demo customer and manager exist (idempotent).
func seedUsers(db *sqlx.DB) error {
	type u struct {
		ID, Email, Name, Role, Hash string
	}
	mk := func(id, email, name, role, raw string) u {
		h, _ := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		return u{ID: id, Email: email, Name: name, Role: role, Hash: string(h)}
	}

	users := []u{
		mk("u-ann", "ann@stridecart.test", "Ann", "customer", "Passw0rd!"),
		mk("u-ben", "ben@stridecart.test", "Ben", "customer", "Passw0rd!"),
		mk("u-manager", "manager@stridecart.test", "Morgan", "manager", "Passw0rd!"),
	}

	tx := db.MustBegin()
	defer func() { _ = tx.Rollback() }()

	for _, x := range users {
		if _, err := tx.Exec(`
			INSERT INTO users(id,email,name,password_hash,role,created_at)
			VALUES(?,?,?,?,?,?)
			ON CONFLICT(email) DO NOTHING
		`, x.ID, x.Email, x.Name, x.Hash, x.Role, now()); err != nil {
			return err
		}
	}

	return tx.Commit()
}
