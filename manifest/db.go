package manifest

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB is a manifest stored in SQLite.
type DB struct {
	db *sql.DB
}

// NewDB opens, creating if necessary, the database in file.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sheet (id INTEGER PRIMARY KEY NOT NULL, file TEXT NOT NULL, width INTEGER NOT NULL, height INTEGER NOT NULL, size INTEGER NOT NULL, hash TEXT NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS sprite (id INTEGER PRIMARY KEY NOT NULL, namespace TEXT NOT NULL, name TEXT NOT NULL, sheet_id INTEGER NOT NULL, x INTEGER NOT NULL, y INTEGER NOT NULL, w INTEGER NOT NULL, h INTEGER NOT NULL, UNIQUE(namespace, name), FOREIGN KEY(sheet_id) REFERENCES sheet(id))"); err != nil {
		db.Close()
		return nil, err
	}

	return &DB{
		db: db,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	return db.db.Close()
}

// Write replaces the contents of the database with m.
func (db *DB) Write(m *Manifest) (err error) {
	tx, err := db.db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.Exec("DELETE FROM sprite"); err != nil {
		return err
	}

	if _, err = tx.Exec("DELETE FROM sheet"); err != nil {
		return err
	}

	for _, s := range m.Sheets {
		if _, err = tx.Exec("INSERT INTO sheet (id, file, width, height, size, hash) VALUES (?, ?, ?, ?, ?, ?)", s.Index, s.File, s.Width, s.Height, s.Size, s.Hash); err != nil {
			return err
		}
	}

	for ns, sprites := range m.Sprites {
		for name, s := range sprites {
			if _, err = tx.Exec("INSERT INTO sprite (namespace, name, sheet_id, x, y, w, h) VALUES (?, ?, ?, ?, ?, ?, ?)", ns, name, s.Sheet, s.X, s.Y, s.W, s.H); err != nil {
				return err
			}
		}
	}

	return tx.Commit()
}

// FindSprite returns the location of the named sprite within namespace and
// the file of the sheet it is on. It returns nil if there is no such sprite.
func (db *DB) FindSprite(namespace, name string) (*Sprite, string, error) {
	var s Sprite
	var file string
	switch err := db.db.QueryRow("SELECT s.sheet_id, s.x, s.y, s.w, s.h, t.file FROM sprite AS s JOIN sheet AS t ON s.sheet_id = t.id WHERE s.namespace = ? AND s.name = ?", namespace, name).Scan(&s.Sheet, &s.X, &s.Y, &s.W, &s.H, &file); err {
	case sql.ErrNoRows:
		return nil, "", nil
	case nil:
		return &s, file, nil
	default:
		return nil, "", err
	}
}

// Length returns the number of sprites in the database.
func (db *DB) Length() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM sprite").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
