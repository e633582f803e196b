package mural

import (
	"database/sql"
	"encoding/json"

	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

// DB is a key/value store of JSON documents. Documents are kept zstd
// compressed in an SQLite database.
type DB struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewDB opens or creates the database in file.
func NewDB(file string) (*DB, error) {
	db, err := sql.Open("sqlite3", file)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS item (key TEXT PRIMARY KEY NOT NULL, value BLOB NOT NULL)"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &DB{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

// Close closes the database.
func (db *DB) Close() error {
	db.dec.Close()
	if err := db.enc.Close(); err != nil {
		db.db.Close()
		return err
	}
	return db.db.Close()
}

// Raw returns the JSON document stored under key, or nil if there is none.
func (db *DB) Raw(key string) ([]byte, error) {
	var value []byte
	switch err := db.db.QueryRow("SELECT value FROM item WHERE key = ?", key).Scan(&value); err {
	case sql.ErrNoRows:
		return nil, nil
	case nil:
		return db.dec.DecodeAll(value, nil)
	default:
		return nil, err
	}
}

// Get decodes the document stored under key into v. It reports whether
// the key was found.
func (db *DB) Get(key string, v interface{}) (bool, error) {
	b, err := db.Raw(key)
	if err != nil || b == nil {
		return false, err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores v under key as a JSON document.
func (db *DB) Set(key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}

	if _, err := db.db.Exec("INSERT OR REPLACE INTO item (key, value) VALUES (?, ?)", key, db.enc.EncodeAll(b, nil)); err != nil {
		return err
	}
	return nil
}

// Delete removes key.
func (db *DB) Delete(key string) error {
	if _, err := db.db.Exec("DELETE FROM item WHERE key = ?", key); err != nil {
		return err
	}
	return nil
}
