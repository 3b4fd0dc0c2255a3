package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"marinequote/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS parts (
  id TEXT PRIMARY KEY,
  drawingNumber TEXT NOT NULL,
  name TEXT,
  guidePrice REAL NOT NULL DEFAULT 0,
  guidePriceTaxed REAL NOT NULL DEFAULT 0,
  factoryPrice REAL NOT NULL DEFAULT 0,
  factoryPriceTaxed REAL NOT NULL DEFAULT 0,
  servicePrice REAL NOT NULL DEFAULT 0,
  servicePriceTaxed REAL NOT NULL DEFAULT 0,
  note TEXT,
  date TEXT,
  position INTEGER NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_parts_drawingNumber ON parts(drawingNumber);

CREATE TABLE IF NOT EXISTS quotations (
  id TEXT PRIMARY KEY,
  title TEXT,
  entriesJson TEXT NOT NULL,
  matchedCount INTEGER NOT NULL DEFAULT 0,
  newCount INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  source TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// ReplaceParts swaps the whole catalog inside one transaction, preserving
// the supplied order in the position column.
func (d *DB) ReplaceParts(parts []internal.CatalogPart) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM parts`); err != nil {
		return err
	}
	if err := insertParts(tx, parts, 0); err != nil {
		return err
	}
	return tx.Commit()
}

// UpsertParts merges imported parts into the catalog by id. New parts are
// appended after the current tail.
func (d *DB) UpsertParts(parts []internal.CatalogPart) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var tail sql.NullInt64
	if err := tx.QueryRow(`SELECT MAX(position) FROM parts`).Scan(&tail); err != nil {
		return err
	}
	if err := insertParts(tx, parts, int(tail.Int64)+1); err != nil {
		return err
	}
	return tx.Commit()
}

func insertParts(tx *sql.Tx, parts []internal.CatalogPart, basePos int) error {
	stmt, err := tx.Prepare(`
INSERT INTO parts (
  id, drawingNumber, name,
  guidePrice, guidePriceTaxed, factoryPrice, factoryPriceTaxed, servicePrice, servicePriceTaxed,
  note, date, position, updatedAt
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(id) DO UPDATE SET
  drawingNumber=excluded.drawingNumber,
  name=excluded.name,
  guidePrice=excluded.guidePrice,
  guidePriceTaxed=excluded.guidePriceTaxed,
  factoryPrice=excluded.factoryPrice,
  factoryPriceTaxed=excluded.factoryPriceTaxed,
  servicePrice=excluded.servicePrice,
  servicePriceTaxed=excluded.servicePriceTaxed,
  note=excluded.note,
  date=excluded.date,
  updatedAt=CURRENT_TIMESTAMP
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, p := range parts {
		if _, err := stmt.Exec(
			p.ID, p.DrawingNumber, p.Name,
			p.Prices.Guide, p.Prices.GuideTaxed, p.Prices.Factory, p.Prices.FactoryTaxed, p.Prices.Service, p.Prices.ServiceTaxed,
			p.Note, p.Date, basePos+i,
		); err != nil {
			return err
		}
	}
	return nil
}

// ListParts returns the catalog in stored order.
func (d *DB) ListParts() ([]internal.CatalogPart, error) {
	rows, err := d.conn.Query(`
SELECT id, drawingNumber, name,
       guidePrice, guidePriceTaxed, factoryPrice, factoryPriceTaxed, servicePrice, servicePriceTaxed,
       note, date
FROM parts ORDER BY position ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.CatalogPart
	for rows.Next() {
		var p internal.CatalogPart
		var name, note, date sql.NullString
		if err := rows.Scan(
			&p.ID, &p.DrawingNumber, &name,
			&p.Prices.Guide, &p.Prices.GuideTaxed, &p.Prices.Factory, &p.Prices.FactoryTaxed, &p.Prices.Service, &p.Prices.ServiceTaxed,
			&note, &date,
		); err != nil {
			return nil, err
		}
		p.Name, p.Note, p.Date = name.String, note.String, date.String
		out = append(out, p)
	}
	return out, rows.Err()
}

func (d *DB) DeleteAllParts() error {
	_, err := d.conn.Exec(`DELETE FROM parts`)
	return err
}

func (d *DB) CountParts() (int, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM parts`).Scan(&n)
	return n, err
}

// SaveQuotation stores one selection snapshot.
func (d *DB) SaveQuotation(id, title string, entries []internal.SelectionEntry, matchedCount, newCount int) error {
	blob, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	_, err = d.conn.Exec(`
INSERT INTO quotations (id, title, entriesJson, matchedCount, newCount) VALUES (?, ?, ?, ?, ?)
`, id, title, string(blob), matchedCount, newCount)
	return err
}

func (d *DB) GetQuotation(id string) (string, []internal.SelectionEntry, error) {
	var title sql.NullString
	var blob string
	err := d.conn.QueryRow(`SELECT title, entriesJson FROM quotations WHERE id = ?`, id).Scan(&title, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, err
	}

	var entries []internal.SelectionEntry
	if err := json.Unmarshal([]byte(blob), &entries); err != nil {
		return "", nil, err
	}
	return title.String, entries, nil
}

// QuotationSummary is one row of the saved-quotation history list.
type QuotationSummary struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	MatchedCount int    `json:"matchedCount"`
	NewCount     int    `json:"newCount"`
	CreatedAt    string `json:"createdAt"`
}

func (d *DB) ListQuotations(limit int) ([]QuotationSummary, error) {
	rows, err := d.conn.Query(`
SELECT id, title, matchedCount, newCount, createdAt
FROM quotations ORDER BY createdAt DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QuotationSummary
	for rows.Next() {
		var q QuotationSummary
		var title sql.NullString
		if err := rows.Scan(&q.ID, &title, &q.MatchedCount, &q.NewCount, &q.CreatedAt); err != nil {
			return nil, err
		}
		q.Title = title.String
		out = append(out, q)
	}
	return out, rows.Err()
}

// InsertRun records one reconciliation run for traceability.
func (d *DB) InsertRun(traceID, source string, counts map[string]int, timings map[string]float64) error {
	countsJSON, _ := json.Marshal(counts)
	timingsJSON, _ := json.Marshal(timings)
	_, err := d.conn.Exec(`
INSERT INTO runs (traceId, source, countsJson, timingsJson) VALUES (?, ?, ?, ?)
`, traceID, source, string(countsJSON), string(timingsJSON))
	return err
}

// SetMetadata / GetMetadata / RemoveMetadata keep the plain key/value blob
// contract the workspace persistence relies on.
func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (d *DB) RemoveMetadata(key string) error {
	_, err := d.conn.Exec(`DELETE FROM metadata WHERE key = ?`, key)
	return err
}
