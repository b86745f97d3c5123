package progress

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLite is a durable store keyed by device identity, so progress
// survives process restarts. Reads are served from an in-memory cache
// loaded at open; writes go through to the database. The monotonic
// contract is also enforced at the SQL level by a conditional upsert,
// which keeps concurrent sessions on *different* devices from ever
// interfering (rows are scoped per device).
type SQLite struct {
	db       *sql.DB
	deviceID string
	cache    *Memory

	// ErrFunc receives persistence failures. Progress marking has no
	// error path in the Store contract (a lost write costs at most one
	// redundant rescan), so failures are reported out-of-band.
	ErrFunc func(error)
}

// OpenSQLite opens (creating if needed) the progress database at path,
// scoped to one device.
func OpenSQLite(path, deviceID string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open progress db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS progress (
		device_id TEXT NOT NULL,
		key       TEXT NOT NULL,
		checked   INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (device_id, key)
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create progress table: %w", err)
	}

	s := &SQLite{
		db:       db,
		deviceID: deviceID,
		cache:    NewMemory(),
		ErrFunc:  func(error) {},
	}
	if err := s.load(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLite) load() error {
	rows, err := s.db.Query(
		`SELECT key, checked FROM progress WHERE device_id = ?`, s.deviceID)
	if err != nil {
		return fmt.Errorf("load progress: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var checked int
		if err := rows.Scan(&key, &checked); err != nil {
			return fmt.Errorf("scan progress row: %w", err)
		}
		s.cache.checked[key] = checked
	}
	return rows.Err()
}

func (s *SQLite) StartPosition(difficulty, series string) int {
	return s.cache.StartPosition(difficulty, series)
}

func (s *SQLite) MarkChecked(difficulty, series string, n int) {
	s.cache.MarkChecked(difficulty, series, n)

	_, err := s.db.Exec(`INSERT INTO progress (device_id, key, checked)
		VALUES (?, ?, ?)
		ON CONFLICT (device_id, key) DO UPDATE SET checked = excluded.checked
		WHERE excluded.checked > progress.checked`,
		s.deviceID, Key(difficulty, series), n)
	if err != nil {
		s.ErrFunc(fmt.Errorf("persist progress %s: %w", Key(difficulty, series), err))
	}
}

func (s *SQLite) SeriesExhausted(difficulty, series string, total int) bool {
	return s.cache.SeriesExhausted(difficulty, series, total)
}

func (s *SQLite) Reset() {
	s.cache.Reset()
	if _, err := s.db.Exec(
		`DELETE FROM progress WHERE device_id = ?`, s.deviceID); err != nil {
		s.ErrFunc(fmt.Errorf("reset progress: %w", err))
	}
}

// Snapshot mirrors Memory.Snapshot for status logging.
func (s *SQLite) Snapshot() []string {
	return s.cache.Snapshot()
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
