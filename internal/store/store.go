// Package store persists the accumulated world map in a local SQLite
// file. Nested region lists (units, markets, structures) are kept as
// JSON columns; scalar fields get real columns so the file stays
// inspectable with any sqlite client.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/OldJobobo/lantir/internal/report"
	"github.com/OldJobobo/lantir/internal/world"
)

// PersistenceError describes a world file that could not be read or
// written. Callers fall back to an empty world and surface the message
// rather than crashing.
type PersistenceError struct {
	Path string
	Op   string // "open", "load", "save"
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s world file %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store wraps a SQLite connection holding one persisted world.
type Store struct {
	conn *sqlx.DB
	path string
}

// Open opens or creates the world file at path.
func Open(path string) (*Store, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, &PersistenceError{Path: path, Op: "open", Err: err}
	}
	s := &Store{conn: conn, path: path}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, &PersistenceError{Path: path, Op: "open", Err: err}
	}
	return s, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS regions (
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		terrain TEXT NOT NULL,
		province TEXT NOT NULL,
		pop_amount INTEGER NOT NULL,
		pop_race TEXT NOT NULL,
		tax INTEGER NOT NULL,
		wages_amount REAL NOT NULL,
		wages_max INTEGER NOT NULL,
		entertainment INTEGER NOT NULL,
		peeked INTEGER NOT NULL,
		first_seen_turn INTEGER NOT NULL,
		last_seen_turn INTEGER NOT NULL,
		settlement_json TEXT,
		products_json TEXT NOT NULL,
		markets_json TEXT NOT NULL,
		units_json TEXT NOT NULL,
		structures_json TEXT NOT NULL,
		PRIMARY KEY (x, y)
	);

	CREATE TABLE IF NOT EXISTS factions (
		number INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		last_turn INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS events (
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		position INTEGER NOT NULL,
		message TEXT NOT NULL,
		PRIMARY KEY (x, y, position)
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := s.conn.Exec(schema); err != nil {
		return err
	}
	_, err := s.conn.Exec(
		`INSERT INTO world_meta (key, value) VALUES ('schema_version', '1')
		 ON CONFLICT(key) DO NOTHING`)
	return err
}

// regionRow is the flat database shape of a world.Region.
type regionRow struct {
	X              int            `db:"x"`
	Y              int            `db:"y"`
	Terrain        string         `db:"terrain"`
	Province       string         `db:"province"`
	PopAmount      int            `db:"pop_amount"`
	PopRace        string         `db:"pop_race"`
	Tax            int            `db:"tax"`
	WagesAmount    float64        `db:"wages_amount"`
	WagesMax       int            `db:"wages_max"`
	Entertainment  int            `db:"entertainment"`
	Peeked         bool           `db:"peeked"`
	FirstSeenTurn  int            `db:"first_seen_turn"`
	LastSeenTurn   int            `db:"last_seen_turn"`
	SettlementJSON sql.NullString `db:"settlement_json"`
	ProductsJSON   string         `db:"products_json"`
	MarketsJSON    string         `db:"markets_json"`
	UnitsJSON      string         `db:"units_json"`
	StructuresJSON string         `db:"structures_json"`
}

func rowFromRegion(r *world.Region) (*regionRow, error) {
	row := &regionRow{
		X:             r.Coord.X,
		Y:             r.Coord.Y,
		Terrain:       r.Terrain,
		Province:      r.Province,
		PopAmount:     r.Population.Amount,
		PopRace:       r.Population.Race,
		Tax:           r.Tax,
		WagesAmount:   r.Wages.Amount,
		WagesMax:      r.Wages.Max,
		Entertainment: r.Entertainment,
		Peeked:        r.Peeked,
		FirstSeenTurn: r.FirstSeenTurn,
		LastSeenTurn:  r.LastSeenTurn,
	}
	if r.Settlement != nil {
		b, err := json.Marshal(r.Settlement)
		if err != nil {
			return nil, err
		}
		row.SettlementJSON = sql.NullString{String: string(b), Valid: true}
	}
	for _, enc := range []struct {
		dst *string
		src any
	}{
		{&row.ProductsJSON, r.Products},
		{&row.MarketsJSON, r.Markets},
		{&row.UnitsJSON, r.Units},
		{&row.StructuresJSON, r.Structures},
	} {
		b, err := json.Marshal(enc.src)
		if err != nil {
			return nil, err
		}
		*enc.dst = string(b)
	}
	return row, nil
}

func (row *regionRow) toRegion() (*world.Region, error) {
	r := &world.Region{
		Coord:         world.Coord{X: row.X, Y: row.Y},
		Terrain:       row.Terrain,
		Province:      row.Province,
		Population:    report.Population{Amount: row.PopAmount, Race: row.PopRace},
		Tax:           row.Tax,
		Wages:         report.Wages{Amount: row.WagesAmount, Max: row.WagesMax},
		Entertainment: row.Entertainment,
		Peeked:        row.Peeked,
		FirstSeenTurn: row.FirstSeenTurn,
		LastSeenTurn:  row.LastSeenTurn,
	}
	if row.SettlementJSON.Valid {
		if err := json.Unmarshal([]byte(row.SettlementJSON.String), &r.Settlement); err != nil {
			return nil, err
		}
	}
	for _, dec := range []struct {
		src string
		dst any
	}{
		{row.ProductsJSON, &r.Products},
		{row.MarketsJSON, &r.Markets},
		{row.UnitsJSON, &r.Units},
		{row.StructuresJSON, &r.Structures},
	} {
		if err := json.Unmarshal([]byte(dec.src), dec.dst); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// SaveWorld writes the whole world in one transaction, replacing any
// previous contents, and clears the world's dirty flag on success.
func (s *Store) SaveWorld(w *world.World) error {
	tx, err := s.conn.Beginx()
	if err != nil {
		return &PersistenceError{Path: s.path, Op: "save", Err: err}
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM regions"); err != nil {
		return &PersistenceError{Path: s.path, Op: "save", Err: err}
	}
	if _, err := tx.Exec("DELETE FROM factions"); err != nil {
		return &PersistenceError{Path: s.path, Op: "save", Err: err}
	}
	if _, err := tx.Exec("DELETE FROM events"); err != nil {
		return &PersistenceError{Path: s.path, Op: "save", Err: err}
	}

	for _, r := range w.Regions() {
		row, err := rowFromRegion(r)
		if err != nil {
			return &PersistenceError{Path: s.path, Op: "save", Err: err}
		}
		_, err = tx.NamedExec(`
			INSERT INTO regions (
				x, y, terrain, province, pop_amount, pop_race, tax,
				wages_amount, wages_max, entertainment, peeked,
				first_seen_turn, last_seen_turn,
				settlement_json, products_json, markets_json, units_json, structures_json
			) VALUES (
				:x, :y, :terrain, :province, :pop_amount, :pop_race, :tax,
				:wages_amount, :wages_max, :entertainment, :peeked,
				:first_seen_turn, :last_seen_turn,
				:settlement_json, :products_json, :markets_json, :units_json, :structures_json
			)`, row)
		if err != nil {
			return &PersistenceError{Path: s.path, Op: "save", Err: err}
		}
	}

	for number, info := range w.Factions() {
		_, err := tx.Exec(
			"INSERT INTO factions (number, name, last_turn) VALUES (?, ?, ?)",
			number, info.Name, info.LastTurn)
		if err != nil {
			return &PersistenceError{Path: s.path, Op: "save", Err: err}
		}
	}

	for c, messages := range w.AllEvents() {
		for i, msg := range messages {
			_, err := tx.Exec(
				"INSERT INTO events (x, y, position, message) VALUES (?, ?, ?, ?)",
				c.X, c.Y, i, msg)
			if err != nil {
				return &PersistenceError{Path: s.path, Op: "save", Err: err}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return &PersistenceError{Path: s.path, Op: "save", Err: err}
	}
	w.MarkClean()
	return nil
}

// LoadWorld reads the persisted world. An empty database yields an
// empty world, not an error.
func (s *Store) LoadWorld() (*world.World, error) {
	var rows []regionRow
	if err := s.conn.Select(&rows, "SELECT * FROM regions"); err != nil {
		return nil, &PersistenceError{Path: s.path, Op: "load", Err: err}
	}

	w := world.New()
	for i := range rows {
		r, err := rows[i].toRegion()
		if err != nil {
			return nil, &PersistenceError{Path: s.path, Op: "load", Err: err}
		}
		w.SetRegion(r)
	}

	var factionRows []struct {
		Number   int    `db:"number"`
		Name     string `db:"name"`
		LastTurn int    `db:"last_turn"`
	}
	if err := s.conn.Select(&factionRows, "SELECT number, name, last_turn FROM factions"); err != nil {
		return nil, &PersistenceError{Path: s.path, Op: "load", Err: err}
	}
	for _, fr := range factionRows {
		w.SetFaction(fr.Number, &world.FactionInfo{Name: fr.Name, LastTurn: fr.LastTurn})
	}

	var eventRows []struct {
		X       int    `db:"x"`
		Y       int    `db:"y"`
		Message string `db:"message"`
	}
	err := s.conn.Select(&eventRows,
		"SELECT x, y, message FROM events ORDER BY x, y, position")
	if err != nil {
		return nil, &PersistenceError{Path: s.path, Op: "load", Err: err}
	}
	for _, er := range eventRows {
		c := world.Coord{X: er.X, Y: er.Y}
		w.SetEvents(c, append(w.Events(c), er.Message))
	}
	return w, nil
}
