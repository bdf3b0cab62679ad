package ddl

import (
	"database/sql"

	"github.com/pkg/errors"
)

const createTableResolutions = "create-table-resolutions"
const createTableKeyValues = "create-table-key-values"

type migration struct {
	name string
	stmt string
}

var migrations = map[string][]migration{
	"sqlite": {
		{
			name: createTableResolutions,
			stmt: `
CREATE TABLE IF NOT EXISTS resolutions (
id        INTEGER PRIMARY KEY AUTOINCREMENT,
key       TEXT,
env_name  TEXT,
status    TEXT,
created   INT,
result    TEXT
);
`,
		},
		{
			name: createTableKeyValues,
			stmt: `
CREATE TABLE IF NOT EXISTS key_values (
id     INTEGER PRIMARY KEY AUTOINCREMENT,
key    TEXT,
value  TEXT,
UNIQUE(key)
);
`,
		},
	},
	"postgres": {
		{
			name: createTableResolutions,
			stmt: `
CREATE TABLE IF NOT EXISTS resolutions (
id        SERIAL,
key       TEXT,
env_name  TEXT,
status    TEXT,
created   INT,
result    TEXT,
PRIMARY KEY (id)
);
`,
		},
		{
			name: createTableKeyValues,
			stmt: `
CREATE TABLE IF NOT EXISTS key_values (
id     SERIAL,
key    TEXT,
value  TEXT,
PRIMARY KEY (id),
UNIQUE(key)
);
`,
		},
	},
}

// Migrate applies the pending migration steps, recording each applied one
// in the migrations table
func Migrate(driver string, db *sql.DB) error {
	if err := createMigrationHistoryTable(db); err != nil {
		return err
	}

	for _, m := range migrations[driver] {
		applied, err := migrationApplied(db, m.name)
		if err != nil {
			return err
		}
		if applied {
			continue
		}
		if _, err := db.Exec(m.stmt); err != nil {
			return errors.Wrapf(err, "migration %s failed", m.name)
		}
		if err := recordMigration(db, m.name); err != nil {
			return err
		}
	}
	return nil
}

func createMigrationHistoryTable(db *sql.DB) error {
	_, err := db.Exec(`
CREATE TABLE IF NOT EXISTS migrations (
name TEXT,
UNIQUE(name)
);
`)
	return errors.Wrap(err, "cannot create migrations table")
}

func migrationApplied(db *sql.DB, name string) (bool, error) {
	var count int
	row := db.QueryRow("SELECT count(1) FROM migrations WHERE name = '"+name+"';")
	if err := row.Scan(&count); err != nil {
		return false, errors.Wrap(err, "cannot read migration history")
	}
	return count > 0, nil
}

func recordMigration(db *sql.DB, name string) error {
	_, err := db.Exec("INSERT INTO migrations (name) VALUES ('" + name + "');")
	return errors.Wrapf(err, "cannot record migration %s", name)
}
