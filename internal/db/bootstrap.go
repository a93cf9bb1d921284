package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tOgg1/taskdeck/internal/models"
)

// Bootstrap creates the task tables when they do not exist.
// Only SQLite stores are bootstrapped; MySQL tables are owned by the services writing them.
func (db *DB) Bootstrap(ctx context.Context) error {
	return db.Transaction(ctx, func(tx *sql.Tx) error {
		for _, kind := range models.Kinds {
			for _, stmt := range db.dialect.createStatements(models.SchemaFor(kind)) {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to initialize %s schema: %w", kind, err)
				}
			}
		}
		return nil
	})
}

func (d Dialect) createStatements(schema *models.Schema) []string {
	table := d.Quote(schema.Table)
	defs := make([]string, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		if col.Synthetic() {
			continue
		}
		name := d.Quote(col.Name)
		switch {
		case col.Name == schema.KeyColumn:
			defs = append(defs, name+" INTEGER PRIMARY KEY AUTOINCREMENT")
		case col.Type == models.ColumnTime:
			defs = append(defs, name+" TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP")
		case col.Type == models.ColumnNumber:
			defs = append(defs, name+" NUMERIC")
		default:
			defs = append(defs, name+" TEXT")
		}
	}

	stmts := []string{
		fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(defs, ",\n\t")),
		fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s(%s)",
			d.Quote(schema.Table+"_"+schema.SearchColumn+"_idx"), table, d.Quote(schema.SearchColumn)),
	}
	if _, ok := schema.Index("update_time"); ok {
		stmts = append(stmts, fmt.Sprintf(
			"CREATE TRIGGER IF NOT EXISTS %s AFTER UPDATE ON %s FOR EACH ROW WHEN NEW.update_time = OLD.update_time BEGIN UPDATE %s SET update_time = CURRENT_TIMESTAMP WHERE %s = NEW.%s; END",
			d.Quote(schema.Table+"_touch"), table, table, d.Quote(schema.KeyColumn), d.Quote(schema.KeyColumn)))
	}
	return stmts
}
