package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/tOgg1/taskdeck/internal/models"
)

// TaskRepository reads and edits the two task tables.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Fetch returns the rows of kind whose search column contains filter, ordered by id.
// An empty filter returns every row.
func (r *TaskRepository) Fetch(ctx context.Context, kind models.Kind, filter string) ([]models.Record, error) {
	schema := models.SchemaFor(kind)
	d := r.db.dialect

	selectList, positions := d.SelectList(schema)
	query := fmt.Sprintf("SELECT %s FROM %s", selectList, d.Quote(schema.Table))
	var args []any
	if filter != "" {
		query += fmt.Sprintf(" WHERE %s LIKE ? ESCAPE '%c'", d.Quote(schema.SearchColumn), likeEscape)
		args = append(args, "%"+escapeLike(filter)+"%")
	}
	query += fmt.Sprintf(" ORDER BY %s", d.Quote(schema.KeyColumn))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", schema.Table, err)
	}
	defer rows.Close()

	var records []models.Record
	values := make([]string, len(positions))
	dest := make([]any, len(positions))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", schema.Table, err)
		}
		record := make(models.Record, schema.ColumnCount())
		for i, col := range schema.Columns {
			if col.Synthetic() {
				record[i] = col.Name
			}
		}
		for i, pos := range positions {
			record[pos] = values[i]
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s rows: %w", schema.Table, err)
	}

	return records, nil
}

// UpdateField sets one column of the row whose keyField equals keyValue.
// It reports whether a row was changed.
func (r *TaskRepository) UpdateField(ctx context.Context, table, keyField, keyValue, column, value string) (bool, error) {
	schema, err := models.SchemaForTable(table)
	if err != nil {
		return false, err
	}
	if keyField != schema.KeyColumn {
		return false, fmt.Errorf("%w: %s.%s is not the key column", models.ErrUnknownColumn, table, keyField)
	}
	if err := schema.StoredColumn(column); err != nil {
		return false, err
	}
	if column == schema.KeyColumn {
		return false, fmt.Errorf("%w: %s.%s", models.ErrImmutableColumn, table, column)
	}

	d := r.db.dialect
	query := fmt.Sprintf("UPDATE %s SET %s = ? WHERE %s = ?",
		d.Quote(schema.Table), d.Quote(column), d.Quote(schema.KeyColumn))

	result, err := r.db.ExecWithRetry(ctx, query, value, keyValue)
	if err != nil {
		return false, fmt.Errorf("failed to update %s.%s: %w", table, column, err)
	}
	return affected(result)
}

// CopyRow duplicates a secondary row. The copy gets a new id and a NULL do_status.
func (r *TaskRepository) CopyRow(ctx context.Context, id string) (bool, error) {
	schema := models.SchemaFor(models.KindSecondary)
	d := r.db.dialect

	cols := schema.CopyColumns()
	targets := make([]string, len(cols))
	sources := make([]string, len(cols))
	for i, col := range cols {
		targets[i] = d.Quote(col)
		sources[i] = d.Quote(col)
		if col == "do_status" {
			sources[i] = "NULL"
		}
	}

	table := d.Quote(schema.Table)
	query := fmt.Sprintf("INSERT INTO %s (%s) SELECT %s FROM %s WHERE %s = ?",
		table, strings.Join(targets, ", "), strings.Join(sources, ", "), table, d.Quote(schema.KeyColumn))

	result, err := r.db.ExecWithRetry(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to copy %s row %s: %w", schema.Table, id, err)
	}
	return affected(result)
}

// DeleteRow removes a secondary row.
func (r *TaskRepository) DeleteRow(ctx context.Context, id string) (bool, error) {
	schema := models.SchemaFor(models.KindSecondary)
	d := r.db.dialect

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", d.Quote(schema.Table), d.Quote(schema.KeyColumn))
	result, err := r.db.ExecWithRetry(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete %s row %s: %w", schema.Table, id, err)
	}
	return affected(result)
}

type rowsAffecter interface {
	RowsAffected() (int64, error)
}

func affected(result rowsAffecter) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read affected rows: %w", err)
	}
	return n > 0, nil
}

// likeEscape is read the same way by MySQL and SQLite string literals,
// unlike a backslash.
const likeEscape = '!'

var likeReplacer = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// escapeLike makes the LIKE wildcards in s match literally.
func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}
