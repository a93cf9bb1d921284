package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tOgg1/taskdeck/internal/models"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	database, err := Open(context.Background(), Config{Driver: DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	return database
}

func seedSecondary(t *testing.T, database *DB, tokens ...string) {
	t.Helper()
	for _, token := range tokens {
		_, err := database.Exec(`INSERT INTO dex_volume_task
			(pool_id, token_add, mm_type, remark, do_status, buy_rate, create_time, update_time)
			VALUES ('pool-1', ?, 1, 'seed', 2, 0.5, '2024-03-01 10:00:00', '2024-03-01 10:00:00')`, token)
		require.NoError(t, err)
	}
}

func TestTaskRepository_FilterWildcardsMatchLiterally(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	seedSecondary(t, database, "a_c1", "abc2", "50%off", "5000", "x!y")
	repo := NewTaskRepository(database)
	ctx := context.Background()

	tests := []struct {
		filter string
		want   []string
	}{
		{"a_c", []string{"a_c1"}},
		{"0%", []string{"50%off"}},
		{"x!y", []string{"x!y"}},
		{"%", []string{"50%off"}},
	}
	idx, _ := models.SchemaFor(models.KindSecondary).Index("token_add")
	for _, tt := range tests {
		rows, err := repo.Fetch(ctx, models.KindSecondary, tt.filter)
		require.NoError(t, err, tt.filter)
		got := make([]string, 0, len(rows))
		for _, row := range rows {
			got = append(got, row.Field(idx))
		}
		require.Equal(t, tt.want, got, tt.filter)
	}
}

func TestEscapeLike(t *testing.T) {
	require.Equal(t, "a!_b!%c!!d", escapeLike("a_b%c!d"))
	require.Equal(t, "plain", escapeLike("plain"))
}

func TestTaskRepository_FetchAllAndFiltered(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	seedSecondary(t, database, "abc111", "zzz222", "xabcx")
	repo := NewTaskRepository(database)
	ctx := context.Background()

	all, err := repo.Fetch(ctx, models.KindSecondary, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	filtered, err := repo.Fetch(ctx, models.KindSecondary, "abc")
	require.NoError(t, err)
	require.Len(t, filtered, 2)
	require.Equal(t, "1", filtered[0].ID())
	require.Equal(t, "3", filtered[1].ID())
}

func TestTaskRepository_FetchFormatsDisplayText(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	seedSecondary(t, database, "abc111")
	repo := NewTaskRepository(database)
	schema := models.SchemaFor(models.KindSecondary)

	rows, err := repo.Fetch(context.Background(), models.KindSecondary, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	require.Len(t, row, schema.ColumnCount())

	field := func(name string) string {
		i, ok := schema.Index(name)
		require.True(t, ok, name)
		return row[i]
	}
	require.Equal(t, "abc111", field("token_add"))
	require.Equal(t, "0.5", field("buy_rate"))
	require.Equal(t, "", field("target_price"))
	require.Equal(t, "2024-03-01 10:00:00", field("create_time"))
	require.Equal(t, "copy", field("copy"))
	require.Equal(t, "del", field("del"))
}

func TestTaskRepository_FetchPrimaryEmpty(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	rows, err := NewTaskRepository(database).Fetch(context.Background(), models.KindPrimary, "")
	require.NoError(t, err)
	require.Empty(t, rows)
}

func TestTaskRepository_UpdateField(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	seedSecondary(t, database, "abc111")
	repo := NewTaskRepository(database)
	ctx := context.Background()

	ok, err := repo.UpdateField(ctx, "dex_volume_task", "id", "1", "do_status", "42")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.UpdateField(ctx, "dex_volume_task", "id", "1", "remark", "hello 世界")
	require.NoError(t, err)
	require.True(t, ok)

	rows, err := repo.Fetch(ctx, models.KindSecondary, "")
	require.NoError(t, err)
	schema := models.SchemaFor(models.KindSecondary)
	statusIdx, _ := schema.Index("do_status")
	remarkIdx, _ := schema.Index("remark")
	require.Equal(t, "42", rows[0][statusIdx])
	require.Equal(t, "hello 世界", rows[0][remarkIdx])

	ok, err = repo.UpdateField(ctx, "dex_volume_task", "id", "99", "remark", "nobody")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTaskRepository_UpdateFieldRejectsUnknownIdentifiers(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	repo := NewTaskRepository(database)
	ctx := context.Background()

	_, err := repo.UpdateField(ctx, "users", "id", "1", "remark", "x")
	require.ErrorIs(t, err, models.ErrUnknownTable)

	_, err = repo.UpdateField(ctx, "dex_volume_task", "token_add", "1", "remark", "x")
	require.ErrorIs(t, err, models.ErrUnknownColumn)

	_, err = repo.UpdateField(ctx, "dex_volume_task", "id", "1", "remark = 'x'; --", "x")
	require.ErrorIs(t, err, models.ErrUnknownColumn)

	_, err = repo.UpdateField(ctx, "dex_volume_task", "id", "1", "copy", "x")
	require.ErrorIs(t, err, models.ErrUnknownColumn)

	_, err = repo.UpdateField(ctx, "dex_volume_task", "id", "1", "id", "7")
	require.ErrorIs(t, err, models.ErrImmutableColumn)
}

func TestTaskRepository_CopyRow(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	seedSecondary(t, database, "abc111")
	repo := NewTaskRepository(database)
	ctx := context.Background()

	ok, err := repo.CopyRow(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)

	rows, err := repo.Fetch(ctx, models.KindSecondary, "")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	schema := models.SchemaFor(models.KindSecondary)
	tokenIdx, _ := schema.Index("token_add")
	statusIdx, _ := schema.Index("do_status")
	require.Equal(t, "2", rows[1].ID())
	require.Equal(t, "abc111", rows[1][tokenIdx])
	require.Equal(t, "2", rows[0][statusIdx])
	require.Equal(t, "", rows[1][statusIdx])

	ok, err = repo.CopyRow(ctx, "404")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestTaskRepository_DeleteRow(t *testing.T) {
	database := setupTestDB(t)
	defer database.Close()

	seedSecondary(t, database, "abc111", "def222")
	repo := NewTaskRepository(database)
	ctx := context.Background()

	ok, err := repo.DeleteRow(ctx, "1")
	require.NoError(t, err)
	require.True(t, ok)

	rows, err := repo.Fetch(ctx, models.KindSecondary, "")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "2", rows[0].ID())

	ok, err = repo.DeleteRow(ctx, "1")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOpen_RejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: "postgres", DSN: "x"})
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestOpen_RequiresDSN(t *testing.T) {
	_, err := Open(context.Background(), Config{Driver: DriverSQLite})
	require.Error(t, err)
}

func TestDialectDisplayExpr(t *testing.T) {
	col := models.Column{Name: "create_time", Type: models.ColumnTime}
	require.Equal(t, "IFNULL(DATE_FORMAT(`create_time`, '%Y-%m-%d %H:%i:%s'), '')", mysqlDialect.DisplayExpr(col))

	col = models.Column{Name: "buy_rate", Type: models.ColumnNumber}
	require.Equal(t, `IFNULL(CAST("buy_rate" AS TEXT), '')`, sqliteDialect.DisplayExpr(col))
}
