package db

import (
	"fmt"
	"strings"

	"github.com/tOgg1/taskdeck/internal/models"
)

// Dialect renders the driver-specific parts of the task queries.
type Dialect struct {
	Name      string
	quote     byte
	textType  string
	timeFmt   func(expr string) string
	bootstrap bool
}

var (
	mysqlDialect = Dialect{
		Name:     DriverMySQL,
		quote:    '`',
		textType: "CHAR",
		timeFmt: func(expr string) string {
			return "DATE_FORMAT(" + expr + ", '%Y-%m-%d %H:%i:%s')"
		},
	}
	sqliteDialect = Dialect{
		Name:     DriverSQLite,
		quote:    '"',
		textType: "TEXT",
		timeFmt: func(expr string) string {
			return "strftime('%Y-%m-%d %H:%M:%S', " + expr + ")"
		},
		bootstrap: true,
	}
)

func dialectFor(driver string) (Dialect, error) {
	switch driver {
	case DriverMySQL:
		return mysqlDialect, nil
	case DriverSQLite, DriverSQLite3:
		return sqliteDialect, nil
	default:
		return Dialect{}, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
}

// Quote quotes an identifier. Callers only pass names checked against a schema.
func (d Dialect) Quote(name string) string {
	q := string(d.quote)
	return q + strings.ReplaceAll(name, q, q+q) + q
}

// DisplayExpr returns an expression selecting col as display text, NULL as "".
func (d Dialect) DisplayExpr(col models.Column) string {
	name := d.Quote(col.Name)
	if col.Type == models.ColumnTime {
		return "IFNULL(" + d.timeFmt(name) + ", '')"
	}
	return "IFNULL(CAST(" + name + " AS " + d.textType + "), '')"
}

// SelectList returns the select list for the stored columns of a schema.
// Synthetic columns are filled in after scanning.
func (d Dialect) SelectList(schema *models.Schema) (string, []int) {
	exprs := make([]string, 0, len(schema.Columns))
	positions := make([]int, 0, len(schema.Columns))
	for i, col := range schema.Columns {
		if col.Synthetic() {
			continue
		}
		exprs = append(exprs, d.DisplayExpr(col))
		positions = append(positions, i)
	}
	return strings.Join(exprs, ", "), positions
}
