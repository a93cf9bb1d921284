// Package models defines the task record sets shown by taskdeck.
package models

import (
	"errors"
	"fmt"
)

// Schema lookup errors.
var (
	ErrUnknownTable  = errors.New("unknown table")
	ErrUnknownColumn = errors.New("unknown column")
)

// Kind identifies one of the two task record sets.
type Kind int

const (
	// KindPrimary is the market-making volume task set (mm_volume_task).
	KindPrimary Kind = iota
	// KindSecondary is the dex volume task set (dex_volume_task).
	KindSecondary
)

// Kinds lists every dataset kind in display order.
var Kinds = []Kind{KindPrimary, KindSecondary}

func (k Kind) String() string {
	switch k {
	case KindPrimary:
		return "primary"
	case KindSecondary:
		return "secondary"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Other returns the kind that is not k.
func (k Kind) Other() Kind {
	if k == KindPrimary {
		return KindSecondary
	}
	return KindPrimary
}

// ColumnType tells the store how to render a column as display text.
type ColumnType int

const (
	ColumnText ColumnType = iota
	ColumnNumber
	ColumnTime
	// ColumnAction is a synthetic column whose value is its own name.
	ColumnAction
)

// Column describes one field of a record.
type Column struct {
	Name  string
	Title string
	Type  ColumnType
	Rule  Rule
}

// Synthetic reports whether the column has no backing storage.
func (c Column) Synthetic() bool {
	return c.Type == ColumnAction
}

// Record is one row of display text, aligned to its schema's columns.
// Field 0 is always the identifier.
type Record []string

// ID returns the record identifier.
func (r Record) ID() string {
	if len(r) == 0 {
		return ""
	}
	return r[0]
}

// Field returns the value at index i, or "" when out of range.
func (r Record) Field(i int) string {
	if i < 0 || i >= len(r) {
		return ""
	}
	return r[i]
}

// Clone returns a copy of the record.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	copy(out, r)
	return out
}

// CloneRecords deep-copies a row slice.
func CloneRecords(rows []Record) []Record {
	if rows == nil {
		return nil
	}
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = row.Clone()
	}
	return out
}

// Schema describes the table behind a dataset kind.
type Schema struct {
	Kind         Kind
	Table        string
	KeyColumn    string
	SearchColumn string
	Columns      []Column

	index map[string]int
}

func newSchema(kind Kind, table string, columns []Column) *Schema {
	s := &Schema{
		Kind:         kind,
		Table:        table,
		KeyColumn:    "id",
		SearchColumn: "token_add",
		Columns:      columns,
		index:        make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if col.Title == "" {
			s.Columns[i].Title = col.Name
		}
		s.index[col.Name] = i
	}
	return s
}

// ColumnCount returns the number of columns.
func (s *Schema) ColumnCount() int {
	return len(s.Columns)
}

// Column returns the column at index i.
func (s *Schema) Column(i int) (Column, bool) {
	if i < 0 || i >= len(s.Columns) {
		return Column{}, false
	}
	return s.Columns[i], true
}

// Index returns the position of the named column.
func (s *Schema) Index(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// Rule returns the validation rule of the named column.
func (s *Schema) Rule(name string) (Rule, error) {
	i, ok := s.index[name]
	if !ok {
		return RuleImmutable, fmt.Errorf("%w: %s.%s", ErrUnknownColumn, s.Table, name)
	}
	return s.Columns[i].Rule, nil
}

// StoredColumn checks that name is a real (non-synthetic) column of the table.
func (s *Schema) StoredColumn(name string) error {
	i, ok := s.index[name]
	if !ok || s.Columns[i].Synthetic() {
		return fmt.Errorf("%w: %s.%s", ErrUnknownColumn, s.Table, name)
	}
	return nil
}

// CopyColumns lists the columns duplicated when a row is copied.
func (s *Schema) CopyColumns() []string {
	out := make([]string, 0, len(s.Columns))
	for _, col := range s.Columns {
		if col.Synthetic() || col.Type == ColumnTime || col.Name == s.KeyColumn {
			continue
		}
		out = append(out, col.Name)
	}
	return out
}

// Validate checks the schema for structural mistakes.
func (s *Schema) Validate() error {
	v := &ValidationErrors{}
	if s.Table == "" {
		v.AddMessage("table", "table name is required")
	}
	if len(s.Columns) == 0 {
		v.AddMessage("columns", "at least one column is required")
		return v.Err()
	}
	if s.Columns[0].Name != s.KeyColumn {
		v.AddMessage("columns", fmt.Sprintf("first column must be the key column %q", s.KeyColumn))
	}
	if s.Columns[0].Rule != RuleImmutable {
		v.AddMessage(s.KeyColumn, "key column must be immutable")
	}
	if len(s.index) != len(s.Columns) {
		v.AddMessage("columns", "column names must be unique")
	}
	if i, ok := s.index[s.SearchColumn]; !ok || s.Columns[i].Synthetic() {
		v.AddMessage("search_column", fmt.Sprintf("%q is not a stored column", s.SearchColumn))
	}
	for _, col := range s.Columns {
		if col.Synthetic() != col.Rule.IsAction() {
			v.AddMessage(col.Name, "action rules and action columns must match")
		}
	}
	return v.Err()
}

var primarySchema = newSchema(KindPrimary, "mm_volume_task", []Column{
	{Name: "id", Type: ColumnNumber, Rule: RuleImmutable},
	{Name: "launch_id", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "token_add", Type: ColumnText, Rule: RuleFreeText},
	{Name: "target_volume", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "do_status", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "use_wallet_type", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "remark", Type: ColumnText, Rule: RuleFreeText},
	{Name: "buy_rate", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "buy_per_low", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "buy_per_high", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "sell_percent", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "frequent_low", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "frequent_high", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "real_sol", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "create_time", Type: ColumnTime, Rule: RuleImmutable},
	{Name: "update_time", Type: ColumnTime, Rule: RuleImmutable},
})

var secondarySchema = newSchema(KindSecondary, "dex_volume_task", []Column{
	{Name: "id", Type: ColumnNumber, Rule: RuleImmutable},
	{Name: "pool_id", Type: ColumnText, Rule: RuleFreeText},
	{Name: "token_add", Type: ColumnText, Rule: RuleFreeText},
	{Name: "mm_type", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "remark", Type: ColumnText, Rule: RuleFreeText},
	{Name: "target_price", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "stop_price_per", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "do_status", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "buy_rate", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "buy_per_low", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "buy_per_high", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "sell_percent", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "frequent_low", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "frequent_high", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "bsdiff", Type: ColumnNumber, Rule: RuleNumericOnly},
	{Name: "create_time", Type: ColumnTime, Rule: RuleImmutable},
	{Name: "update_time", Type: ColumnTime, Rule: RuleImmutable},
	{Name: "copy", Type: ColumnAction, Rule: RuleActionCopy},
	{Name: "del", Type: ColumnAction, Rule: RuleActionDelete},
})

// SchemaFor returns the schema of a dataset kind.
func SchemaFor(kind Kind) *Schema {
	if kind == KindSecondary {
		return secondarySchema
	}
	return primarySchema
}

// SchemaForTable returns the schema backed by the named table.
func SchemaForTable(table string) (*Schema, error) {
	for _, kind := range Kinds {
		if s := SchemaFor(kind); s.Table == table {
			return s, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
}

// ValidateSchemas checks every built-in schema, prefixing failures with the table name.
func ValidateSchemas() error {
	v := &ValidationErrors{}
	for _, kind := range Kinds {
		schema := SchemaFor(kind)
		v.Add(schema.Table, schema.Validate())
	}
	return v.Err()
}
