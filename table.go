package querykit

import (
	"fmt"

	"github.com/hugr-lab/querykit-go/expr"
)

// Table maps entity member paths to SQL columns of a base table and its
// joined relations. Build with NewTableBuilder; a zero Table is not usable.
type Table struct {
	// Name is the base table name (e.g., "orders").
	Name string

	// Alias qualifies base table columns in generated SQL (e.g., "o").
	Alias string

	// Columns maps member paths to qualified column references
	// (e.g., "customer.first_name" -> "c.first_name").
	Columns map[string]string

	// Expressions maps member paths to computed SQL expressions.
	// Takes precedence over Columns for the same path.
	Expressions map[string]string

	// Relations maps member path roots to join definitions.
	Relations map[string]Relation
}

// Relation defines a joined table reachable through a member path root.
type Relation struct {
	// Table is the joined table name (e.g., "customers").
	Table string

	// Alias qualifies the relation's columns in generated SQL (e.g., "c").
	Alias string

	// On is the join condition (e.g., "o.customer_id = c.id").
	On string
}

// encoderOptions converts the table mapping into encoder column options.
func (t Table) encoderOptions() *expr.EncoderOptions {
	return &expr.EncoderOptions{
		ColumnMapping:     t.Columns,
		ColumnExpressions: t.Expressions,
	}
}

// TableBuilder builds table mappings using fluent API.
// Not thread-safe - use only during initialization.
type TableBuilder struct {
	name        string
	alias       string
	columns     []columnDef
	expressions []columnDef
	relations   []*relationBuilder
	built       bool
}

// columnDef pairs a member path field with its SQL column or expression.
type columnDef struct {
	field string
	sql   string
}

// NewTableBuilder creates a new fluent table builder for the given base
// table name and SQL alias.
//
// Example:
//
//	table, err := querykit.NewTableBuilder("orders", "o").
//	    Column("product_name", "product_name").
//	    Column("created_at", "created_at").
//	    Relation("customer", "customers", "c", "o.customer_id = c.id").
//	        Column("first_name", "first_name").
//	        Column("last_name", "last_name").
//	    Build()
func NewTableBuilder(name, alias string) *TableBuilder {
	return &TableBuilder{
		name:  name,
		alias: alias,
	}
}

// Column declares a base table column addressable by the given member path
// field. Returns self for method chaining.
func (tb *TableBuilder) Column(field, column string) *TableBuilder {
	tb.columns = append(tb.columns, columnDef{field: field, sql: column})
	return tb
}

// Expression declares a computed column addressable by the given member path
// field. The SQL expression is emitted verbatim wherever the field is
// referenced. Returns self for method chaining.
//
// Example:
//
//	builder.Expression("full_name", "CONCAT(o.first_name, ' ', o.last_name)")
func (tb *TableBuilder) Expression(field, sqlExpr string) *TableBuilder {
	tb.expressions = append(tb.expressions, columnDef{field: field, sql: sqlExpr})
	return tb
}

// Relation starts defining a joined relation reachable through the given
// member path root. Returns RelationBuilder for declaring the relation's
// columns.
//
// Example:
//
//	builder.Relation("customer", "customers", "c", "o.customer_id = c.id").
//	    Column("first_name", "first_name")
func (tb *TableBuilder) Relation(name, table, alias, on string) *RelationBuilder {
	rb := &relationBuilder{
		name:         name,
		table:        table,
		alias:        alias,
		on:           on,
		tableBuilder: tb,
	}
	tb.relations = append(tb.relations, rb)
	return &RelationBuilder{builder: rb}
}

// Build finalizes the mapping and returns an immutable Table.
// Can only be called once. Returns error if the mapping is invalid
// (e.g., duplicate member paths or relation aliases).
func (tb *TableBuilder) Build() (Table, error) {
	if tb.built {
		return Table{}, fmt.Errorf("table already built")
	}
	if tb.name == "" {
		return Table{}, fmt.Errorf("table name cannot be empty")
	}
	if tb.alias == "" {
		return Table{}, fmt.Errorf("table alias cannot be empty")
	}

	columns := make(map[string]string)
	expressions := make(map[string]string)
	relations := make(map[string]Relation)

	addColumn := func(path, sql string) error {
		if path == "" {
			return fmt.Errorf("column member path cannot be empty in table %s", tb.name)
		}
		if _, ok := columns[path]; ok {
			return fmt.Errorf("duplicate member path: %s", path)
		}
		columns[path] = sql
		return nil
	}

	for _, col := range tb.columns {
		if col.sql == "" {
			return Table{}, fmt.Errorf("column %s has empty column name", col.field)
		}
		if err := addColumn(col.field, tb.alias+"."+col.sql); err != nil {
			return Table{}, err
		}
	}
	for _, ex := range tb.expressions {
		if ex.field == "" {
			return Table{}, fmt.Errorf("expression member path cannot be empty in table %s", tb.name)
		}
		if ex.sql == "" {
			return Table{}, fmt.Errorf("expression %s is empty", ex.field)
		}
		expressions[ex.field] = ex.sql
	}

	seenAliases := map[string]bool{tb.alias: true}
	for _, rb := range tb.relations {
		if rb.name == "" {
			return Table{}, fmt.Errorf("relation name cannot be empty in table %s", tb.name)
		}
		if _, ok := relations[rb.name]; ok {
			return Table{}, fmt.Errorf("duplicate relation name: %s", rb.name)
		}
		if rb.table == "" {
			return Table{}, fmt.Errorf("relation %s has empty table name", rb.name)
		}
		if rb.alias == "" {
			return Table{}, fmt.Errorf("relation %s has empty alias", rb.name)
		}
		if seenAliases[rb.alias] {
			return Table{}, fmt.Errorf("duplicate alias: %s", rb.alias)
		}
		seenAliases[rb.alias] = true
		if rb.on == "" {
			return Table{}, fmt.Errorf("relation %s has empty join condition", rb.name)
		}

		relations[rb.name] = Relation{Table: rb.table, Alias: rb.alias, On: rb.on}

		for _, col := range rb.columns {
			if col.sql == "" {
				return Table{}, fmt.Errorf("column %s has empty column name in relation %s", col.field, rb.name)
			}
			if err := addColumn(rb.name+"."+col.field, rb.alias+"."+col.sql); err != nil {
				return Table{}, err
			}
		}
		for _, ex := range rb.expressions {
			if ex.field == "" {
				return Table{}, fmt.Errorf("expression member path cannot be empty in relation %s", rb.name)
			}
			if ex.sql == "" {
				return Table{}, fmt.Errorf("expression %s is empty in relation %s", ex.field, rb.name)
			}
			expressions[rb.name+"."+ex.field] = ex.sql
		}
	}

	tb.built = true

	return Table{
		Name:        tb.name,
		Alias:       tb.alias,
		Columns:     columns,
		Expressions: expressions,
		Relations:   relations,
	}, nil
}

// RelationBuilder builds a joined relation within a table mapping.
// Not thread-safe - use only during initialization.
type RelationBuilder struct {
	builder *relationBuilder
}

// relationBuilder is the internal relation builder implementation.
type relationBuilder struct {
	name         string
	table        string
	alias        string
	on           string
	columns      []columnDef
	expressions  []columnDef
	tableBuilder *TableBuilder
}

// Column declares a relation column addressable as "<relation>.<field>".
// Returns self for method chaining.
func (rb *RelationBuilder) Column(field, column string) *RelationBuilder {
	rb.builder.columns = append(rb.builder.columns, columnDef{field: field, sql: column})
	return rb
}

// Expression declares a computed relation column addressable as
// "<relation>.<field>". Returns self for method chaining.
func (rb *RelationBuilder) Expression(field, sqlExpr string) *RelationBuilder {
	rb.builder.expressions = append(rb.builder.expressions, columnDef{field: field, sql: sqlExpr})
	return rb
}

// Relation starts a new relation definition (returns to TableBuilder).
// Allows chaining: Relation("a", ...).Column(...).Relation("b", ...)
func (rb *RelationBuilder) Relation(name, table, alias, on string) *RelationBuilder {
	return rb.builder.tableBuilder.Relation(name, table, alias, on)
}

// Build finalizes the table mapping (returns to TableBuilder).
// Same as calling tableBuilder.Build().
func (rb *RelationBuilder) Build() (Table, error) {
	return rb.builder.tableBuilder.Build()
}
