package querykit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"github.com/hugr-lab/querykit-go/expr"
)

// Source is a lazy query handle over a mapped table. Filter and include
// stages accumulate without touching the database; execution happens only
// when Collect or CollectArrow is called.
//
// Source values are immutable: every stage returns a new handle, so a
// partially filtered Source can be shared and branched safely. Composition
// errors stick to the handle and surface from Err, SQL, and Collect.
type Source struct {
	db      *sql.DB
	table   Table
	logger  *slog.Logger
	encoder *expr.DuckDBEncoder

	filters  []expr.Predicate
	includes []string
	err      error
}

// NewSource creates a query source over the configured table.
//
// The function:
//  1. Validates the Config
//  2. Resolves the logger (Logger, then LogLevel, then slog.Default())
//  3. Prepares the SQL encoder from the table mapping
//
// Returns error if config is invalid (e.g., nil DB).
func NewSource(config Config) (*Source, error) {
	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	logger := config.Logger
	if logger == nil {
		if config.LogLevel != nil {
			logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: *config.LogLevel,
			}))
		} else {
			logger = slog.Default()
		}
	}

	s := &Source{
		db:      config.DB,
		table:   config.Table,
		logger:  logger,
		encoder: expr.NewDuckDBEncoder(config.Table.encoderOptions()),
	}

	logger.Debug("query source created",
		"table", config.Table.Name,
		"columns", len(config.Table.Columns),
		"relations", len(config.Table.Relations),
	)

	return s, nil
}

// validateConfig checks that required Config fields are valid.
func validateConfig(config Config) error {
	if config.DB == nil {
		return fmt.Errorf("db is required")
	}
	if config.Table.Name == "" {
		return fmt.Errorf("table is required")
	}
	if config.Table.Alias == "" {
		return fmt.Errorf("table alias is required")
	}
	return nil
}

// clone returns a copy with independent stage slices.
func (s *Source) clone() *Source {
	c := *s
	c.filters = append([]expr.Predicate(nil), s.filters...)
	c.includes = append([]string(nil), s.includes...)
	return &c
}

// fail returns a copy carrying the first recorded error.
func (s *Source) fail(err error) *Source {
	c := s.clone()
	if c.err == nil {
		c.err = err
	}
	return c
}

// Where adds a predicate stage. Multiple stages combine with AND.
func (s *Source) Where(p expr.Predicate) *Source {
	c := s.clone()
	if c.err != nil {
		return c
	}
	c.filters = append(c.filters, p)
	return c
}

// Include forces eager loading of a declared relation's columns.
// Relations referenced by filters are joined automatically; Include is only
// needed to get the relation's columns into the result set.
func (s *Source) Include(relation string) *Source {
	if s.err != nil {
		return s.clone()
	}
	if _, ok := s.table.Relations[relation]; !ok {
		return s.fail(fmt.Errorf("%w: %s", ErrUnknownRelation, relation))
	}
	c := s.clone()
	for _, name := range c.includes {
		if name == relation {
			return c
		}
	}
	c.includes = append(c.includes, relation)
	return c
}

// Err returns the first composition error recorded on this handle, if any.
func (s *Source) Err() error {
	return s.err
}

// SQL assembles the SELECT statement for the accumulated stages without
// executing it. Returns ErrUnsupportedFilter if a filter has no SQL form
// under the table mapping.
func (s *Source) SQL() (string, error) {
	if s.err != nil {
		return "", s.err
	}

	where := ""
	if len(s.filters) > 0 {
		where = s.encoder.EncodePredicates(s.filters)
		if where == "" {
			return "", ErrUnsupportedFilter
		}
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(s.table.Alias)
	b.WriteString(".*")
	for _, name := range s.includes {
		b.WriteString(", ")
		b.WriteString(s.table.Relations[name].Alias)
		b.WriteString(".*")
	}

	b.WriteString(" FROM ")
	b.WriteString(s.table.Name)
	b.WriteString(" AS ")
	b.WriteString(s.table.Alias)

	for _, name := range s.joinedRelations() {
		rel := s.table.Relations[name]
		b.WriteString(" LEFT JOIN ")
		b.WriteString(rel.Table)
		b.WriteString(" AS ")
		b.WriteString(rel.Alias)
		b.WriteString(" ON ")
		b.WriteString(rel.On)
	}

	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}

	return b.String(), nil
}

// joinedRelations returns the relations to join: explicit includes in
// declaration order, then filter-referenced relations in sorted order.
func (s *Source) joinedRelations() []string {
	joined := make([]string, 0, len(s.includes))
	seen := make(map[string]bool, len(s.includes))
	for _, name := range s.includes {
		joined = append(joined, name)
		seen[name] = true
	}

	referenced := make(map[string]bool)
	for _, p := range s.filters {
		collectMemberRoots(p.Body, referenced)
	}
	roots := make([]string, 0, len(referenced))
	for name := range referenced {
		if _, ok := s.table.Relations[name]; ok && !seen[name] {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)

	return append(joined, roots...)
}

// collectMemberRoots records the first member segment of every nested member
// chain rooted at a placeholder. Single-segment paths address base table
// columns and are skipped.
func collectMemberRoots(e expr.Expression, roots map[string]bool) {
	switch ex := e.(type) {
	case *expr.MemberExpression:
		var fields []string
		cur := expr.Expression(ex)
		for {
			m, ok := cur.(*expr.MemberExpression)
			if !ok {
				break
			}
			fields = append(fields, m.Field)
			cur = m.Object
		}
		if _, ok := cur.(*expr.ParameterExpression); ok && len(fields) > 1 {
			roots[fields[len(fields)-1]] = true
		}
	case *expr.ComparisonExpression:
		collectMemberRoots(ex.Left, roots)
		collectMemberRoots(ex.Right, roots)
	case *expr.ConjunctionExpression:
		for _, child := range ex.Children {
			collectMemberRoots(child, roots)
		}
	case *expr.FunctionExpression:
		for _, child := range ex.Children {
			collectMemberRoots(child, roots)
		}
	}
}

// Collect executes the query and materializes all rows as column-keyed maps.
func (s *Source) Collect(ctx context.Context) ([]map[string]any, error) {
	query, err := s.SQL()
	if err != nil {
		return nil, err
	}
	s.logger.Debug("executing query", "sql", query)

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		row := make(map[string]any, len(columns))
		for i, col := range columns {
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return out, nil
}
