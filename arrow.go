package querykit

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// CollectArrow executes the query and materializes all rows as a single
// Arrow record batch. The schema is inferred from the driver's column types.
// Release the returned batch when done.
func (s *Source) CollectArrow(ctx context.Context, alloc memory.Allocator) (arrow.RecordBatch, error) {
	if alloc == nil {
		alloc = memory.DefaultAllocator
	}

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

	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("failed to read column types: %w", err)
	}

	fields := make([]arrow.Field, len(columnTypes))
	for i, ct := range columnTypes {
		fields[i] = arrow.Field{
			Name:     ct.Name(),
			Type:     arrowType(ct),
			Nullable: true,
		}
	}
	schema := arrow.NewSchema(fields, nil)

	builder := array.NewRecordBuilder(alloc, schema)
	defer builder.Release()

	for rows.Next() {
		values := make([]any, len(columnTypes))
		ptrs := make([]any, len(columnTypes))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		for i, v := range values {
			if err := appendValue(builder.Field(i), v); err != nil {
				return nil, fmt.Errorf("column %s: %w", columnTypes[i].Name(), err)
			}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return builder.NewRecordBatch(), nil
}

// arrowType maps a driver column type to an Arrow data type.
// Unknown database types fall back to strings.
func arrowType(ct *sql.ColumnType) arrow.DataType {
	switch strings.ToUpper(ct.DatabaseTypeName()) {
	case "BOOLEAN":
		return arrow.FixedWidthTypes.Boolean
	case "TINYINT", "SMALLINT", "INTEGER", "BIGINT":
		return arrow.PrimitiveTypes.Int64
	case "FLOAT", "DOUBLE", "DECIMAL":
		return arrow.PrimitiveTypes.Float64
	case "DATE":
		return arrow.FixedWidthTypes.Date32
	case "TIMESTAMP", "TIMESTAMPTZ":
		return arrow.FixedWidthTypes.Timestamp_us
	default:
		return arrow.BinaryTypes.String
	}
}

// appendValue appends a scanned value to the matching Arrow builder.
func appendValue(b array.Builder, v any) error {
	if v == nil {
		b.AppendNull()
		return nil
	}

	switch fb := b.(type) {
	case *array.BooleanBuilder:
		x, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		fb.Append(x)

	case *array.Int64Builder:
		switch x := v.(type) {
		case int64:
			fb.Append(x)
		case int32:
			fb.Append(int64(x))
		case int16:
			fb.Append(int64(x))
		case int8:
			fb.Append(int64(x))
		case int:
			fb.Append(int64(x))
		default:
			return fmt.Errorf("expected integer, got %T", v)
		}

	case *array.Float64Builder:
		switch x := v.(type) {
		case float64:
			fb.Append(x)
		case float32:
			fb.Append(float64(x))
		default:
			return fmt.Errorf("expected float, got %T", v)
		}

	case *array.StringBuilder:
		switch x := v.(type) {
		case string:
			fb.Append(x)
		case []byte:
			fb.Append(string(x))
		default:
			fb.Append(fmt.Sprint(x))
		}

	case *array.Date32Builder:
		x, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("expected time.Time, got %T", v)
		}
		fb.Append(arrow.Date32FromTime(x))

	case *array.TimestampBuilder:
		x, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("expected time.Time, got %T", v)
		}
		fb.Append(arrow.Timestamp(x.UTC().UnixMicro()))

	default:
		return fmt.Errorf("unsupported builder type %T", b)
	}

	return nil
}
