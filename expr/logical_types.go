package expr

import (
	"time"

	"github.com/paulmach/orb"
)

// LogicalTypeID identifies the scalar types constants and accessors may carry.
// The names follow DuckDB type naming so encoded SQL and wire payloads stay
// aligned with the backing store.
type LogicalTypeID string

const (
	TypeIDInvalid   LogicalTypeID = "INVALID"
	TypeIDBoolean   LogicalTypeID = "BOOLEAN"
	TypeIDBigInt    LogicalTypeID = "BIGINT"
	TypeIDDouble    LogicalTypeID = "DOUBLE"
	TypeIDVarchar   LogicalTypeID = "VARCHAR"
	TypeIDDate      LogicalTypeID = "DATE"
	TypeIDTimestamp LogicalTypeID = "TIMESTAMP"
	TypeIDGeometry  LogicalTypeID = "GEOMETRY"
)

// LogicalType represents the logical type of a constant or accessed field.
type LogicalType struct {
	ID LogicalTypeID
}

// IsNumeric returns true if the type is a numeric type.
func (t LogicalTypeID) IsNumeric() bool {
	switch t {
	case TypeIDBigInt, TypeIDDouble:
		return true
	}
	return false
}

// IsTemporal returns true if the type is a date/time type.
func (t LogicalTypeID) IsTemporal() bool {
	switch t {
	case TypeIDDate, TypeIDTimestamp:
		return true
	}
	return false
}

// IsString returns true if the type is a string type.
func (t LogicalTypeID) IsString() bool {
	return t == TypeIDVarchar
}

// Value represents a typed constant value.
//
// Data holds the Go representation for the logical type:
//
//	BOOLEAN   bool
//	BIGINT    int64
//	DOUBLE    float64
//	VARCHAR   string
//	DATE      time.Time (midnight UTC)
//	TIMESTAMP time.Time
//	GEOMETRY  orb.Geometry
type Value struct {
	Type   LogicalType
	IsNull bool
	Data   any
}

// BoolValue creates a BOOLEAN value.
func BoolValue(b bool) Value {
	return Value{Type: LogicalType{ID: TypeIDBoolean}, Data: b}
}

// IntValue creates a BIGINT value.
func IntValue(i int64) Value {
	return Value{Type: LogicalType{ID: TypeIDBigInt}, Data: i}
}

// FloatValue creates a DOUBLE value.
func FloatValue(f float64) Value {
	return Value{Type: LogicalType{ID: TypeIDDouble}, Data: f}
}

// StringValue creates a VARCHAR value.
func StringValue(s string) Value {
	return Value{Type: LogicalType{ID: TypeIDVarchar}, Data: s}
}

// DateValue creates a DATE value, truncated to midnight UTC.
func DateValue(t time.Time) Value {
	t = t.UTC()
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return Value{Type: LogicalType{ID: TypeIDDate}, Data: t}
}

// TimestampValue creates a TIMESTAMP value in UTC.
func TimestampValue(t time.Time) Value {
	return Value{Type: LogicalType{ID: TypeIDTimestamp}, Data: t.UTC()}
}

// GeometryValue creates a GEOMETRY value.
func GeometryValue(g orb.Geometry) Value {
	return Value{Type: LogicalType{ID: TypeIDGeometry}, Data: g}
}

// NullValue creates a typed NULL value.
func NullValue(t LogicalTypeID) Value {
	return Value{Type: LogicalType{ID: t}, IsNull: true}
}
