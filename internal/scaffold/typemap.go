package scaffold

import "fmt"

// maxLength is appended to every validation rule regardless of type.
const maxLength = 255

// WidgetKind identifies the form input rendered for a field.
type WidgetKind string

// Widget kinds. Each one names a fragment in the input template.
const (
	WidgetCheckbox WidgetKind = "checkbox"
	WidgetTextarea WidgetKind = "textarea"
	WidgetDate     WidgetKind = "date"
	WidgetDateTime WidgetKind = "datetime"
	WidgetJSON     WidgetKind = "json"
	WidgetEmail    WidgetKind = "email"
	WidgetInteger  WidgetKind = "integer"
	WidgetDecimal  WidgetKind = "decimal"
	WidgetCurrency WidgetKind = "currency"
	WidgetFile     WidgetKind = "file"
	WidgetFiles    WidgetKind = "files"
	WidgetSelect   WidgetKind = "select"
	WidgetText     WidgetKind = "text"
)

// IsIntegerFamily reports whether t is stored as a whole number.
func (t LogicalType) IsIntegerFamily() bool {
	return t == TypeInteger || t == TypeBigInteger
}

// IsFloatFamily reports whether t is stored as a fractional number.
// Currency belongs here.
func (t LogicalType) IsFloatFamily() bool {
	switch t {
	case TypeFloat, TypeDouble, TypeDecimal, TypeMoeda:
		return true
	}
	return false
}

// IsDateFamily reports whether t holds a date or a point in time.
func (t LogicalType) IsDateFamily() bool {
	switch t {
	case TypeDate, TypeDateTime, TypeTimestamp:
		return true
	}
	return false
}

// ColumnType maps a logical type onto the schema builder column method.
func ColumnType(t LogicalType) string {
	switch t {
	case TypeEmail:
		return "string"
	case TypeMoeda:
		return "float"
	case TypeFile:
		return "string"
	case TypeFiles:
		return "json"
	default:
		return string(t)
	}
}

// ColumnDefinition renders the migration statement for a field.
// Foreign keys become a constrained reference with cascading delete.
func ColumnDefinition(f Field) string {
	if f.IsForeignKey {
		return fmt.Sprintf("$table->foreignId('%s')\n                ->constrained('%s')\n                ->cascadeOnDelete();",
			f.Name, f.RelatedTable())
	}
	return fmt.Sprintf("$table->%s('%s');", ColumnType(f.Type), f.Name)
}

// ValidationType maps a logical type onto its Laravel validation rule.
func ValidationType(t LogicalType) string {
	switch {
	case t.IsIntegerFamily():
		return "integer"
	case t.IsFloatFamily():
		return "numeric"
	case t == TypeEmail:
		return "email"
	case t.IsDateFamily():
		return "date"
	case t == TypeBoolean:
		return "boolean"
	case t == TypeJSON:
		return "json"
	case t == TypeFile:
		return "file"
	case t == TypeFiles:
		return "array"
	default:
		return "string"
	}
}

// ValidationRule returns the full pipe-separated rule for a field.
func ValidationRule(t LogicalType) string {
	return fmt.Sprintf("required|%s|max:%d", ValidationType(t), maxLength)
}

// CastType maps a logical type onto an Eloquent cast. ok is false for
// types left uncast.
func CastType(t LogicalType) (cast string, ok bool) {
	switch {
	case t == TypeFiles:
		return "array", true
	case t.IsFloatFamily():
		return "float", true
	case t.IsDateFamily():
		return "date", true
	default:
		return "", false
	}
}

// Widget maps a field onto its form input kind. Foreign keys always get a
// select, whatever their declared type.
func Widget(f Field) WidgetKind {
	if f.IsForeignKey {
		return WidgetSelect
	}
	switch f.Type {
	case TypeBoolean:
		return WidgetCheckbox
	case TypeText:
		return WidgetTextarea
	case TypeDate:
		return WidgetDate
	case TypeDateTime, TypeTimestamp:
		return WidgetDateTime
	case TypeJSON:
		return WidgetJSON
	case TypeEmail:
		return WidgetEmail
	case TypeInteger, TypeBigInteger:
		return WidgetInteger
	case TypeFloat, TypeDouble, TypeDecimal:
		return WidgetDecimal
	case TypeMoeda:
		return WidgetCurrency
	case TypeFile:
		return WidgetFile
	case TypeFiles:
		return WidgetFiles
	default:
		return WidgetText
	}
}

// PropType maps a logical type onto the TypeScript prop type used by views.
func PropType(t LogicalType) string {
	switch {
	case t == TypeBoolean:
		return "boolean"
	case t.IsIntegerFamily(), t.IsFloatFamily():
		return "number"
	default:
		return "string"
	}
}

// ZeroValue is the form default used when a record has no value.
func ZeroValue(t LogicalType) string {
	switch {
	case t == TypeBoolean:
		return "false"
	case t.IsIntegerFamily(), t.IsFloatFamily():
		return "0"
	default:
		return "''"
	}
}
