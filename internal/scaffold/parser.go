package scaffold

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

var (
	// ErrInvalidFieldFormat is returned when a field is not a name:label:type triple.
	ErrInvalidFieldFormat = errors.New("invalid field format")

	// ErrInvalidModelName is returned when the model argument has no name.
	ErrInvalidModelName = errors.New("invalid model name")
)

// validTypes lists the accepted type keywords in the order they are reported.
var validTypes = []string{
	"string", "text", "integer", "biginteger", "float", "double",
	"decimal", "boolean", "date", "datetime", "timestamp", "json", "email", "moeda", "file", "files",
}

// ValidTypes returns the accepted type keywords.
func ValidTypes() []string {
	out := make([]string, len(validTypes))
	copy(out, validTypes)
	return out
}

// ParseFields parses name:label:type triples into fields.
// A malformed triple aborts parsing with ErrInvalidFieldFormat. An unknown
// type only drops that field; the returned warnings say why.
func ParseFields(args []string) ([]Field, []string, error) {
	var (
		fields   []Field
		warnings []string
	)
	seen := make(map[string]bool)

	for _, arg := range args {
		field, unknownType, err := parseField(arg)
		if err != nil {
			return nil, warnings, err
		}
		if unknownType != "" {
			warnings = append(warnings, fmt.Sprintf("type '%s' is not valid, skipping field '%s'. Supported types: %s",
				unknownType, field.Name, strings.Join(validTypes, ", ")))
			continue
		}
		if seen[field.Name] {
			warnings = append(warnings, fmt.Sprintf("field '%s' is declared more than once", field.Name))
		}
		seen[field.Name] = true
		fields = append(fields, field)
	}

	return fields, warnings, nil
}

// parseField parses a single triple. When the type is not recognised it
// returns the raw type and a field carrying only its name.
func parseField(arg string) (Field, string, error) {
	parts := strings.Split(arg, ":")
	if len(parts) != 3 {
		return Field{}, "", fmt.Errorf("%w: %s. Expected format is 'name:label:type'", ErrInvalidFieldFormat, arg)
	}

	name := strings.TrimSpace(parts[0])
	if name == "" {
		return Field{}, "", fmt.Errorf("%w: %s. Field name is empty", ErrInvalidFieldFormat, arg)
	}

	rawType := trimQuotes(parts[2])
	fieldType, ok := ResolveType(rawType)
	if !ok {
		if rawType == "" {
			rawType = `""`
		}
		return Field{Name: name}, rawType, nil
	}

	isForeign := strings.HasPrefix(name, ForeignKeyPrefix)
	if isForeign && strings.TrimPrefix(name, ForeignKeyPrefix) == "" {
		return Field{}, "", fmt.Errorf("%w: %s. Foreign key '%s' does not name a related model", ErrInvalidFieldFormat, arg, name)
	}
	return Field{
		Name:         name,
		Label:        trimQuotes(parts[1]),
		Type:         fieldType,
		IsForeignKey: isForeign,
		RelatedModel: relatedModelName(name, isForeign),
	}, "", nil
}

// ResolveType maps a type keyword (any case) onto its canonical logical type.
func ResolveType(raw string) (LogicalType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "string":
		return TypeString, true
	case "text":
		return TypeText, true
	case "integer":
		return TypeInteger, true
	case "biginteger":
		return TypeBigInteger, true
	case "float":
		return TypeFloat, true
	case "double":
		return TypeDouble, true
	case "decimal":
		return TypeDecimal, true
	case "boolean":
		return TypeBoolean, true
	case "date":
		return TypeDate, true
	case "datetime":
		return TypeDateTime, true
	case "timestamp":
		return TypeTimestamp, true
	case "json":
		return TypeJSON, true
	case "email":
		return TypeEmail, true
	case "moeda":
		return TypeMoeda, true
	case "file":
		return TypeFile, true
	case "files":
		return TypeFiles, true
	default:
		return "", false
	}
}

// relatedModelName derives "FormaPagamento" from "id_forma_pagamento" and
// "TipoNF" from "id_tipo_NF".
func relatedModelName(name string, isForeign bool) string {
	if !isForeign {
		return ""
	}
	return ToStudlyCase(strings.TrimPrefix(name, ForeignKeyPrefix))
}

// ParseModelArg splits `Name` or `Name:"Display Title"`.
func ParseModelArg(arg string) (name, title string, err error) {
	parts := strings.SplitN(arg, ":", 2)
	name = strings.TrimSpace(parts[0])
	if name == "" {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidModelName, arg)
	}

	title = name
	if len(parts) > 1 {
		if t := trimQuotes(parts[1]); t != "" {
			title = t
		}
	}
	return name, title, nil
}

// BuildNamingContext derives every naming variant from the model argument.
func BuildNamingContext(modelArg string) (NamingContext, error) {
	name, title, err := ParseModelArg(modelArg)
	if err != nil {
		return NamingContext{}, err
	}
	return NewNamingContext(name, title), nil
}

// NewNamingContext builds the naming variants for a model and display title.
func NewNamingContext(model, title string) NamingContext {
	if title == "" {
		title = model
	}
	pluralTitle := Pluralize(title)

	return NamingContext{
		Model:            model,
		ModelTitle:       title,
		Controller:       model + "Controller",
		ViewFolder:       capitalize(model),
		RoutePrefix:      strings.ToLower(model),
		ModelLower:       strings.ToLower(model),
		ModelPluralTitle: pluralTitle,
		ModelPluralLower: strings.ToLower(pluralTitle),
		Table:            strings.ToLower(Pluralize(model)),
	}
}

// RelatedTable returns the table a foreign key field points at.
func (f Field) RelatedTable() string {
	if !f.IsForeignKey {
		return ""
	}
	return strings.ToLower(Pluralize(f.RelatedModel))
}

// trimQuotes strips surrounding single and double quotes.
func trimQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `'"`)
}

// Name transformation helpers

// ToPascalCase converts a string to PascalCase.
func ToPascalCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = capitalize(strings.ToLower(word))
	}
	return strings.Join(words, "")
}

// ToStudlyCase joins the words of a string with their first letter
// uppercased. Unlike ToPascalCase the rest of each word keeps its case, so
// acronyms such as "CPF" survive.
func ToStudlyCase(s string) string {
	words := splitWords(s)
	for i, word := range words {
		words[i] = capitalize(word)
	}
	return strings.Join(words, "")
}

// capitalize returns the string with the first letter uppercased.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// ToCamelCase converts a string to camelCase.
func ToCamelCase(s string) string {
	pascal := ToPascalCase(s)
	if len(pascal) == 0 {
		return pascal
	}
	return strings.ToLower(pascal[:1]) + pascal[1:]
}

// splitWords splits a string into words (handles camelCase, PascalCase, snake_case, kebab-case).
func splitWords(s string) []string {
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")

	// Insert space before uppercase letters in camelCase/PascalCase
	var result strings.Builder
	var prev rune
	for i, r := range s {
		if i > 0 && unicode.IsUpper(r) && !unicode.IsSpace(prev) && !unicode.IsUpper(prev) {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
		prev = r
	}

	return strings.Fields(result.String())
}

// Pluralize returns the English plural of a word, like Laravel's Str::plural.
func Pluralize(s string) string {
	if s == "" {
		return s
	}
	return inflection.Plural(s)
}
