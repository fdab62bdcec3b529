package index

import (
	"fmt"
	"strings"
)

// FieldKind is the value type of a schema field.
type FieldKind int

const (
	FieldText FieldKind = iota
	FieldI64
	FieldF64
)

// String returns a string representation of the FieldKind.
func (k FieldKind) String() string {
	switch k {
	case FieldText:
		return "text"
	case FieldI64:
		return "i64"
	case FieldF64:
		return "f64"
	default:
		return "unknown"
	}
}

// Field describes one schema field.
type Field struct {
	Name string
	Kind FieldKind

	// Stored fields are retrievable via Snapshot.Doc.
	Stored bool
	// Indexed text fields are tokenized into the inverted index.
	Indexed bool
	// Fast fields are kept as per-segment columns addressable by DocID.
	Fast bool
}

// Schema is the typed field layout of an index, including the designated
// key field that holds each document's stable external row identifier.
type Schema struct {
	fields []Field
	byName map[string]int
	key    string
}

// NewSchema builds a schema from fields and designates key as the key field.
// The key field must be declared; its kind and flags are validated at query
// compile time so that violations surface as schema-contract failures there.
func NewSchema(key string, fields ...Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema: no fields")
	}

	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema: field %d has no name", i)
		}
		if _, ok := byName[f.Name]; ok {
			return nil, fmt.Errorf("schema: duplicate field %q", f.Name)
		}
		byName[f.Name] = i
	}
	if _, ok := byName[key]; !ok {
		return nil, fmt.Errorf("schema: key field %q not declared", key)
	}

	return &Schema{fields: fields, byName: byName, key: key}, nil
}

// Fields returns the schema fields in declaration order.
func (s *Schema) Fields() []Field {
	return s.fields
}

// Field looks up a field by name.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// KeyField returns the designated key field.
func (s *Schema) KeyField() Field {
	return s.fields[s.byName[s.key]]
}

// DefaultField returns the first indexed text field, used by the query
// parser when a term names no field.
func (s *Schema) DefaultField() (Field, bool) {
	for _, f := range s.fields {
		if f.Kind == FieldText && f.Indexed {
			return f, true
		}
	}
	return Field{}, false
}

// Tokenize splits text into lowercase whitespace-separated terms. The same
// analysis is applied at indexing and query-parse time.
func Tokenize(text string) []string {
	return strings.Fields(strings.ToLower(text))
}
