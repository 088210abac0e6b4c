package search

// FieldType is a provider-neutral field type.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeDateTime FieldType = "datetime"
	FieldTypeInt32    FieldType = "int32"
	FieldTypeDouble   FieldType = "double"
)

// Field describes one index field.
type Field struct {
	Name       string
	Type       FieldType
	Key        bool
	Searchable bool
	Filterable bool
	Sortable   bool
}

// Schema is an index field list.
type Schema struct {
	Fields []Field
}

// DefaultSchema returns the fixed schema of the synthetic record index.
func DefaultSchema() *Schema {
	return &Schema{
		Fields: []Field{
			{Name: "id", Type: FieldTypeString, Key: true},
			{Name: "timestamp_day", Type: FieldTypeDateTime, Filterable: true, Sortable: true},
			{Name: "cat", Type: FieldTypeString, Searchable: true, Filterable: true, Sortable: true},
			{Name: "owner_email", Type: FieldTypeString, Searchable: true},
			{Name: "owner_firstName", Type: FieldTypeString, Searchable: true, Sortable: true},
			{Name: "owner_lastName", Type: FieldTypeString, Searchable: true, Sortable: true},
			{Name: "events_count", Type: FieldTypeInt32, Filterable: true, Sortable: true},
			{Name: "avg_weight", Type: FieldTypeDouble, Filterable: true, Sortable: true},
		},
	}
}

// KeyField returns the name of the key field, or "" if none is marked.
func (s *Schema) KeyField() string {
	for _, f := range s.Fields {
		if f.Key {
			return f.Name
		}
	}
	return ""
}

// SearchableFields returns the names of searchable fields in schema order.
func (s *Schema) SearchableFields() []string {
	return s.names(func(f Field) bool { return f.Searchable })
}

// FilterableFields returns the names of filterable fields in schema order.
func (s *Schema) FilterableFields() []string {
	return s.names(func(f Field) bool { return f.Filterable })
}

// SortableFields returns the names of sortable fields in schema order.
func (s *Schema) SortableFields() []string {
	return s.names(func(f Field) bool { return f.Sortable })
}

func (s *Schema) names(keep func(Field) bool) []string {
	var out []string
	for _, f := range s.Fields {
		if keep(f) {
			out = append(out, f.Name)
		}
	}
	return out
}
