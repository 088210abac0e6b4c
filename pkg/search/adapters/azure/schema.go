package azure

import (
	"fmt"

	"github.com/hashicorp-forge/searchsync/pkg/models"
	"github.com/hashicorp-forge/searchsync/pkg/search"
)

// Entity Data Model type names used by Azure AI Search.
var edmTypes = map[search.FieldType]string{
	search.FieldTypeString:   "Edm.String",
	search.FieldTypeDateTime: "Edm.DateTimeOffset",
	search.FieldTypeInt32:    "Edm.Int32",
	search.FieldTypeDouble:   "Edm.Double",
}

type indexDefinition struct {
	Name   string            `json:"name"`
	Fields []fieldDefinition `json:"fields"`
}

// fieldDefinition only carries the attributes the schema enables. Anything
// omitted takes the service default, except that the key field is explicitly
// not searchable.
type fieldDefinition struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	Key        *bool  `json:"key,omitempty"`
	Searchable *bool  `json:"searchable,omitempty"`
	Filterable *bool  `json:"filterable,omitempty"`
	Sortable   *bool  `json:"sortable,omitempty"`
}

type indexBatchRequest struct {
	Value []*models.Record `json:"value"`
}

type indexBatchResponse struct {
	Value []indexingResult `json:"value"`
}

type indexingResult struct {
	Key          string  `json:"key"`
	Status       bool    `json:"status"`
	ErrorMessage *string `json:"errorMessage"`
	StatusCode   int     `json:"statusCode"`
}

func newIndexDefinition(name string, schema *search.Schema) (*indexDefinition, error) {
	if schema == nil {
		schema = search.DefaultSchema()
	}

	def := &indexDefinition{
		Name:   name,
		Fields: make([]fieldDefinition, 0, len(schema.Fields)),
	}

	for _, f := range schema.Fields {
		edm, ok := edmTypes[f.Type]
		if !ok {
			return nil, fmt.Errorf("unsupported field type %q for field %q", f.Type, f.Name)
		}

		fd := fieldDefinition{
			Name:       f.Name,
			Type:       edm,
			Key:        trueOrNil(f.Key),
			Searchable: trueOrNil(f.Searchable),
			Filterable: trueOrNil(f.Filterable),
			Sortable:   trueOrNil(f.Sortable),
		}
		if f.Key {
			searchable := f.Searchable
			fd.Searchable = &searchable
		}
		def.Fields = append(def.Fields, fd)
	}

	return def, nil
}

func trueOrNil(v bool) *bool {
	if !v {
		return nil
	}
	return &v
}
