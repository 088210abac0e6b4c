// Package transform maps normalized source documents to search index
// records.
package transform

import (
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"

	"github.com/hashicorp-forge/searchsync/pkg/models"
)

// requiredFields are dereferenced unconditionally; a document missing any of
// them fails the whole run. A present key holding null is passed through as
// null, except for the fields in nonNullFields.
var requiredFields = []string{
	models.FieldID,
	models.FieldTimestampDay,
	models.FieldCategory,
	models.FieldOwnerEmail,
	models.FieldOwnerFirstName,
	models.FieldOwnerLastName,
}

// nonNullFields must hold a value: the key field of the index and the
// timestamp that is reformatted.
var nonNullFields = []string{
	models.FieldID,
	models.FieldTimestampDay,
}

type owner struct {
	Email     *string `mapstructure:"email"`
	FirstName *string `mapstructure:"firstName"`
	LastName  *string `mapstructure:"lastName"`
}

type shape struct {
	ID           string           `mapstructure:"_id"`
	TimestampDay string           `mapstructure:"timestamp_day"`
	Category     *string          `mapstructure:"cat"`
	Owner        owner            `mapstructure:"owner"`
	Events       []map[string]any `mapstructure:"events"`
}

// Transform converts one document into its index record.
func Transform(doc models.SourceDocument) (*models.Record, error) {
	for _, field := range requiredFields {
		if _, ok := doc.Lookup(field); !ok {
			return nil, &FieldError{DocumentID: doc.ID(), Field: field, Err: ErrMissingField}
		}
	}
	for _, field := range nonNullFields {
		if v, _ := doc.Lookup(field); v == nil {
			return nil, &FieldError{DocumentID: doc.ID(), Field: field, Err: ErrNullField}
		}
	}

	var s shape
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := dec.Decode(map[string]any(doc)); err != nil {
		return nil, &FieldError{DocumentID: doc.ID(), Field: "*", Err: err}
	}

	avg, err := averageWeight(s.Events)
	if err != nil {
		return nil, &FieldError{DocumentID: doc.ID(), Field: models.FieldEvents, Err: err}
	}

	return &models.Record{
		ID:             s.ID,
		TimestampDay:   CanonicalTimestamp(s.TimestampDay),
		Category:       s.Category,
		OwnerEmail:     s.Owner.Email,
		OwnerFirstName: s.Owner.FirstName,
		OwnerLastName:  s.Owner.LastName,
		EventsCount:    len(s.Events),
		AvgWeight:      avg,
	}, nil
}

// TransformAll converts docs in order. The first failure aborts.
func TransformAll(docs []models.SourceDocument) ([]*models.Record, error) {
	records := make([]*models.Record, 0, len(docs))
	for i, doc := range docs {
		rec, err := Transform(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to transform document %d: %w", i, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// averageWeight is the arithmetic mean of the event weights. An event without
// a weight key counts as zero; any other non-numeric weight is an error.
func averageWeight(events []map[string]any) (float64, error) {
	if len(events) == 0 {
		return 0.0, nil
	}

	var total float64
	for i, e := range events {
		v, ok := e[models.FieldWeight]
		if !ok {
			continue
		}
		w, ok := number(v)
		if !ok {
			return 0, fmt.Errorf("%w: event %d has weight of type %T", ErrInvalidWeight, i, v)
		}
		total += w
	}
	return total / float64(len(events)), nil
}

// number converts integer and floating point values to float64. Strings,
// booleans and nil are rejected.
func number(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	default:
		return 0, false
	}
}
