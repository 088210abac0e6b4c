package models

import (
	"fmt"
	"strings"
)

// Source document keys.
const (
	FieldID             = "_id"
	FieldTimestampDay   = "timestamp_day"
	FieldCategory       = "cat"
	FieldOwnerEmail     = "owner.email"
	FieldOwnerFirstName = "owner.firstName"
	FieldOwnerLastName  = "owner.lastName"
	FieldEvents         = "events"
	FieldWeight         = "weight"
	FieldTimestampEvent = "timestamp_event"
)

// SourceDocument is a document read from the document database after
// normalization. Identifiers and date/time values are strings, nested
// documents are map[string]any and arrays are []any.
type SourceDocument map[string]any

// Lookup returns the value at a dotted path such as "owner.email". The second
// return value reports whether every segment of the path was present.
func (d SourceDocument) Lookup(path string) (any, bool) {
	var cur any = map[string]any(d)
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			if sd, isDoc := cur.(SourceDocument); isDoc {
				m = sd
			} else {
				return nil, false
			}
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// ID returns the identifier as a string, or "" if absent or null.
func (d SourceDocument) ID() string {
	switch id := d[FieldID].(type) {
	case nil:
		return ""
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}
