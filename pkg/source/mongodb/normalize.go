package mongodb

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hashicorp-forge/searchsync/pkg/models"
)

const (
	isoSeconds      = "2006-01-02T15:04:05"
	isoMicroseconds = "2006-01-02T15:04:05.000000"
)

// Normalize converts a decoded BSON document into a SourceDocument. Driver
// types become plain Go values: the identifier becomes a string whatever
// its BSON type, other ObjectIDs become hex strings, embedded
// documents become map[string]any and arrays []any. Date values at
// timestamp_day and events[*].timestamp_event are rendered as zone-less UTC
// ISO-8601 strings. The document shape is not validated.
func Normalize(doc bson.M) models.SourceDocument {
	out := models.SourceDocument(plainMap(doc))

	if v, ok := doc[models.FieldID]; ok && v != nil {
		out[models.FieldID] = idString(v)
	}

	if v, ok := out[models.FieldTimestampDay]; ok {
		out[models.FieldTimestampDay] = isoValue(v)
	}

	if events, ok := out[models.FieldEvents].([]any); ok {
		for _, e := range events {
			if event, ok := e.(map[string]any); ok {
				if v, ok := event[models.FieldTimestampEvent]; ok {
					event[models.FieldTimestampEvent] = isoValue(v)
				}
			}
		}
	}

	return out
}

func plainMap(m map[string]interface{}) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = plainValue(v)
	}
	return out
}

func plainValue(v any) any {
	switch t := v.(type) {
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time().UTC()
	case bson.M:
		return plainMap(t)
	case map[string]interface{}:
		return plainMap(t)
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plainValue(e.Value)
		}
		return out
	case bson.A:
		return plainSlice(t)
	case []interface{}:
		return plainSlice(t)
	default:
		return v
	}
}

func plainSlice(s []interface{}) []any {
	out := make([]any, 0, len(s))
	for _, v := range s {
		out = append(out, plainValue(v))
	}
	return out
}

// idString renders an identifier as a string. UUID binaries use the
// canonical hyphenated form; other binaries are hex encoded.
func idString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Binary:
		if t.Subtype == bson.TypeBinaryUUID || t.Subtype == bson.TypeBinaryUUIDOld {
			if u, err := uuid.FromBytes(t.Data); err == nil {
				return u.String()
			}
		}
		return hex.EncodeToString(t.Data)
	default:
		return fmt.Sprint(v)
	}
}

// isoValue renders time values as ISO-8601; anything else passes through.
func isoValue(v any) any {
	switch t := v.(type) {
	case time.Time:
		return isoFormat(t)
	case primitive.DateTime:
		return isoFormat(t.Time())
	default:
		return v
	}
}

// isoFormat renders t in UTC without a zone suffix. Microseconds are included
// only when non-zero.
func isoFormat(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(isoSeconds)
	}
	return t.Format(isoMicroseconds)
}
