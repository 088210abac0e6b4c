package mongodb

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestIsoFormat(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{
			name: "whole seconds",
			in:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			want: "2024-01-01T00:00:00",
		},
		{
			name: "milliseconds",
			in:   time.Date(2024, 1, 1, 12, 30, 5, 123*int(time.Millisecond), time.UTC),
			want: "2024-01-01T12:30:05.123000",
		},
		{
			name: "microseconds",
			in:   time.Date(2024, 1, 1, 12, 30, 5, 123456*int(time.Microsecond), time.UTC),
			want: "2024-01-01T12:30:05.123456",
		},
		{
			name: "sub-microsecond dropped",
			in:   time.Date(2024, 1, 1, 12, 30, 5, 999, time.UTC),
			want: "2024-01-01T12:30:05",
		},
		{
			name: "converted to UTC",
			in:   time.Date(2024, 1, 1, 2, 0, 0, 0, time.FixedZone("CEST", 2*60*60)),
			want: "2024-01-01T00:00:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isoFormat(tt.in))
		})
	}
}

func TestNormalize(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("65a1b2c3d4e5f60718293a4b")
	require.NoError(t, err)

	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	eventTime := time.Date(2024, 3, 4, 10, 11, 12, 500*int(time.Millisecond), time.UTC)

	doc := bson.M{
		"_id":           oid,
		"timestamp_day": primitive.NewDateTimeFromTime(day),
		"cat":           "electronics",
		"owner": bson.D{
			{Key: "email", Value: "ann@example.com"},
			{Key: "firstName", Value: "Ann"},
			{Key: "lastName", Value: "Lee"},
		},
		"events": bson.A{
			bson.M{"weight": 1.5, "timestamp_event": primitive.NewDateTimeFromTime(eventTime)},
			bson.M{"weight": int32(2), "timestamp_event": eventTime},
		},
		"created": primitive.NewDateTimeFromTime(day),
	}

	got := Normalize(doc)

	assert.Equal(t, "65a1b2c3d4e5f60718293a4b", got.ID())
	assert.Equal(t, "2024-03-04T00:00:00", got["timestamp_day"])
	assert.Equal(t, "electronics", got["cat"])

	owner, ok := got["owner"].(map[string]any)
	require.True(t, ok, "owner should be a plain map, got %T", got["owner"])
	assert.Equal(t, "Ann", owner["firstName"])

	email, ok := got.Lookup("owner.email")
	require.True(t, ok)
	assert.Equal(t, "ann@example.com", email)

	events, ok := got["events"].([]any)
	require.True(t, ok, "events should be a plain slice, got %T", got["events"])
	require.Len(t, events, 2)

	first := events[0].(map[string]any)
	assert.Equal(t, 1.5, first["weight"])
	assert.Equal(t, "2024-03-04T10:11:12.500000", first["timestamp_event"])

	second := events[1].(map[string]any)
	assert.Equal(t, int32(2), second["weight"])
	assert.Equal(t, "2024-03-04T10:11:12.500000", second["timestamp_event"])

	// Dates outside the two known paths stay as time values.
	created, ok := got["created"].(time.Time)
	require.True(t, ok, "created should be a time.Time, got %T", got["created"])
	assert.True(t, day.Equal(created))
}

func TestNormalize_PassesThroughUnexpectedShapes(t *testing.T) {
	got := Normalize(bson.M{
		"_id":           "already-a-string",
		"timestamp_day": "2024-01-01T00:00:00",
		"events":        "not-a-list",
	})

	assert.Equal(t, "already-a-string", got.ID())
	assert.Equal(t, "2024-01-01T00:00:00", got["timestamp_day"])
	assert.Equal(t, "not-a-list", got["events"])
	assert.NotContains(t, got, "cat")
}

func TestNormalize_IdentifierTypes(t *testing.T) {
	oid, err := primitive.ObjectIDFromHex("65a1b2c3d4e5f60718293a4b")
	require.NoError(t, err)

	u := uuid.MustParse("5f0c2a9e-8a3b-4c1d-9e2f-0a1b2c3d4e5f")

	tests := []struct {
		name string
		id   any
		want string
	}{
		{name: "object id", id: oid, want: "65a1b2c3d4e5f60718293a4b"},
		{name: "string", id: "abc", want: "abc"},
		{name: "int32", id: int32(42), want: "42"},
		{name: "int64", id: int64(9007199254740993), want: "9007199254740993"},
		{name: "uuid binary", id: primitive.Binary{Subtype: bson.TypeBinaryUUID, Data: u[:]}, want: u.String()},
		{name: "generic binary", id: primitive.Binary{Subtype: bson.TypeBinaryGeneric, Data: []byte{0xca, 0xfe}}, want: "cafe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(bson.M{"_id": tt.id})
			assert.Equal(t, tt.want, got["_id"])
			assert.Equal(t, tt.want, got.ID())
		})
	}

	t.Run("null stays null", func(t *testing.T) {
		got := Normalize(bson.M{"_id": nil})
		assert.Contains(t, got, "_id")
		assert.Nil(t, got["_id"])
	})
}
