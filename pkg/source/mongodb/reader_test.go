package mongodb

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection serves documents from memory through a real driver cursor.
type fakeCollection struct {
	docs     []interface{}
	countErr error
	findErr  error

	filters []interface{}
}

func (f *fakeCollection) CountDocuments(_ context.Context, filter interface{}, _ ...*options.CountOptions) (int64, error) {
	f.filters = append(f.filters, filter)
	if f.countErr != nil {
		return 0, f.countErr
	}
	return int64(len(f.docs)), nil
}

func (f *fakeCollection) Find(_ context.Context, filter interface{}, _ ...*options.FindOptions) (*mongo.Cursor, error) {
	f.filters = append(f.filters, filter)
	if f.findErr != nil {
		return nil, f.findErr
	}
	return mongo.NewCursorFromDocuments(f.docs, nil, nil)
}

func sampleDocument(hex, cat string) bson.D {
	oid, _ := primitive.ObjectIDFromHex(hex)
	return bson.D{
		{Key: "_id", Value: oid},
		{Key: "timestamp_day", Value: primitive.NewDateTimeFromTime(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))},
		{Key: "cat", Value: cat},
		{Key: "owner", Value: bson.D{
			{Key: "email", Value: "e@x.com"},
			{Key: "firstName", Value: "Ann"},
			{Key: "lastName", Value: "Lee"},
		}},
		{Key: "events", Value: bson.A{
			bson.D{{Key: "weight", Value: 1.0}},
			bson.D{{Key: "weight", Value: 3.0}},
		}},
	}
}

func TestFetchAll(t *testing.T) {
	coll := &fakeCollection{docs: []interface{}{
		sampleDocument("65a1b2c3d4e5f60718293a4b", "x"),
		sampleDocument("65a1b2c3d4e5f60718293a4c", "y"),
	}}

	docs, err := NewReader(coll, nil).FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "65a1b2c3d4e5f60718293a4b", docs[0].ID())
	assert.Equal(t, "x", docs[0]["cat"])
	assert.Equal(t, "2024-01-01T00:00:00", docs[0]["timestamp_day"])
	assert.Equal(t, "65a1b2c3d4e5f60718293a4c", docs[1].ID())

	first, ok := docs[0].Lookup("owner.lastName")
	require.True(t, ok)
	assert.Equal(t, "Lee", first)

	events, ok := docs[0]["events"].([]any)
	require.True(t, ok)
	assert.Len(t, events, 2)

	// Count and find both run with an empty filter.
	require.Len(t, coll.filters, 2)
	for _, f := range coll.filters {
		assert.Equal(t, bson.D{}, f)
	}
}

func TestFetchAll_Empty(t *testing.T) {
	docs, err := NewReader(&fakeCollection{}, nil).FetchAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestFetchAll_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name string
		coll *fakeCollection
		want string
	}{
		{name: "count fails", coll: &fakeCollection{countErr: boom}, want: "count"},
		{name: "find fails", coll: &fakeCollection{findErr: boom}, want: "find"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReader(tt.coll, nil).FetchAll(context.Background())
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFetch)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClose_WithoutClient(t *testing.T) {
	assert.NoError(t, NewReader(&fakeCollection{}, nil).Close(context.Background()))
}

func TestConnect_Errors(t *testing.T) {
	t.Run("empty uri", func(t *testing.T) {
		_, err := Connect(context.Background(), Config{}, nil)
		assert.ErrorIs(t, err, ErrConnection)
	})

	t.Run("invalid uri", func(t *testing.T) {
		_, err := Connect(context.Background(), Config{URI: "not-a-mongo-uri"}, nil)
		assert.ErrorIs(t, err, ErrConnection)
	})

	t.Run("unreachable host", func(t *testing.T) {
		_, err := Connect(context.Background(), Config{
			URI:            "mongodb://127.0.0.1:1/?connect=direct",
			ConnectTimeout: 200 * time.Millisecond,
		}, nil)
		assert.ErrorIs(t, err, ErrConnection)
	})
}
