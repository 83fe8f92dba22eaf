package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/adfharrison1/go-baas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFilter(t *testing.T) {
	exists := bson.E{Key: "$exists", Value: true}

	tests := []struct {
		name     string
		filter   domain.Filter
		expected bson.E
	}{
		{
			name:     "equal",
			filter:   domain.Filter{Field: "x", Op: domain.OpEqual, Value: 1},
			expected: bson.E{Key: "x", Value: bson.D{exists, {Key: "$eq", Value: 1}}},
		},
		{
			name:     "not equal excludes null",
			filter:   domain.Filter{Field: "x", Op: domain.OpNotEqual, Value: 1},
			expected: bson.E{Key: "x", Value: bson.D{exists, {Key: "$nin", Value: bson.A{1, nil}}}},
		},
		{
			name:     "greater than",
			filter:   domain.Filter{Field: "age", Op: domain.OpGreaterThan, Value: 18},
			expected: bson.E{Key: "age", Value: bson.D{{Key: "$gt", Value: 18}}},
		},
		{
			name:     "array contains",
			filter:   domain.Filter{Field: "tags", Op: domain.OpArrayContains, Value: "a"},
			expected: bson.E{Key: "tags", Value: bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "$eq", Value: "a"}}}}},
		},
		{
			name:     "array contains any",
			filter:   domain.Filter{Field: "tags", Op: domain.OpArrayContainsAny, Value: []string{"a", "b"}},
			expected: bson.E{Key: "tags", Value: bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "$in", Value: bson.A{"a", "b"}}}}}},
		},
		{
			name:     "in",
			filter:   domain.Filter{Field: "x", Op: domain.OpIn, Value: []int{1, 2}},
			expected: bson.E{Key: "x", Value: bson.D{exists, {Key: "$in", Value: bson.A{1, 2}}}},
		},
		{
			name:     "not in",
			filter:   domain.Filter{Field: "x", Op: domain.OpNotIn, Value: []int{1}},
			expected: bson.E{Key: "x", Value: bson.D{exists, {Key: "$nin", Value: bson.A{1, nil}}}},
		},
		{
			name:     "is null",
			filter:   domain.Filter{Field: "x", Op: domain.OpIsNull},
			expected: bson.E{Key: "x", Value: bson.D{{Key: "$type", Value: "null"}}},
		},
		{
			name:     "is not null",
			filter:   domain.Filter{Field: "x", Op: domain.OpIsNotNull},
			expected: bson.E{Key: "x", Value: bson.D{exists, {Key: "$ne", Value: nil}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildFilter(tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}

	_, err := buildFilter(domain.Filter{Field: "x", Op: domain.OpIn, Value: "nope"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuery)
}

func TestBuildQueryFilter(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		got, err := buildQueryFilter(domain.Query{}, nil)
		require.NoError(t, err)
		assert.Equal(t, bson.D{}, got)
	})

	t.Run("start after in id order", func(t *testing.T) {
		got, err := buildQueryFilter(domain.Query{StartAfter: &domain.Snapshot{ID: "abc"}}, nil)
		require.NoError(t, err)
		assert.Equal(t, bson.D{{Key: "_id", Value: bson.D{{Key: "$gt", Value: "abc"}}}}, got)
	})

	t.Run("ordered start after", func(t *testing.T) {
		q := domain.Query{
			Order:      &domain.Order{Field: "age", Direction: domain.Descending},
			StartAfter: &domain.Snapshot{ID: "abc"},
		}
		got, err := buildQueryFilter(q, 30)
		require.NoError(t, err)
		expected := bson.D{{Key: "$and", Value: bson.A{
			bson.D{{Key: "age", Value: bson.D{{Key: "$exists", Value: true}}}},
			bson.D{{Key: "$or", Value: bson.A{
				bson.D{{Key: "age", Value: bson.D{{Key: "$lt", Value: 30}}}},
				bson.D{{Key: "age", Value: 30}, {Key: "_id", Value: bson.D{{Key: "$gt", Value: "abc"}}}},
			}}},
		}}}
		assert.Equal(t, expected, got)
	})
}

func TestBuildSort(t *testing.T) {
	assert.Equal(t, bson.D{{Key: "_id", Value: 1}}, buildSort(nil))
	assert.Equal(t,
		bson.D{{Key: "age", Value: -1}, {Key: "_id", Value: 1}},
		buildSort(&domain.Order{Field: "age", Direction: domain.Descending}),
	)
}

func TestToSnapshot(t *testing.T) {
	snap := toSnapshot(bson.M{
		"_id":     "u1",
		"name":    "Alice",
		"profile": bson.D{{Key: "city", Value: "Leeds"}},
		"tags":    bson.A{"a", bson.D{{Key: "k", Value: "v"}}},
	})

	assert.Equal(t, "u1", snap.ID)
	assert.True(t, snap.Exists)
	assert.Equal(t, "u1", snap.Position)
	assert.Equal(t, domain.Document{
		"name":    "Alice",
		"profile": map[string]interface{}{"city": "Leeds"},
		"tags":    []interface{}{"a", map[string]interface{}{"k": "v"}},
	}, snap.Data)
}

func TestToBSONDoc(t *testing.T) {
	doc := toBSONDoc("u1", domain.Document{"_id": "ignored", "name": "Alice"})
	require.Len(t, doc, 2)
	assert.Equal(t, bson.E{Key: "_id", Value: "u1"}, doc[0])
	assert.Equal(t, bson.E{Key: "name", Value: "Alice"}, doc[1])
}
