package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRandomPickQuery_NoExclusions(t *testing.T) {
	query, args, err := buildRandomPickQuery("categories", "c", 4, nil)
	require.NoError(t, err)

	// No exclusion predicate at all: a NULL array would reject every row.
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "ANY")
	assert.Contains(t, query, "ORDER BY RANDOM()")
	assert.Contains(t, query, "LIMIT 4")
	assert.Empty(t, args)
}

func TestBuildRandomPickQuery_WithExclusions(t *testing.T) {
	query, args, err := buildRandomPickQuery("tags", "t", 5, []int64{1, 2})
	require.NoError(t, err)

	assert.Contains(t, query, "NOT (t.id = ANY($1))")
	assert.Contains(t, query, "LIMIT 5")
	assert.Equal(t, []interface{}{[]int64{1, 2}}, args)
}
