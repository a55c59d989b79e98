package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type remoteItem struct{ id string }

type cachedRow struct {
	id    string
	title string
}

func runDiff(remote []remoteItem, cached []cachedRow) diffResult[remoteItem, cachedRow] {
	return diffByProviderID(remote, cached,
		func(r remoteItem) string { return r.id },
		func(c cachedRow) string { return c.id },
	)
}

func TestDiffEmptyCacheAddsEverything(t *testing.T) {
	plan := runDiff([]remoteItem{{id: "a"}, {id: "b"}}, nil)

	assert.Len(t, plan.ToAdd, 2)
	assert.Empty(t, plan.ToUpdate)
	assert.Empty(t, plan.ToRemove)
}

func TestDiffMatchesByProviderIDOnly(t *testing.T) {
	remote := []remoteItem{{id: "a"}, {id: "c"}}
	cached := []cachedRow{{id: "a", title: "stale"}, {id: "b", title: "orphan"}}

	plan := runDiff(remote, cached)

	assert.Equal(t, []remoteItem{{id: "c"}}, plan.ToAdd)
	if assert.Len(t, plan.ToUpdate, 1) {
		assert.Equal(t, "a", plan.ToUpdate[0].Remote.id)
		assert.Equal(t, "stale", plan.ToUpdate[0].Cached.title)
	}
	assert.Equal(t, []cachedRow{{id: "b", title: "orphan"}}, plan.ToRemove)
}

func TestDiffEmptyRemoteRemovesEverything(t *testing.T) {
	plan := runDiff(nil, []cachedRow{{id: "a"}, {id: "b"}})

	assert.Empty(t, plan.ToAdd)
	assert.Empty(t, plan.ToUpdate)
	assert.Len(t, plan.ToRemove, 2)
}

func TestDiffOrderFollowsInput(t *testing.T) {
	remote := []remoteItem{{id: "z"}, {id: "m"}, {id: "a"}}
	plan := runDiff(remote, []cachedRow{{id: "q"}, {id: "p"}})

	assert.Equal(t, remote, plan.ToAdd)
	assert.Equal(t, []cachedRow{{id: "q"}, {id: "p"}}, plan.ToRemove)
}
