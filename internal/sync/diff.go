package sync

// matched couples one remote item with the cached row sharing its
// provider id.
type matched[R, C any] struct {
	Remote R
	Cached C
}

// diffResult is the reconciliation plan for one resource collection.
type diffResult[R, C any] struct {
	ToAdd    []R
	ToUpdate []matched[R, C]
	ToRemove []C
}

// diffByProviderID computes the add/update/remove plan between a remote
// snapshot and the cached rows for one collection. Matching is solely by
// provider id; there is no fuzzy matching and no field-level merge — on a
// match, the remote item is authoritative for every mapped field. Order
// follows the input slices, so the plan is deterministic for a given
// snapshot.
func diffByProviderID[R, C any](
	remote []R,
	cached []C,
	remoteKey func(R) string,
	cachedKey func(C) string,
) diffResult[R, C] {
	cachedByKey := make(map[string]C, len(cached))
	for _, row := range cached {
		cachedByKey[cachedKey(row)] = row
	}
	remoteKeys := make(map[string]struct{}, len(remote))

	var result diffResult[R, C]
	for _, item := range remote {
		key := remoteKey(item)
		remoteKeys[key] = struct{}{}
		if row, ok := cachedByKey[key]; ok {
			result.ToUpdate = append(result.ToUpdate, matched[R, C]{Remote: item, Cached: row})
		} else {
			result.ToAdd = append(result.ToAdd, item)
		}
	}
	for _, row := range cached {
		if _, ok := remoteKeys[cachedKey(row)]; !ok {
			result.ToRemove = append(result.ToRemove, row)
		}
	}
	return result
}
