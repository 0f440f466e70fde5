package ecs

import "sort"

// Each2 iterates over entities that have both component A and B.
// It iterates over the smaller store and checks the larger one.
// Visit order is unspecified; use Each2Sorted on mutation paths.
func Each2[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	if sa.Len() <= sb.Len() {
		for id, a := range sa.data {
			if b, ok := sb.data[id]; ok {
				fn(id, a, b)
			}
		}
	} else {
		for id, b := range sb.data {
			if a, ok := sa.data[id]; ok {
				fn(id, a, b)
			}
		}
	}
}

// Each2Sorted is Each2 with deterministic EntityID visit order.
func Each2Sorted[A, B any](sa *Store[A], sb *Store[B], fn func(EntityID, *A, *B)) {
	small := sa.Len()
	if sb.Len() < small {
		small = sb.Len()
	}
	ids := make([]EntityID, 0, small)
	if sa.Len() <= sb.Len() {
		for id := range sa.data {
			if _, ok := sb.data[id]; ok {
				ids = append(ids, id)
			}
		}
	} else {
		for id := range sb.data {
			if _, ok := sa.data[id]; ok {
				ids = append(ids, id)
			}
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	for _, id := range ids {
		fn(id, sa.data[id], sb.data[id])
	}
}
