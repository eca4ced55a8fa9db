package ecs

// intersect returns the ids present in both sets, iterating the smaller one.
func intersect[A, B any](a *SparseSet[A], b *SparseSet[B]) []entityID {
	if a == nil || b == nil {
		return nil
	}
	if a.Len() <= b.Len() {
		out := make([]entityID, 0, a.Len())
		for _, id := range a.dense {
			if b.has(id) {
				out = append(out, id)
			}
		}
		return out
	}
	out := make([]entityID, 0, b.Len())
	for _, id := range b.dense {
		if a.has(id) {
			out = append(out, id)
		}
	}
	return out
}
