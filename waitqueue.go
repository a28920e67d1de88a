package promise

// prepend returns a fresh slice with kk at the front of rest. Wait queues
// are immutable: a thread builds a new slice and CASes the whole state
// rather than mutating rest in place.
func prepend[A any](kk *k[A], rest []*k[A]) []*k[A] {
	next := make([]*k[A], 0, len(rest)+1)
	next = append(next, kk)
	return append(next, rest...)
}

// consolidate folds an optional fast slot and a rest slice into a single
// queue, used when a Waiting promise transitions to Interruptible/Interrupted
// and the first/rest split no longer applies.
func consolidate[A any](first *k[A], rest []*k[A]) []*k[A] {
	if first == nil {
		return rest
	}
	return prepend(first, rest)
}
