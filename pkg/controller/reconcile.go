package controller

import "github.com/talentbase/adminkit.go/pkg/models"

// Reconcile deduplicates a freshly fetched collection by identity before it
// is accepted into state. One pass, insertion order preserved, the first
// occurrence of an id wins and later ones are discarded. The discarded count
// is returned so callers can log it: duplicates in a fetch mean the server
// has a data integrity problem, and hiding that silently would bury the bug.
//
// Reconcile is idempotent: running it on its own output discards nothing.
func Reconcile[E models.Entity](xs []E) ([]E, int) {
	seen := make(map[string]struct{}, len(xs))
	out := make([]E, 0, len(xs))
	discarded := 0
	for _, e := range xs {
		id := e.EntityID()
		if _, dup := seen[id]; dup {
			discarded++
			continue
		}
		seen[id] = struct{}{}
		out = append(out, e)
	}
	return out, discarded
}
