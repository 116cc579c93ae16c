// Package engagement holds the pure set logic behind like/helpful toggles.
// It performs no I/O; the review service persists whatever it computes.
package engagement

// Result describes one toggle transition.
type Result struct {
	Set   []uint // membership after the toggle
	Delta int    // +1 on add, -1 on remove
	Added bool   // true when the caller's mark was added
}

// Contains reports whether userID has an active mark in set.
func Contains(set []uint, userID uint) bool {
	for _, id := range set {
		if id == userID {
			return true
		}
	}
	return false
}

// Toggle flips userID's membership in set. Membership is a set: adding an
// id that is present removes it instead, and the returned slice never holds
// duplicates. Calling Toggle twice with the same id restores the original
// membership. There is no intent token, so a retried request toggles again
// rather than being absorbed.
func Toggle(set []uint, userID uint) Result {
	if Contains(set, userID) {
		next := make([]uint, 0, len(set)-1)
		for _, id := range set {
			if id != userID {
				next = append(next, id)
			}
		}
		return Result{Set: next, Delta: -1, Added: false}
	}

	next := make([]uint, 0, len(set)+1)
	next = append(next, set...)
	next = append(next, userID)
	return Result{Set: next, Delta: +1, Added: true}
}
