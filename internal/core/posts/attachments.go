package posts

import (
	"fmt"

	"github.com/samber/lo"
)

// partitionRetained splits current into the attachments to keep and the
// ones to remove, per the retained-id set.
func partitionRetained(current []Attachment, keepIDs []string) (kept, removed []Attachment) {
	keep := lo.Associate(keepIDs, func(id string) (string, bool) { return id, true })
	kept = lo.Filter(current, func(a Attachment, _ int) bool { return keep[a.ID] })
	removed = lo.Reject(current, func(a Attachment, _ int) bool { return keep[a.ID] })
	return kept, removed
}

// validateOrder rejects orderings that reference an id not present in
// list, or that repeat an id.
func validateOrder(list []Attachment, order []string) error {
	owned := lo.Associate(list, func(a Attachment) (string, bool) { return a.ID, true })
	seen := make(map[string]bool, len(order))
	for _, id := range order {
		if !owned[id] {
			return NewValidationError("attachmentOrder",
				fmt.Sprintf("attachment %s is not attached to this post", id))
		}
		if seen[id] {
			return NewValidationError("attachmentOrder",
				fmt.Sprintf("attachment %s appears more than once", id))
		}
		seen[id] = true
	}
	return nil
}

// applyOrder places the attachments named in order first, in that
// order; any unmentioned attachments follow in their prior relative
// order. Call validateOrder first.
func applyOrder(list []Attachment, order []string) []Attachment {
	byID := lo.Associate(list, func(a Attachment) (string, Attachment) { return a.ID, a })
	placed := make(map[string]bool, len(order))

	ordered := make([]Attachment, 0, len(list))
	for _, id := range order {
		ordered = append(ordered, byID[id])
		placed[id] = true
	}
	for _, a := range list {
		if !placed[a.ID] {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

// insertAt inserts att so it ends up at index pos, clamped to the list
// bounds.
func insertAt(list []Attachment, att Attachment, pos int) []Attachment {
	if pos < 0 {
		pos = 0
	}
	if pos > len(list) {
		pos = len(list)
	}
	list = append(list, Attachment{})
	copy(list[pos+1:], list[pos:])
	list[pos] = att
	return list
}

// renumber re-densifies positions to 0..n-1 after any list mutation.
func renumber(list []Attachment) {
	for i := range list {
		list[i].Position = i
	}
}
