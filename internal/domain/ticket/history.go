package ticket

import "sort"

// StatusUnavailable is shown when neither an explicit current status nor
// any history entry carries one.
const StatusUnavailable = "N/A"

// SortedHistory returns the status history in ascending update-time order.
// Entries without a timestamp sort as time zero, i.e. earliest. The sort is
// stable so repeated renders of the same data never reorder ties, and the
// input slice is left untouched.
func SortedHistory(entries []StatusEntry) []StatusEntry {
	out := make([]StatusEntry, len(entries))
	copy(out, entries)
	sort.SliceStable(out, func(i, j int) bool {
		var ti, tj int64
		if out[i].UpdatedAt != nil {
			ti = out[i].UpdatedAt.UnixMilli()
		}
		if out[j].UpdatedAt != nil {
			tj = out[j].UpdatedAt.UnixMilli()
		}
		return ti < tj
	})
	return out
}

// ResolveCurrentStatus resolves the status string to display: the explicit
// current-status field when present, else the chronologically last history
// entry, else StatusUnavailable. Never empty.
func (r *Record) ResolveCurrentStatus() string {
	if r.CurrentStatus != nil && r.CurrentStatus.Status != "" {
		return r.CurrentStatus.Status
	}
	history := SortedHistory(r.StatusHistory)
	if len(history) > 0 && history[len(history)-1].Status != "" {
		return history[len(history)-1].Status
	}
	return StatusUnavailable
}

// CombinedAttachments builds the attachments view for a ticket. Only
// task-level attachments feed it; the documents array is deliberately not
// merged until the backend contract settles.
func (r *Record) CombinedAttachments() []Attachment {
	out := make([]Attachment, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		if a.Name == "" {
			a.Name = a.URL
		}
		out = append(out, a)
	}
	return out
}
