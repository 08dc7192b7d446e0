package domain

// LineDiff is the outcome of a recompute pass over a document snapshot:
// lines to create, lines to replace and lines to delete. Recompute services
// return a diff instead of mutating shared state so the caller controls when
// and where changes are applied (staged in memory for drafts, written through
// for persisted documents).
type LineDiff struct {
	Creates []JournalLine `json:"creates"`
	Updates []JournalLine `json:"updates"` // Full replacement, matched by LineID
	Deletes []string      `json:"deletes"` // Line IDs
}

// IsEmpty reports whether the diff changes nothing.
func (d *LineDiff) IsEmpty() bool {
	return len(d.Creates) == 0 && len(d.Updates) == 0 && len(d.Deletes) == 0
}

// Merge appends the changes of other into d.
func (d *LineDiff) Merge(other LineDiff) {
	d.Creates = append(d.Creates, other.Creates...)
	d.Updates = append(d.Updates, other.Updates...)
	d.Deletes = append(d.Deletes, other.Deletes...)
}

// ApplyTo applies the diff to the document's line set. Deletes run first so a
// delete-and-recreate sequence (e.g. a cash rounding strategy change) leaves
// exactly one line. Order of surviving lines is preserved; creations append.
func (d *LineDiff) ApplyTo(doc *Document) {
	if len(d.Deletes) > 0 {
		deleted := make(map[string]struct{}, len(d.Deletes))
		for _, id := range d.Deletes {
			deleted[id] = struct{}{}
		}
		kept := doc.Lines[:0]
		for _, line := range doc.Lines {
			if _, ok := deleted[line.LineID]; !ok {
				kept = append(kept, line)
			}
		}
		doc.Lines = kept
	}
	for _, update := range d.Updates {
		if existing := doc.LineByID(update.LineID); existing != nil {
			*existing = update
		}
	}
	doc.Lines = append(doc.Lines, d.Creates...)
}
