package models

// POSEntry is one product selected for the active day
type POSEntry struct {
	ProductID     string                `json:"productId"`
	Name          string                `json:"name"`
	Color         string                `json:"color,omitempty"`
	Presentations []ProductPresentation `json:"presentations"`
	Items         []PresentationItem    `json:"items"`
}

// PresentationItem is the running counter of one presentation within a POS entry.
// Price is resolved when the day starts and does not follow later catalog edits.
type PresentationItem struct {
	PresentationID int     `json:"presentationId"`
	Price          float64 `json:"price"`
	Count          int     `json:"count"`
}

// Item returns the presentation item for the given presentation, or nil
func (e *POSEntry) Item(presentationID int) *PresentationItem {
	for i := range e.Items {
		if e.Items[i].PresentationID == presentationID {
			return &e.Items[i]
		}
	}
	return nil
}

// PresentationName returns the denormalized name of a presentation in this entry
func (e *POSEntry) PresentationName(presentationID int) string {
	for _, p := range e.Presentations {
		if p.PresentationID == presentationID {
			return p.Name
		}
	}
	return ""
}

// Clone returns a deep copy of the entry
func (e POSEntry) Clone() POSEntry {
	out := e
	out.Presentations = ClonePresentations(e.Presentations)
	out.Items = append([]PresentationItem(nil), e.Items...)
	return out
}

// CloneEntries deep-copies a whole session
func CloneEntries(entries []POSEntry) []POSEntry {
	out := make([]POSEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}
