package domain

// Placeholders applied by the dataset loader to blank fields.
const (
	UnknownOfficeName = "Unknown Office"
	PlaceholderURL    = "#"
)

// Represents a single service office loaded from the office dataset.
// Records are immutable once loaded. Position is the zero-based load order
// and is used as the ranking tie-break.
type OfficeRecord struct {
	ID         string
	Name       string
	Coordinate Coordinate
	URL        string
	Metadata   map[string]string
	Position   int
}

// An OfficeRecord with its distance from the reference location.
type RankedOffice struct {
	OfficeRecord
	Distance float64
}

// Ordered ranking produced for one reference location.
// Offices are ascending by distance, ties in load order.
type RankedResult struct {
	Unit    string
	Offices []RankedOffice
}

// Find returns the ranked office with the given id.
func (r RankedResult) Find(id string) (RankedOffice, bool) {
	for _, o := range r.Offices {
		if o.ID == id {
			return o, true
		}
	}
	return RankedOffice{}, false
}
