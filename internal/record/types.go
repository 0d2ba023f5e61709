package record

import "time"

// Knock statuses recorded at the door. Any other status value is preserved
// as written but excluded from answered/unanswered aggregation.
const (
	StatusAnswered    = "Answered"
	StatusNotAnswered = "Not Answered"
)

// Default field values for prospects created implicitly by a knock at an
// address with no existing match.
const (
	DefaultProspectName = "New Prospect"
	DefaultList         = "Prospects"
)

// Knock is one visit attempt at a prospect's address.
// Knocks are immutable once appended to a prospect.
type Knock struct {
	Date      time.Time `json:"date"`
	Status    string    `json:"status"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`

	// UserEmail is the actor who recorded the knock. It may differ from the
	// owning prospect's OwnerEmail; both are kept.
	UserEmail string `json:"user_email"`
}

// Note is an immutable free-text annotation attached to a prospect.
type Note struct {
	Date        time.Time `json:"date"`
	Content     string    `json:"content"`
	AuthorEmail string    `json:"author_email"`
}

// Prospect is a canvassing target owned by exactly one user.
//
// KnockCount is a cached count and equals len(Knocks) after every mutation;
// the store maintains this, callers never set it directly.
type Prospect struct {
	ID         string  `json:"id"`
	FullName   string  `json:"full_name"`
	Address    string  `json:"address"`
	List       string  `json:"list"`
	OwnerEmail string  `json:"owner_email"`
	KnockCount int     `json:"knock_count"`
	Knocks     []Knock `json:"knocks"`
	Notes      []Note  `json:"notes"`

	// MirrorRowID is the relational mirror's row id captured when the mirror
	// insert at creation time succeeded. Zero means the prospect has no
	// mirrored counterpart and knock rows are not mirrored for it either.
	MirrorRowID int64 `json:"mirror_row_id,omitempty"`

	// Located reports whether an address resolution has filled in
	// Latitude/Longitude. Absence of a coordinate is not an error, the
	// prospect is simply not yet located.
	Located   bool    `json:"located,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// clone returns a deep copy safe to hand out without the store lock.
func (p *Prospect) clone() Prospect {
	out := *p
	out.Knocks = make([]Knock, len(p.Knocks))
	copy(out.Knocks, p.Knocks)
	out.Notes = make([]Note, len(p.Notes))
	copy(out.Notes, p.Notes)
	return out
}
