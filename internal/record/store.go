package record

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store is the canonical record graph store.
//
// All mutations are serialized through a single mutex; see the package
// documentation for the concurrency and durability model.
type Store struct {
	mu        sync.Mutex
	path      string // empty = memory-only
	prospects map[string]*Prospect
}

// Open loads the record store from the snapshot at path, creating an empty
// store if the file does not exist yet. An empty path opens a memory-only
// store with no durability, used by tests.
func Open(path string) (*Store, error) {
	s := &Store{
		path:      path,
		prospects: make(map[string]*Prospect),
	}
	if path == "" {
		return s, nil
	}
	if err := s.load(); err != nil {
		return nil, fmt.Errorf("open record store: %w", err)
	}
	return s, nil
}

// InsertProspect creates a new prospect and returns a copy of it.
// Name and list fall back to the package defaults when blank; the address
// must be non-empty after trimming.
func (s *Store) InsertProspect(fullName, address, list, ownerEmail string) (Prospect, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Prospect{}, ErrEmptyAddress
	}
	if strings.TrimSpace(fullName) == "" {
		fullName = DefaultProspectName
	}
	if strings.TrimSpace(list) == "" {
		list = DefaultList
	}

	p := &Prospect{
		ID:         uuid.Must(uuid.NewV7()).String(),
		FullName:   fullName,
		Address:    address,
		List:       list,
		OwnerEmail: ownerEmail,
		Knocks:     []Knock{},
		Notes:      []Note{},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.prospects[p.ID] = p
	if err := s.persistLocked(); err != nil {
		delete(s.prospects, p.ID)
		return Prospect{}, err
	}
	return p.clone(), nil
}

// AppendKnock appends an immutable knock to the prospect and increments the
// cached knock count. The count always equals len(Knocks) on return.
func (s *Store) AppendKnock(prospectID string, k Knock) (Prospect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prospects[prospectID]
	if !ok {
		return Prospect{}, ErrProspectNotFound
	}
	p.Knocks = append(p.Knocks, k)
	p.KnockCount = len(p.Knocks)
	if err := s.persistLocked(); err != nil {
		p.Knocks = p.Knocks[:len(p.Knocks)-1]
		p.KnockCount = len(p.Knocks)
		return Prospect{}, err
	}
	return p.clone(), nil
}

// AppendNote appends an immutable note. Content must be non-empty after
// trimming; the trimmed content is what gets stored.
func (s *Store) AppendNote(prospectID, content, authorEmail string) (Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Note{}, ErrEmptyContent
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prospects[prospectID]
	if !ok {
		return Note{}, ErrProspectNotFound
	}
	n := Note{Date: time.Now(), Content: content, AuthorEmail: authorEmail}
	p.Notes = append(p.Notes, n)
	if err := s.persistLocked(); err != nil {
		p.Notes = p.Notes[:len(p.Notes)-1]
		return Note{}, err
	}
	return n, nil
}

// UpdateProspect edits a prospect's mutable fields in place, addressed by its
// stable id.
func (s *Store) UpdateProspect(prospectID, fullName, address, list string) (Prospect, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return Prospect{}, ErrEmptyAddress
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prospects[prospectID]
	if !ok {
		return Prospect{}, ErrProspectNotFound
	}
	prevName, prevAddr, prevList := p.FullName, p.Address, p.List
	p.FullName = fullName
	p.Address = address
	p.List = list
	if err := s.persistLocked(); err != nil {
		p.FullName, p.Address, p.List = prevName, prevAddr, prevList
		return Prospect{}, err
	}
	return p.clone(), nil
}

// SetMirrorRowID records the relational mirror row id captured when the
// mirror insert for this prospect succeeded.
func (s *Store) SetMirrorRowID(prospectID string, rowID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prospects[prospectID]
	if !ok {
		return ErrProspectNotFound
	}
	prev := p.MirrorRowID
	p.MirrorRowID = rowID
	if err := s.persistLocked(); err != nil {
		p.MirrorRowID = prev
		return err
	}
	return nil
}

// SetCoordinate stores a resolved coordinate for the prospect. Returns
// ErrProspectNotFound when the prospect was deleted while resolution was in
// flight, so late callbacks never resurrect removed records.
func (s *Store) SetCoordinate(prospectID string, latitude, longitude float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prospects[prospectID]
	if !ok {
		return ErrProspectNotFound
	}
	p.Located = true
	p.Latitude = latitude
	p.Longitude = longitude
	return s.persistLocked()
}

// DeleteProspect removes the prospect and, because knocks and notes live
// inside their parent, all dependent records with it. No orphan survives.
func (s *Store) DeleteProspect(prospectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prospects[prospectID]
	if !ok {
		return ErrProspectNotFound
	}
	delete(s.prospects, prospectID)
	if err := s.persistLocked(); err != nil {
		s.prospects[prospectID] = p
		return err
	}
	return nil
}

// Get returns a copy of one prospect by id.
func (s *Store) Get(prospectID string) (Prospect, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.prospects[prospectID]
	if !ok {
		return Prospect{}, ErrProspectNotFound
	}
	return p.clone(), nil
}

// FindByAddress matches a prospect owned by ownerEmail whose normalized
// address equals the normalized form of address. This is the sole identity
// key linking knocks at an address to an existing prospect.
func (s *Store) FindByAddress(ownerEmail, address string) (Prospect, bool) {
	key := NormalizeAddress(address)

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.prospects {
		if p.OwnerEmail == ownerEmail && NormalizeAddress(p.Address) == key {
			return p.clone(), true
		}
	}
	return Prospect{}, false
}

// ProspectsFor returns copies of every prospect owned by ownerEmail.
// Order is not significant; results are sorted by id (UUIDv7, so creation
// order) purely for deterministic output.
func (s *Store) ProspectsFor(ownerEmail string) []Prospect {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Prospect{}
	for _, p := range s.prospects {
		if p.OwnerEmail == ownerEmail {
			out = append(out, p.clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns copies of every prospect regardless of owner, sorted by id.
func (s *Store) All() []Prospect {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Prospect{}
	for _, p := range s.prospects {
		out = append(out, p.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
