// Package query implements scoped retrieval and analytics over the record
// graph store.
//
// All reads in the system go through this package against internal/record;
// the relational mirror is never consulted on the read path. Aggregations
// are pure functions over prospect snapshots, so callers can compose them
// freely (scope by owner, then filter by list, then aggregate).
package query

import (
	"sort"

	"github.com/doorstep-crm/doorstep/internal/record"
)

// AllLists is the sentinel list filter that bypasses list filtering.
const AllLists = "All"

// Engine answers reads over the record store, scoped by user identity.
type Engine struct {
	records *record.Store
}

// New creates an Engine over the given record store.
func New(records *record.Store) *Engine {
	return &Engine{records: records}
}

// ProspectsFor returns the prospects owned by the given user. Insertion
// order is not part of the contract.
func (e *Engine) ProspectsFor(userEmail string) []record.Prospect {
	return e.records.ProspectsFor(userEmail)
}

// AllProspects returns every prospect regardless of owner. Backs the
// cross-user knock leaderboard.
func (e *Engine) AllProspects() []record.Prospect {
	return e.records.All()
}

// Notes returns the notes attached to a prospect, in append order.
func (e *Engine) Notes(prospectID string) ([]record.Note, error) {
	p, err := e.records.Get(prospectID)
	if err != nil {
		return nil, err
	}
	return p.Notes, nil
}

// FilterByList keeps prospects whose list equals listValue. The AllLists
// sentinel returns the input unfiltered.
func FilterByList(prospects []record.Prospect, listValue string) []record.Prospect {
	if listValue == AllLists {
		return prospects
	}
	out := []record.Prospect{}
	for _, p := range prospects {
		if p.List == listValue {
			out = append(out, p)
		}
	}
	return out
}

// TotalKnocks sums knocks across prospects. A non-empty userEmail restricts
// the count to knocks recorded by that actor; empty counts every knock
// regardless of actor.
func TotalKnocks(prospects []record.Prospect, userEmail string) int {
	total := 0
	for _, p := range prospects {
		for _, k := range p.Knocks {
			if userEmail == "" || k.UserEmail == userEmail {
				total++
			}
		}
	}
	return total
}

// KnocksByList groups knock counts by the owning prospect's list value,
// with the same optional actor filter as TotalKnocks. Lists with zero
// matching knocks are absent from the result, not zero-valued.
func KnocksByList(prospects []record.Prospect, userEmail string) map[string]int {
	result := map[string]int{}
	for _, p := range prospects {
		n := 0
		for _, k := range p.Knocks {
			if userEmail == "" || k.UserEmail == userEmail {
				n++
			}
		}
		if n > 0 {
			result[p.List] += n
		}
	}
	return result
}

// KnocksByUser groups knock counts by the recording actor's email,
// regardless of prospect ownership. Used for leaderboard-style summaries.
func KnocksByUser(prospects []record.Prospect) map[string]int {
	result := map[string]int{}
	for _, p := range prospects {
		for _, k := range p.Knocks {
			result[k.UserEmail]++
		}
	}
	return result
}

// ProspectCountByList counts prospects (not knocks) per list value.
// Backs per-list marker summaries.
func ProspectCountByList(prospects []record.Prospect) map[string]int {
	result := map[string]int{}
	for _, p := range prospects {
		result[p.List]++
	}
	return result
}

// AnsweredVsUnanswered counts knocks by outcome, with the same optional
// actor filter. Statuses other than the two known ones are silently
// excluded from both counters.
func AnsweredVsUnanswered(prospects []record.Prospect, userEmail string) (answered, unanswered int) {
	for _, p := range prospects {
		for _, k := range p.Knocks {
			if userEmail != "" && k.UserEmail != userEmail {
				continue
			}
			switch k.Status {
			case record.StatusAnswered:
				answered++
			case record.StatusNotAnswered:
				unanswered++
			}
		}
	}
	return answered, unanswered
}

// SortedKnocks returns a prospect's knocks sorted by date descending, the
// presentation order for knock history. Ties keep their relative order.
func SortedKnocks(p record.Prospect) []record.Knock {
	out := make([]record.Knock, len(p.Knocks))
	copy(out, p.Knocks)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out
}
