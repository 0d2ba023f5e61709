package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doorstep-crm/doorstep/internal/record"
)

// TestRenderStats_Golden pins the text rendering of a stats report.
//
// To regenerate golden files, run:
//
//	go test ./internal/cli -update
func TestRenderStats_Golden(t *testing.T) {
	report := StatsReport{
		User:        "rep@example.com",
		List:        "All",
		Prospects:   3,
		TotalKnocks: 5,
		Answered:    3,
		Unanswered:  2,
		KnocksByList: map[string]int{
			"Prospects": 3,
			"Customers": 2,
		},
		ProspectsByList: map[string]int{
			"Prospects": 2,
			"Customers": 1,
		},
		KnocksByUser: map[string]int{
			"rep@example.com":      4,
			"teammate@example.com": 1,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, renderStats(&buf, report))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "stats_report", buf.Bytes())
}

func TestBuildStats(t *testing.T) {
	now := time.Now()
	prospects := []record.Prospect{
		{
			List:       "Prospects",
			KnockCount: 2,
			Knocks: []record.Knock{
				{Date: now, Status: record.StatusAnswered, UserEmail: "rep@example.com"},
				{Date: now, Status: record.StatusNotAnswered, UserEmail: "teammate@example.com"},
			},
		},
		{List: "Customers"},
	}

	report := buildStats(prospects, prospects, "rep@example.com", "All", "")
	assert.Equal(t, 2, report.Prospects)
	assert.Equal(t, 2, report.TotalKnocks)
	assert.Equal(t, 1, report.Answered)
	assert.Equal(t, 1, report.Unanswered)
	assert.Equal(t, map[string]int{"Prospects": 2}, report.KnocksByList)
	assert.Equal(t, map[string]int{"Prospects": 1, "Customers": 1}, report.ProspectsByList)

	filtered := buildStats(prospects, prospects, "rep@example.com", "All", "rep@example.com")
	assert.Equal(t, 1, filtered.TotalKnocks)
	assert.Equal(t, 1, filtered.Answered)
	assert.Equal(t, 0, filtered.Unanswered)
}

func TestBuildStats_LeaderboardSpansOwners(t *testing.T) {
	now := time.Now()
	mine := []record.Prospect{
		{
			List:       "Prospects",
			OwnerEmail: "rep@example.com",
			KnockCount: 1,
			Knocks: []record.Knock{
				{Date: now, Status: record.StatusAnswered, UserEmail: "rep@example.com"},
			},
		},
	}
	everyone := append(mine, record.Prospect{
		List:       "Prospects",
		OwnerEmail: "teammate@example.com",
		KnockCount: 2,
		Knocks: []record.Knock{
			{Date: now, Status: record.StatusAnswered, UserEmail: "teammate@example.com"},
			{Date: now, Status: record.StatusNotAnswered, UserEmail: "teammate@example.com"},
		},
	})

	report := buildStats(mine, everyone, "rep@example.com", "All", "")

	// Per-user sections stay scoped to the requesting owner.
	assert.Equal(t, 1, report.Prospects)
	assert.Equal(t, 1, report.TotalKnocks)

	// The leaderboard ranks every actor, including other owners' knocks.
	assert.Equal(t, map[string]int{
		"rep@example.com":      1,
		"teammate@example.com": 2,
	}, report.KnocksByUser)
}
