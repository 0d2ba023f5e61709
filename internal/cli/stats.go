package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/doorstep-crm/doorstep/internal/query"
	"github.com/doorstep-crm/doorstep/internal/record"
)

// StatsOptions holds flags for the stats command.
type StatsOptions struct {
	*RootOptions
	User  string
	List  string
	Actor string
}

// StatsReport is the aggregated view rendered by the stats command.
type StatsReport struct {
	User            string         `json:"user"`
	List            string         `json:"list"`
	Actor           string         `json:"actor,omitempty"`
	Prospects       int            `json:"prospects"`
	TotalKnocks     int            `json:"total_knocks"`
	Answered        int            `json:"answered"`
	Unanswered      int            `json:"unanswered"`
	KnocksByList    map[string]int `json:"knocks_by_list"`
	ProspectsByList map[string]int `json:"prospects_by_list"`
	KnocksByUser    map[string]int `json:"knocks_by_user"`
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Aggregate knock statistics for a user's prospects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts.RootOptions)
			if err != nil {
				return err
			}
			defer app.Close()

			prospects := query.FilterByList(app.Query.ProspectsFor(opts.User), opts.List)
			report := buildStats(prospects, app.Query.AllProspects(), opts.User, opts.List, opts.Actor)

			f := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
			return f.Emit(report, func(w io.Writer) error {
				return renderStats(w, report)
			})
		},
	}

	cmd.Flags().StringVar(&opts.User, "user", "", "owning user email (required)")
	cmd.Flags().StringVar(&opts.List, "list", query.AllLists, "filter by list value")
	cmd.Flags().StringVar(&opts.Actor, "actor", "", "count only knocks recorded by this email")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

// buildStats computes the report. Per-user sections aggregate the scoped
// prospects; the knocks-by-user leaderboard ranks actors across every
// prospect, regardless of owner.
func buildStats(prospects, leaderboard []record.Prospect, user, list, actor string) StatsReport {
	answered, unanswered := query.AnsweredVsUnanswered(prospects, actor)
	return StatsReport{
		User:            user,
		List:            list,
		Actor:           actor,
		Prospects:       len(prospects),
		TotalKnocks:     query.TotalKnocks(prospects, actor),
		Answered:        answered,
		Unanswered:      unanswered,
		KnocksByList:    query.KnocksByList(prospects, actor),
		ProspectsByList: query.ProspectCountByList(prospects),
		KnocksByUser:    query.KnocksByUser(leaderboard),
	}
}

// renderStats writes the text form of a report. Map sections are rendered
// in sorted key order so output is stable.
func renderStats(w io.Writer, r StatsReport) error {
	fmt.Fprintf(w, "Stats for %s (list: %s)\n", r.User, r.List)
	if r.Actor != "" {
		fmt.Fprintf(w, "Knocks recorded by %s only\n", r.Actor)
	}
	fmt.Fprintf(w, "\nProspects:    %d\n", r.Prospects)
	fmt.Fprintf(w, "Total knocks: %d\n", r.TotalKnocks)
	fmt.Fprintf(w, "Answered:     %d\n", r.Answered)
	fmt.Fprintf(w, "Unanswered:   %d\n", r.Unanswered)

	writeSection := func(title string, m map[string]int) {
		if len(m) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s:\n", title)
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "  %-24s %d\n", k, m[k])
		}
	}

	writeSection("Knocks by list", r.KnocksByList)
	writeSection("Prospects by list", r.ProspectsByList)
	writeSection("Knocks by user", r.KnocksByUser)
	return nil
}
