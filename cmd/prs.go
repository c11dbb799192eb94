package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/devdash/internal/domain"
)

func newPRsCmd(opts *options) *cobra.Command {
	var (
		repo      string
		authors   []string
		statuses  []string
		dateRange string
	)

	prsCmd := &cobra.Command{
		Use:   "prs",
		Short: "Computes pull-request analytics and outputs them as JSON",
		Long: `Filters the pull requests by repository, author and status, then outputs
the summary metrics, reviewer leaderboard, workflow funnel and volume series in JSON format.`,
		Example: `  devdash prs --repo backend-api --status merged
  devdash prs --author sarah-chen --author mike-johnson`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sel, err := buildSelection(repo, authors, statuses, dateRange)
			if err != nil {
				return err
			}

			rt, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck

			report, err := rt.aggregator.PullRequests(cmd.Context(), sel)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	prsCmd.Flags().StringVarP(&repo, "repo", "r", domain.AllRepositories, "Repository id, or \"all\"")
	prsCmd.Flags().StringArrayVarP(&authors, "author", "a", nil, "Author id to include (repeatable; default: every author)")
	prsCmd.Flags().StringSliceVarP(&statuses, "status", "s", []string{"open", "merged", "closed"}, "Statuses to include")
	prsCmd.Flags().StringVar(&dateRange, "date-range", "last-30-days", "Date range label (last-7-days, last-30-days, last-90-days, last-6-months, custom)")
	return prsCmd
}

func buildSelection(repo string, authors, statuses []string, dateRange string) (domain.FilterSelection, error) {
	sel := domain.DefaultSelection()
	sel.Repository = repo
	sel.DateRange = dateRange
	sel.Authors = domain.NormalizeAuthors(authors)
	sel.Statuses = make([]domain.Status, 0, len(statuses))
	for _, s := range statuses {
		st, err := domain.ParseStatus(s)
		if err != nil {
			return domain.FilterSelection{}, err
		}
		sel.Statuses = append(sel.Statuses, st)
	}
	return sel, nil
}
