package cmd

import (
	"github.com/spf13/cobra"

	"github.com/naka-gawa/devdash/internal/config"
	"github.com/naka-gawa/devdash/internal/domain"
	"github.com/naka-gawa/devdash/internal/usecase"
)

func newHealthCmd(opts *options) *cobra.Command {
	var (
		severity  string
		eventType string
		sortBy    string
		asc       bool
	)

	healthCmd := &cobra.Command{
		Use:   "health",
		Short: "Computes the repository health dashboard and outputs it as JSON",
		Long: `Sorts repositories, bands their health scores against the threshold, filters the
alert feed by severity, filters the status timeline by event type and lists
unacknowledged critical alerts, in JSON format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := usecase.ParseSortField(sortBy)
			if err != nil {
				return err
			}

			rt, err := opts.setup(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck

			query := healthQuery(rt.cfg.Health, severity, eventType, usecase.TableSort{Field: field, Direction: direction(asc)})
			report, err := rt.aggregator.Health(cmd.Context(), query)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), report)
		},
	}

	healthCmd.Flags().Int("threshold", 85, "Health score threshold (0-100)")
	healthCmd.Flags().String("environment", "production", "Environment label (production, staging, development)")
	bindFlag(opts.v, "health.threshold", healthCmd.Flags().Lookup("threshold"))
	bindFlag(opts.v, "health.environment", healthCmd.Flags().Lookup("environment"))
	healthCmd.Flags().StringVar(&severity, "severity", "all", "Minimum alert severity (all, critical, warning, info)")
	healthCmd.Flags().StringVar(&eventType, "event-type", domain.EventTypeAll, "Timeline event type (all, deployment, ci_failure, sync_issue, health_improvement)")
	healthCmd.Flags().StringVar(&sortBy, "sort", string(usecase.SortHealthScore), "Repository table sort field")
	healthCmd.Flags().BoolVar(&asc, "asc", false, "Sort ascending instead of descending")
	return healthCmd
}

func healthQuery(cfg config.HealthConfig, severity, eventType string, sort usecase.TableSort) usecase.HealthQuery {
	return usecase.HealthQuery{
		Environment: cfg.Environment,
		Threshold:   cfg.Threshold,
		Severity:    severity,
		EventType:   eventType,
		Sort:        sort,
	}
}

func direction(asc bool) usecase.SortDirection {
	if asc {
		return usecase.Ascending
	}
	return usecase.Descending
}
