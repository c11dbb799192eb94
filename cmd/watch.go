package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/devdash/internal/domain"
	"github.com/naka-gawa/devdash/internal/usecase"
)

const (
	watchPRs    = "prs"
	watchHealth = "health"
)

// watchFrame is one line of watch output.
type watchFrame struct {
	Dashboard   string                `json:"dashboard"`
	LastUpdated time.Time             `json:"last_updated"`
	Metrics     *domain.Metrics       `json:"metrics,omitempty"`
	Health      *domain.HealthSummary `json:"health,omitempty"`
	Critical    []domain.Alert        `json:"critical_alerts,omitempty"`
}

func newWatchCmd(opts *options) *cobra.Command {
	var (
		dashboard string
		interval  time.Duration
		ticks     int
	)

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Prints a dashboard's summary on every auto-refresh tick",
		Long: `Prints the summary of the selected dashboard, then again on every refresh tick.
A tick only advances the "last updated" stamp; the reference data is not refetched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dashboard != watchPRs && dashboard != watchHealth {
				return fmt.Errorf("unknown dashboard %q (want %s or %s)", dashboard, watchPRs, watchHealth)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := opts.setup(ctx)
			if err != nil {
				return err
			}
			defer rt.logger.Sync() //nolint:errcheck

			refresher := rt.aggregator.PRRefresher()
			every := rt.cfg.PR.RefreshInterval
			if dashboard == watchHealth {
				refresher = rt.aggregator.HealthRefresher()
				every = rt.cfg.Health.RefreshInterval
			}
			if interval > 0 {
				every = interval
			}

			frame := func() (watchFrame, error) {
				if dashboard == watchPRs {
					report, err := rt.aggregator.PullRequests(ctx, domain.DefaultSelection())
					if err != nil {
						return watchFrame{}, err
					}
					return watchFrame{Dashboard: dashboard, LastUpdated: report.LastUpdated, Metrics: &report.Metrics}, nil
				}
				report, err := rt.aggregator.Health(ctx, healthQuery(rt.cfg.Health, domain.SeverityAll, domain.EventTypeAll, usecase.DefaultTableSort()))
				if err != nil {
					return watchFrame{}, err
				}
				return watchFrame{Dashboard: dashboard, LastUpdated: report.LastUpdated, Health: &report.Summary, Critical: report.CriticalAlerts}, nil
			}

			first, err := frame()
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), first); err != nil {
				return err
			}
			if ticks == 0 {
				return nil
			}

			runCtx, cancel := context.WithCancel(ctx)
			defer cancel()
			seen := 0
			var tickErr error
			runErr := refresher.Run(runCtx, every, func(time.Time) {
				if runCtx.Err() != nil {
					return
				}
				f, err := frame()
				if err == nil {
					err = printJSON(cmd.OutOrStdout(), f)
				}
				seen++
				if err != nil {
					tickErr = err
					cancel()
					return
				}
				if ticks > 0 && seen >= ticks {
					cancel()
				}
			})
			if runErr != nil {
				return runErr
			}
			return tickErr
		},
	}

	watchCmd.Flags().StringVar(&dashboard, "dashboard", watchPRs, "Dashboard to watch (prs or health)")
	watchCmd.Flags().DurationVar(&interval, "interval", 0, "Override the configured refresh interval")
	watchCmd.Flags().IntVar(&ticks, "ticks", -1, "Stop after N refresh ticks (0 prints once, negative runs until interrupted)")
	return watchCmd
}
