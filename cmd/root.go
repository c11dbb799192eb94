// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/naka-gawa/devdash/internal/config"
	"github.com/naka-gawa/devdash/internal/gateway"
	"github.com/naka-gawa/devdash/internal/usecase"
)

// options carries the state shared by every sub-command.
type options struct {
	verbose    bool
	configPath string
	v          *viper.Viper
}

// NewRootCmd builds the command tree. Each call returns fresh flag state.
func NewRootCmd() *cobra.Command {
	opts := &options{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "devdash",
		Short: "Pull-request analytics and repository health dashboards.",
		Long: `devdash computes two read-only dashboards over reference data:
pull-request analytics (filtered PR metrics, reviewer leaderboard, workflow funnel)
and repository health monitoring (health scores, alerts, status timeline).
Results are printed as JSON or served over HTTP.`,
		SilenceUsage: true,
	}

	// Persistent flags are available to all commands.
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable logging (debug level unless log.level is set)")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a devdash.yaml config file")
	rootCmd.PersistentFlags().String("fixture", "", "YAML fixture path or http(s) URL (default: built-in seed data)")
	rootCmd.PersistentFlags().Int64("seed", 42, "Seed for the placeholder series generators")
	rootCmd.PersistentFlags().Int("synthetic", 0, "Append N deterministic synthetic pull requests")
	bindFlag(opts.v, "data.fixture", rootCmd.PersistentFlags().Lookup("fixture"))
	bindFlag(opts.v, "data.seed", rootCmd.PersistentFlags().Lookup("seed"))
	bindFlag(opts.v, "data.synthetic", rootCmd.PersistentFlags().Lookup("synthetic"))

	rootCmd.AddCommand(
		newPRsCmd(opts),
		newHealthCmd(opts),
		newServeCmd(opts),
		newWatchCmd(opts),
	)
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// runtime is what a command needs after config, logging and data are set up.
type runtime struct {
	cfg        *config.Config
	logger     *zap.Logger
	aggregator *usecase.Aggregator
}

func (o *options) setup(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(o.v, o.configPath)
	if err != nil {
		return nil, err
	}
	logger, err := newLogger(cfg.Log, o.verbose)
	if err != nil {
		return nil, err
	}
	source, err := newSource(ctx, cfg.Data, time.Now(), logger)
	if err != nil {
		return nil, err
	}
	aggregator := usecase.NewAggregator(source, logger, usecase.WithSeed(cfg.Data.Seed))
	return &runtime{cfg: cfg, logger: logger, aggregator: aggregator}, nil
}

// newLogger discards all logs unless verbose is set. An empty level means debug.
func newLogger(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	if !verbose {
		return zap.NewNop(), nil
	}

	level := zapcore.DebugLevel
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	var zapConfig zap.Config
	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

func newSource(ctx context.Context, cfg config.DataConfig, now time.Time, logger *zap.Logger) (gateway.Source, error) {
	var gw *gateway.FixtureGateway
	if cfg.Fixture == "" {
		gw = gateway.NewSeedGateway(now, logger)
	} else {
		var err error
		gw, err = gateway.NewFixtureGateway(ctx, cfg.Fixture, now, &http.Client{Timeout: 30 * time.Second}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create fixture gateway: %w", err)
		}
	}

	if cfg.Synthetic > 0 {
		authors, err := gw.FetchAuthors(ctx)
		if err != nil {
			return nil, err
		}
		repos, err := gw.FetchRepositories(ctx)
		if err != nil {
			return nil, err
		}
		gw = gw.WithPullRequests(gateway.Synthesize(cfg.Seed, cfg.Synthetic, authors, repos, now)...)
		logger.Info("synthetic pull requests appended", zap.Int("count", cfg.Synthetic))
	}
	return gw, nil
}

func bindFlag(v *viper.Viper, key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		// Only fails for a nil flag, which is a programming error.
		panic(err)
	}
}

// printJSON marshals v into a pretty-printed JSON string and writes it to w.
func printJSON(w io.Writer, v any) error {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results to JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(jsonData))
	return err
}
