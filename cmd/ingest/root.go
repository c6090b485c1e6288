package main

import (
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/config"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/ingest"
	"github.com/PC-User-Guest/NYC-Taxi-Data-Engineering-Project/internal/probe"
)

// runFn is a test seam over ingest.Run.
var runFn = ingest.Run

// NewRootCommand builds the CLI. The root command runs the full job; the
// subcommands validate the configuration or run one loader.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	cfg := config.Default()
	var configFile string

	rc := &cobra.Command{
		Use:   "taxi-ingest",
		Short: "Load NYC taxi zones and trips into a database",
		Long: `taxi-ingest downloads the taxi zone lookup and a trip file (Parquet or CSV),
waits for the database, replaces the zone table and replaces one window of
trips. Re-running with the same input leaves the same rows.

Every flag can also be set through its environment variable (PG_HOST,
POSTGRES_DB, GREEN_PARQUET_URL, ...) or a TOML file given with --config.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log.SetOutput(stderr)
			log.SetPrefix("[taxi-ingest] ")
			log.SetFlags(log.LstdFlags | log.Lmicroseconds)
			if err := config.Apply(viper.New(), cmd.Flags(), configFile); err != nil {
				return fmt.Errorf("%w: %w", config.ErrInvalid, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg, ingest.AllSteps, stderr)
		},
	}
	rc.SetOut(stdout)
	rc.SetErr(stderr)

	rc.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML configuration file")
	config.BindFlags(rc.PersistentFlags(), &cfg)

	rc.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Check the configuration and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := report(cfg, stderr); err != nil {
				return err
			}
			fmt.Fprintf(stdout, "configuration is valid (db-kind=%s, trips=%s, zones=%s)\n",
				cfg.DB.Kind, cfg.TripsPath(), cfg.ZonesPath())
			return nil
		},
	})
	rc.AddCommand(&cobra.Command{
		Use:   "zones",
		Short: "Replace the zone table only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg, ingest.Steps{Zones: true}, stderr)
		},
	})
	rc.AddCommand(&cobra.Command{
		Use:   "trips",
		Short: "Replace the trip window only",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, cfg, ingest.Steps{Trips: true}, stderr)
		},
	})
	rc.AddCommand(newInspectCommand(&cfg, stdout))
	return rc
}

func newInspectCommand(cfg *config.Config, stdout io.Writer) *cobra.Command {
	var sample int
	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Show how a trip file maps onto the trip table",
		Long: `inspect samples a local trip file (the configured trips file when no
argument is given) and prints each source column with its inferred type and
the trip column it loads into. Nothing is written to the database.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfg.TripsPath()
			if len(args) == 1 {
				path = args[0]
			}
			rep, err := probe.Trips(cmd.Context(), path, sample)
			if err != nil {
				return err
			}
			printReport(stdout, rep)
			return nil
		},
	}
	cmd.Flags().IntVar(&sample, "sample", probe.DefaultSampleRows, "rows to sample")
	return cmd
}

func printReport(w io.Writer, rep probe.Report) {
	fmt.Fprintf(w, "file:    %s (%s, %d rows sampled)\n", rep.Path, rep.Format, rep.Sampled)
	if rep.WindowErr != nil {
		fmt.Fprintf(w, "window:  none (%v)\n", rep.WindowErr)
	} else {
		fmt.Fprintf(w, "window:  %s\n", rep.Window)
	}
	fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SOURCE\tTYPE\tNON-NULL\tLOADS INTO")
	for _, c := range rep.Columns {
		target := c.Canonical
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", c.Name, c.Type, c.NonNull, target)
	}
	_ = tw.Flush()

	if len(rep.Missing) > 0 {
		fmt.Fprintf(w, "\nloaded as NULL: %s\n", strings.Join(rep.Missing, ", "))
	}
}

// report prints every issue and returns a config error if any blocks.
func report(cfg config.Config, w io.Writer) error {
	for _, iss := range config.Validate(cfg) {
		fmt.Fprintf(w, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	return config.Check(cfg)
}

func run(cmd *cobra.Command, cfg config.Config, steps ingest.Steps, stderr io.Writer) error {
	if err := report(cfg, stderr); err != nil {
		return err
	}
	runID := ingest.NewRunID()
	flush, err := ingest.SetupMetrics(cfg, runID)
	if err != nil {
		log.Printf("WARN: metrics disabled: %v", err)
		flush = func() {}
	}
	defer flush()

	_, err = runFn(cmd.Context(), cfg, steps, runID)
	return err
}
