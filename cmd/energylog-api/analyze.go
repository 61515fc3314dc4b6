package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/JonnyWalker81/energylog/backend/internal/analytics"
	"github.com/JonnyWalker81/energylog/backend/internal/config"
	"github.com/JonnyWalker81/energylog/backend/internal/logger"
	"github.com/JonnyWalker81/energylog/backend/internal/models"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Compute an insight bundle from a JSON snapshot",
	Long: `Read a snapshot of energy logs and adjacent tracker signals as JSON
and print the insight bundle the API would return for it.`,
	RunE: runAnalyze,
}

var (
	analyzeFile     string
	analyzeNow      string
	analyzeTimezone string
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeFile, "file", "f", "-", "Snapshot file, - for stdin")
	analyzeCmd.Flags().StringVar(&analyzeNow, "now", "", "Evaluate as of this RFC3339 time (default: current time)")
	analyzeCmd.Flags().StringVar(&analyzeTimezone, "timezone", "", "IANA time zone for calendar dates (overrides config)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadAnalytics()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if analyzeTimezone != "" {
		cfg.Analytics.Timezone = analyzeTimezone
	}
	loc, err := cfg.Analytics.Location()
	if err != nil {
		return err
	}

	now := time.Now()
	if analyzeNow != "" {
		now, err = time.Parse(time.RFC3339, analyzeNow)
		if err != nil {
			return fmt.Errorf("invalid --now %q: %w", analyzeNow, err)
		}
	}

	// Bundle goes to stdout, logs to stderr
	log, err := logger.New(logger.Config{
		Level:   logger.ParseLevel(cfg.Logging.Level),
		Format:  cfg.Logging.Format,
		Backend: cfg.Logging.Backend,
		Output:  os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync(log)

	in := cmd.InOrStdin()
	if analyzeFile != "-" {
		f, err := os.Open(analyzeFile)
		if err != nil {
			return fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer f.Close()
		in = f
	}

	analyzer := analytics.NewAnalyzer(
		analytics.WithLocation(loc),
		analytics.WithClock(func() time.Time { return now }),
		analytics.WithWindows(cfg.Analytics.WeeklyDays, cfg.Analytics.MonthlyDays),
		analytics.WithLogger(log),
	)

	return analyzeSnapshot(in, cmd.OutOrStdout(), analyzer)
}

// analyzeSnapshot decodes a snapshot from r and writes the indented bundle to w
func analyzeSnapshot(r io.Reader, w io.Writer, analyzer *analytics.Analyzer) error {
	var snapshot models.AnalysisSnapshot
	if err := json.NewDecoder(r).Decode(&snapshot); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	entries, err := analytics.NewEntryCollection(snapshot.Entries)
	if err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	signals := snapshot.Signals
	if signals.Sleep == nil {
		signals.Sleep = []models.SleepSignal{}
	}
	if signals.Consumption == nil {
		signals.Consumption = []models.ConsumptionSignal{}
	}
	if signals.Withdrawal == nil {
		signals.Withdrawal = []models.WithdrawalEvent{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(analyzer.Analyze(entries, signals))
}
