package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	jsonio "perfgate/adapters/io/json"
	perfrng "perfgate/adapters/rng"
	"perfgate/app"
	"perfgate/domain/core"
	"perfgate/domain/gate"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system environment variables")
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

// exitCodeFor maps a returned error to the CLI's exit code contract. The
// gate command exits 1 directly on a FAIL aggregate (see runGate), so any
// error that reaches here is always a setup or input failure: exit 2.
func exitCodeFor(err error) int {
	return 2
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "perfgate",
		Short: "Performance-regression gating engine for CI",
	}
	cmd.AddCommand(newGateCmd())
	return cmd
}

func newGateCmd() *cobra.Command {
	cfg := gate.DefaultConfig()
	var mode string
	var outputDir string

	cmd := &cobra.Command{
		Use:   "gate <baseline.json> <target.json>",
		Short: "Evaluate a target trace document against a baseline for performance regressions",
		Long: `gate compares every trace present in both baseline.json and target.json and
emits a PASS, FAIL, NO_CHANGE, or INCONCLUSIVE verdict per trace, aggregating
to a single process exit code: 0 on success, 1 if any trace FAILs, 2 on a
parse or schema error.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch mode {
			case "pr":
				cfg.Mode = gate.ModePR
			case "release":
				cfg.Mode = gate.ModeRelease
			default:
				return fmt.Errorf("%w: --mode must be pr or release, got %q", core.ErrSchemaInvalid, mode)
			}
			return runGate(cmd.Context(), args[0], args[1], outputDir, cfg)
		},
	}

	cmd.Flags().StringVar(&outputDir, "output-dir", "", "directory to write the run summary JSON report")
	cmd.Flags().StringVar(&mode, "mode", "pr", "verdict mode: pr or release")
	cmd.Flags().Float64Var(&cfg.MSFloor, "ms-floor", cfg.MSFloor, "absolute median-regression floor, in milliseconds")
	cmd.Flags().Float64Var(&cfg.PctFloor, "pct-floor", cfg.PctFloor, "relative median-regression floor, as a fraction of baseline median")
	cmd.Flags().Float64Var(&cfg.TailMSFloor, "tail-ms-floor", cfg.TailMSFloor, "absolute tail-regression floor, in milliseconds")
	cmd.Flags().Float64Var(&cfg.TailPctFloor, "tail-pct-floor", cfg.TailPctFloor, "relative tail-regression floor, as a fraction of baseline tail")
	cmd.Flags().Float64Var(&cfg.DirectionalityThreshold, "directionality", cfg.DirectionalityThreshold, "informational directionality threshold surfaced in details")
	cmd.Flags().Float64Var(&cfg.Alpha, "mann-whitney-alpha", cfg.Alpha, "significance level for the Mann-Whitney detector")
	cmd.Flags().BoolVar(&cfg.NoMannWhitney, "no-mann-whitney", cfg.NoMannWhitney, "disable the Mann-Whitney detector")
	cmd.Flags().Float64Var(&cfg.EquivalenceMarginMs, "equivalence-margin-ms", cfg.EquivalenceMarginMs, "release-mode TOST equivalence margin, in milliseconds")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "master seed for bootstrap resampling")

	return cmd
}

func runGate(ctx context.Context, baselinePath, targetPath, outputDir string, cfg gate.Config) error {
	ioAdapter := jsonio.New()

	baseline, err := ioAdapter.ReadTraces(ctx, baselinePath)
	if err != nil {
		return err
	}
	target, err := ioAdapter.ReadTraces(ctx, targetPath)
	if err != nil {
		return err
	}

	orchestrator := app.NewOrchestratorService(app.NewGateService(), perfrng.New())

	summary, err := orchestrator.Run(ctx, baseline, target, cfg)
	if err != nil {
		return err
	}

	if err := ioAdapter.WriteSummary(ctx, outputDir, summary); err != nil {
		return err
	}

	printSummary(summary)

	if summary.Failed {
		os.Exit(1)
	}
	return nil
}

func printSummary(summary app.RunSummary) {
	for _, r := range summary.Results {
		fmt.Printf("%-32s %-12s %s\n", r.Name, r.Status, r.Reason)
	}
	for _, n := range summary.MissingBaseline {
		fmt.Printf("%-32s %-12s present in target only\n", n, "SKIPPED")
	}
	for _, n := range summary.MissingTarget {
		fmt.Printf("%-32s %-12s present in baseline only\n", n, "SKIPPED")
	}
}
