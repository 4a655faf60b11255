package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayo6706/circulation-scheduler/internal/circulation"
	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/export"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/snapshot"
)

const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatText = "text"
)

type planOptions struct {
	input     string
	output    string
	format    string
	startDate string
	seed      uint64
}

func newPlanCommand() *cobra.Command {
	var opts planOptions

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Partition a snapshot's accounts and generate the transfer schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd.OutOrStdout(), cmd.ErrOrStderr(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "snapshot file with accounts, groups and optional config (required)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringVar(&opts.output, "output", "", "write the schedule to this file instead of stdout")
	cmd.Flags().StringVar(&opts.format, "format", formatJSON, "output format: json or csv")
	cmd.Flags().StringVar(&opts.startDate, "start", "", "schedule start date YYYY-MM-DD (default: config start date, else today)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "random seed; 0 seeds from the clock")

	return cmd
}

func runPlan(stdout, stderr io.Writer, opts planOptions) error {
	if opts.format != formatJSON && opts.format != formatCSV {
		return fmt.Errorf("unsupported format %q", opts.format)
	}

	snap, err := snapshot.Load(opts.input)
	if err != nil {
		return err
	}

	cfg := planConfig(snap.Config)
	if opts.startDate != "" {
		cfg.StartDate = opts.startDate
	}
	start, err := time.Parse(domain.DateLayout, cfg.StartDate)
	if err != nil {
		return fmt.Errorf("start date %q must be YYYY-MM-DD", cfg.StartDate)
	}

	rnd := circulation.NewTimeSeededRand()
	if opts.seed != 0 {
		rnd = circulation.NewRand(opts.seed)
	}

	active := circulation.Active(snap.Accounts, cfg.SelectedAccountIDs)
	groups := circulation.NewPartitioner(sequentialIDs("AUTO")).Partition(active, snap.Groups, cfg.GroupSize, cfg.CycleDays)
	transfers := circulation.NewGenerator(rnd, sequentialIDs("TX")).Generate(circulation.Schedulable(groups), active, start)

	plan := snapshot.Plan{Groups: groups, Transfers: transfers}
	for _, tx := range transfers {
		plan.TotalVolume += tx.Amount
	}

	if err := writePlan(stdout, opts, plan, snap.Accounts); err != nil {
		return err
	}

	fmt.Fprintf(stderr, "scheduled %d transfers across %d groups, volume %s\n",
		len(transfers), len(circulation.Schedulable(groups)), domain.FormatAmount(plan.TotalVolume))
	return nil
}

func writePlan(stdout io.Writer, opts planOptions, plan snapshot.Plan, accounts []models.Account) error {
	if opts.format == formatJSON && opts.output != "" {
		return snapshot.Save(opts.output, plan)
	}

	var buf bytes.Buffer
	switch opts.format {
	case formatCSV:
		if err := export.WriteTransfers(&buf, plan.Transfers, export.NewLabels(accounts, plan.Groups)); err != nil {
			return fmt.Errorf("writing csv: %w", err)
		}
	default:
		if err := writeJSON(&buf, plan); err != nil {
			return err
		}
	}

	if opts.output == "" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(opts.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", opts.output, err)
	}
	return nil
}

// planConfig fills in the defaults the server uses before any config is saved.
func planConfig(cfg *models.SimulationConfig) models.SimulationConfig {
	out := models.SimulationConfig{
		GroupSize: domain.DefaultGroupSize,
		CycleDays: domain.DefaultCycleDays,
		StartDate: time.Now().UTC().Format(domain.DateLayout),
	}
	if cfg == nil {
		return out
	}
	if cfg.GroupSize != 0 {
		out.GroupSize = cfg.GroupSize
	}
	if cfg.CycleDays != 0 {
		out.CycleDays = cfg.CycleDays
	}
	if cfg.StartDate != "" {
		out.StartDate = cfg.StartDate
	}
	out.SelectedAccountIDs = cfg.SelectedAccountIDs
	return out
}

func sequentialIDs(prefix string) circulation.IDFunc {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
