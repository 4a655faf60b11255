package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ayo6706/circulation-scheduler/internal/circulation"
	"github.com/ayo6706/circulation-scheduler/internal/domain"
	"github.com/ayo6706/circulation-scheduler/internal/models"
	"github.com/ayo6706/circulation-scheduler/internal/snapshot"
)

// errImbalanced is returned by audit --strict when any account fails the check.
var errImbalanced = errors.New("conservation check failed")

type auditOptions struct {
	input     string
	transfers string
	scope     string
	month     string
	format    string
	strict    bool
}

func newAuditCommand() *cobra.Command {
	var opts auditOptions

	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Check a transfer schedule for inflow/outflow conservation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.input, "input", "", "snapshot file with the accounts (required)")
	_ = cmd.MarkFlagRequired("input")
	cmd.Flags().StringVar(&opts.transfers, "transfers", "", "transfer array or plan file (required)")
	_ = cmd.MarkFlagRequired("transfers")
	cmd.Flags().StringVar(&opts.scope, "scope", domain.ScopeAll, `"all" or an account id`)
	cmd.Flags().StringVar(&opts.month, "month", domain.ScopeAll, `"all" or YYYY-MM`)
	cmd.Flags().StringVar(&opts.format, "format", formatText, "output format: text or json")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "exit non-zero when any account is imbalanced")

	return cmd
}

func runAudit(stdout io.Writer, opts auditOptions) error {
	if opts.format != formatText && opts.format != formatJSON {
		return fmt.Errorf("unsupported format %q", opts.format)
	}
	if opts.month != domain.ScopeAll {
		if _, err := time.Parse(domain.MonthLayout, opts.month); err != nil {
			return fmt.Errorf("month %q must be YYYY-MM or %q", opts.month, domain.ScopeAll)
		}
	}

	snap, err := snapshot.Load(opts.input)
	if err != nil {
		return err
	}
	transfers, err := snapshot.LoadTransfers(opts.transfers)
	if err != nil {
		return err
	}

	accounts := snap.Accounts
	if opts.scope == domain.ScopeAll && snap.Config != nil {
		accounts = circulation.Active(snap.Accounts, snap.Config.SelectedAccountIDs)
	}
	result := circulation.Audit(transfers, accounts, opts.scope, opts.month)
	if result == nil {
		return fmt.Errorf("account %q not found in %s", opts.scope, opts.input)
	}

	if opts.format == formatJSON {
		err = writeJSON(stdout, result)
	} else {
		err = writeAuditTable(stdout, result)
	}
	if err != nil {
		return err
	}

	if bad := circulation.Imbalanced(result); opts.strict && len(bad) > 0 {
		return fmt.Errorf("%w: %d imbalanced accounts", errImbalanced, len(bad))
	}
	return nil
}

func writeAuditTable(w io.Writer, result *models.AuditResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "ID\tNAME\tOUTFLOW\tINFLOW\tDIFF\tSTATUS\t\n")
	rows := result.Breakdowns
	if !result.IsGlobalAudit {
		rows = []models.AccountFlow{result.AccountFlow}
	}
	for _, row := range rows {
		writeFlowRow(tw, row)
	}
	if result.IsGlobalAudit {
		writeFlowRow(tw, result.AccountFlow)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "month: %s, imbalanced: %d\n", result.Month, len(circulation.Imbalanced(result)))
	return err
}

func writeFlowRow(w io.Writer, f models.AccountFlow) {
	status := "balanced"
	if !f.Balanced {
		status = "IMBALANCED"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t\n", f.ID, f.Name,
		domain.FormatAmount(f.Outflow), domain.FormatAmount(f.Inflow), domain.FormatAmount(f.Diff), status)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding json: %w", err)
	}
	return nil
}
