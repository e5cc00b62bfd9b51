package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/AeroOps/internal/application/quarantine"
	domain "github.com/turtacn/AeroOps/internal/domain/quarantine"
)

func newQuarantineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quarantine",
		Short: "Quarantine aging of inventory articles",
	}
	cmd.AddCommand(newQuarantineClassifyCmd(), newQuarantineListCmd())
	return cmd
}

// agingResult is the classify output.
type agingResult struct {
	EntryDate string        `json:"entry_date"`
	AsOf      string        `json:"as_of"`
	Policy    domain.Policy `json:"policy"`
	Aging     domain.Aging  `json:"aging"`
}

func (r agingResult) TableHeaders() []string {
	return []string{"Entry date", "Days", "Remaining", "State"}
}

func (r agingResult) TableRows() [][]string {
	return [][]string{{r.EntryDate, intOrDash(r.Aging.Days), intOrDash(r.Aging.Remaining), colorBand(r.Aging.State)}}
}

func (r agingResult) Text() string {
	if !r.Aging.Known() {
		return fmt.Sprintf("%s: %s", r.EntryDate, colorBand(r.Aging.State))
	}
	return fmt.Sprintf("%s: %d days in quarantine, %d remaining of %d, %s",
		r.EntryDate, *r.Aging.Days, *r.Aging.Remaining, r.Policy.LegalLimitDays, colorBand(r.Aging.State))
}

func newQuarantineClassifyCmd() *cobra.Command {
	var entryDate, asOf string

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify one entry date against the quarantine policy",
		Long:  "Evaluates the quarantine window locally; no server is contacted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			now := time.Now().In(cliCtx.Location)
			if asOf != "" {
				now, err = domain.ParseLocalDateIn(asOf, cliCtx.Location)
				if err != nil {
					return fmt.Errorf("invalid --as-of: %w", err)
				}
			}
			return PrintResult(cmd, agingResult{
				EntryDate: entryDate,
				AsOf:      domain.FormatDate(now),
				Policy:    cliCtx.Policy,
				Aging:     domain.ClassifyDate(entryDate, cliCtx.Policy, now),
			})
		},
	}
	cmd.Flags().StringVar(&entryDate, "entry-date", "", "quarantine entry date (yyyy-MM-dd)")
	cmd.Flags().StringVar(&asOf, "as-of", "", "evaluate as of this date instead of today (yyyy-MM-dd)")
	_ = cmd.MarkFlagRequired("entry-date")
	return cmd
}

// listResult wraps the server payload for table rendering.
type listResult struct {
	*quarantine.ListResult
}

func (r listResult) TableHeaders() []string {
	return []string{"ID", "Part number", "Serial", "Batch", "Entry date", "Days", "Remaining", "State"}
}

func (r listResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Items)+1)
	for _, it := range r.Items {
		rows = append(rows, []string{
			strconv.FormatInt(it.ID, 10),
			it.PartNumber,
			it.Serial,
			it.BatchName,
			it.EntryDate,
			intOrDash(it.Aging.Days),
			intOrDash(it.Aging.Remaining),
			colorBand(it.Aging.State),
		})
	}
	return rows
}

func (r listResult) Text() string {
	s := r.Summary
	return fmt.Sprintf("%d articles: %d ok, %d warning, %d expired, %d unknown",
		s.Total, s.OK, s.Warning, s.Expired, s.Unknown)
}

func newQuarantineListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List quarantined articles sorted by urgency",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if err := cliCtx.requireTenant(); err != nil {
				return err
			}
			var res quarantine.ListResult
			if err := cliCtx.API.Quarantine(cmd.Context(), &res); err != nil {
				return err
			}
			cliCtx.Logger.Debug("quarantine list fetched")
			if cliCtx.Output == "json" {
				return PrintResult(cmd, &res)
			}
			if err := PrintResult(cmd, listResult{&res}); err != nil {
				return err
			}
			if cliCtx.Output == "table" {
				fmt.Fprintln(cmd.OutOrStdout(), listResult{&res}.Text())
			}
			return nil
		},
	}
}

func intOrDash(p *int) string {
	if p == nil {
		return "-"
	}
	return strconv.Itoa(*p)
}

func colorBand(b domain.RiskBand) string {
	switch b {
	case domain.BandExpired:
		return color.RedString(string(b))
	case domain.BandWarning:
		return color.YellowString(string(b))
	case domain.BandOK:
		return color.GreenString(string(b))
	default:
		return string(b)
	}
}

//Personal.AI order the ending
