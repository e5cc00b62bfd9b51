package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/turtacn/AeroOps/internal/application/statistics"
)

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Dashboard statistics",
	}
	cmd.AddCommand(newStatsPurchaseOrdersCmd())
	return cmd
}

type purchaseOrderResult struct {
	*statistics.PurchaseOrderReport
}

func (r purchaseOrderResult) TableHeaders() []string {
	return []string{"Month", "Total", "Transport VE", "Transport USA", "Taxes", "Wire fee", "Handling fee"}
}

func (r purchaseOrderResult) TableRows() [][]string {
	rows := make([][]string, 0, len(r.Series))
	for _, m := range r.Series {
		rows = append(rows, []string{
			m.Month,
			m.Total.StringFixed(2),
			m.TransportVenezuela.StringFixed(2),
			m.TransportUSA.StringFixed(2),
			m.Taxes.StringFixed(2),
			m.WireFee.StringFixed(2),
			m.HandlingFee.StringFixed(2),
		})
	}
	return rows
}

func (r purchaseOrderResult) Text() string {
	s := fmt.Sprintf("%s: annual total %s, series total %s", r.Year, r.TotalAnnual.StringFixed(2), r.SeriesTotal.StringFixed(2))
	if r.Highest != nil {
		s += fmt.Sprintf(", highest month %s (%s)", r.Highest.Month, r.Highest.Total.StringFixed(2))
	}
	return s
}

func newStatsPurchaseOrdersCmd() *cobra.Command {
	var from, to, year string

	cmd := &cobra.Command{
		Use:   "purchase-orders",
		Short: "Monthly purchase-order amounts for one year",
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if err := cliCtx.requireTenant(); err != nil {
				return err
			}
			if from == "" || to == "" {
				y := time.Now().Year()
				if year != "" {
					if y, err = strconv.Atoi(year); err != nil {
						return fmt.Errorf("invalid --year %q", year)
					}
				}
				if from == "" {
					from = fmt.Sprintf("%04d-01-01", y)
				}
				if to == "" {
					to = fmt.Sprintf("%04d-12-31", y)
				}
			}
			var rep statistics.PurchaseOrderReport
			if err := cliCtx.API.PurchaseOrders(cmd.Context(), from, to, year, &rep); err != nil {
				return err
			}
			if cliCtx.Output == "json" {
				return PrintResult(cmd, &rep)
			}
			res := purchaseOrderResult{&rep}
			if err := PrintResult(cmd, res); err != nil {
				return err
			}
			if cliCtx.Output == "table" {
				fmt.Fprintln(cmd.OutOrStdout(), res.Text())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "range start (yyyy-MM-dd, default January 1st of --year)")
	cmd.Flags().StringVar(&to, "to", "", "range end (yyyy-MM-dd, default December 31st of --year)")
	cmd.Flags().StringVar(&year, "year", "", "year to display (default: year of --to)")
	return cmd
}

//Personal.AI order the ending
