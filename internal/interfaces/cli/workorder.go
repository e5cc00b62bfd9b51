package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

func newWorkOrderCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "workorder",
		Aliases: []string{"wo"},
		Short:   "Work-order documents",
	}
	cmd.AddCommand(newPrelimPDFCmd())
	return cmd
}

func newPrelimPDFCmd() *cobra.Command {
	var (
		mode  string
		hours float64
		out   string
	)

	cmd := &cobra.Command{
		Use:   "prelim-pdf ORDER",
		Short: "Download the preliminary inspection PDF of a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cliCtx, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if err := cliCtx.requireTenant(); err != nil {
				return err
			}
			m, err := client.ParseHoursMode(mode)
			if err != nil {
				return err
			}
			if m == client.HoursManual && !cmd.Flags().Changed("hours") {
				return errors.InvalidParam("--hours is required in manual mode")
			}

			data, filename, err := cliCtx.API.PrelimInspection(cmd.Context(), args[0], m, hours)
			if err != nil {
				return err
			}
			dest := out
			if dest == "" {
				dest = filename
			} else if fi, statErr := os.Stat(dest); statErr == nil && fi.IsDir() {
				dest = filepath.Join(dest, filename)
			}
			if err := os.WriteFile(dest, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", dest, err)
			}
			cliCtx.Logger.Debug("prelim inspection saved")
			PrintSuccess(cmd, fmt.Sprintf("saved %s (%d bytes)", dest, len(data)))
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "hours-mode", string(client.HoursAuto), "aircraft hours source (auto, manual)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "aircraft hours, required with --hours-mode manual")
	cmd.Flags().StringVar(&out, "out", "", "output file or directory (default: server filename in the current directory)")
	return cmd
}

//Personal.AI order the ending
