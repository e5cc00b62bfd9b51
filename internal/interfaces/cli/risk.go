package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	domain "github.com/turtacn/AeroOps/internal/domain/sms"
)

func newRiskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "risk",
		Short: "Safety risk matrix (probability 1-5, severity A-E)",
	}
	cmd.AddCommand(newRiskColorCmd(), newRiskMatrixCmd())
	return cmd
}

type cellResult struct {
	domain.Cell
}

func (c cellResult) TableHeaders() []string { return []string{"Probability", "Severity", "Code", "Band"} }

func (c cellResult) TableRows() [][]string {
	return [][]string{{c.Probability.String(), string(c.Severity), c.Code, colorRisk(c.Band)}}
}

func (c cellResult) Text() string { return fmt.Sprintf("%s %s", c.Code, colorRisk(c.Band)) }

func newRiskColorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "color PROBABILITY SEVERITY",
		Short: "Classify one matrix cell, e.g. `risk color 4 B`",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := domain.ParseProbability(args[0])
			if err != nil {
				return err
			}
			s, err := domain.ParseSeverity(args[1])
			if err != nil {
				return err
			}
			return PrintResult(cmd, cellResult{domain.Cell{Probability: p, Severity: s, Code: domain.Code(p, s), Band: domain.RiskColor(p, s)}})
		},
	}
}

// matrixResult renders the grid with probability 5 on the first row.
type matrixResult struct {
	Cells [][]domain.Cell `json:"cells"`
}

func (m matrixResult) TableHeaders() []string {
	headers := []string{"P \\ S"}
	for _, s := range domain.Severities {
		headers = append(headers, string(s))
	}
	return headers
}

func (m matrixResult) TableRows() [][]string {
	rows := make([][]string, 0, len(m.Cells))
	for _, row := range m.Cells {
		if len(row) == 0 {
			continue
		}
		line := []string{row[0].Probability.String()}
		for _, c := range row {
			line = append(line, colorRisk(c.Band)+" "+c.Code)
		}
		rows = append(rows, line)
	}
	return rows
}

func newRiskMatrixCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "matrix",
		Short: "Print the 5x5 risk matrix",
		RunE: func(cmd *cobra.Command, args []string) error {
			return PrintResult(cmd, matrixResult{Cells: domain.Matrix()})
		},
	}
}

func colorRisk(b domain.Band) string {
	switch b {
	case domain.BandHigh:
		return color.RedString(string(b))
	case domain.BandMedium:
		return color.YellowString(string(b))
	default:
		return color.GreenString(string(b))
	}
}

//Personal.AI order the ending
