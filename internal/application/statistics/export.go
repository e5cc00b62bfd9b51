package statistics

import (
	"context"

	"github.com/xuri/excelize/v2"

	domain "github.com/turtacn/AeroOps/internal/domain/statistics"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/AeroOps/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/AeroOps/pkg/client"
	"github.com/turtacn/AeroOps/pkg/errors"
)

// XLSXContentType is the media type of the exported workbook.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	summarySheet = "Resumen"
	detailSheet  = "Detalle"
)

var summaryHeaders = []string{
	"Mes", "Total", "Transporte Venezuela", "Transporte USA", "Impuestos", "Comisión transferencia", "Manejo", "Órdenes",
}

var detailHeaders = []string{"Mes", "Orden", "Proveedor", "Estado", "Fecha", "Total"}

// ExportFilename is the download name of the workbook for a year.
func ExportFilename(tenant, year string) string {
	return "estadisticas_compras_" + tenant + "_" + year + ".xlsx"
}

func (s *serviceImpl) ExportXLSX(ctx context.Context, q Query) ([]byte, error) {
	q, err := q.validate()
	if err != nil {
		return nil, err
	}
	raw, err := s.purchaseOrders(ctx, q)
	if err != nil {
		return nil, err
	}
	data, err := buildWorkbook(raw, q.Year, s.opts.MonthOrder)
	prometheus.RecordStatisticsExport(s.metrics, err)
	if err != nil {
		s.logger.Error("failed to build workbook", logging.Tenant(q.Tenant), logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeExportFailed, "build statistics workbook")
	}
	return data, nil
}

func buildWorkbook(raw *client.PurchaseOrderStatistics, year string, order []string) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(summarySheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if _, err := f.NewSheet(detailSheet); err != nil {
		return nil, err
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return nil, err
	}

	series := domain.BuildMonthlySeries(toMetrics(raw), year, order)
	counts := map[string]float64{}
	for _, p := range domain.BuildValueSeries(raw.Count, year, order) {
		counts[p.Month] = p.Value
	}

	if err := writeRow(f, summarySheet, 1, toCells(summaryHeaders)); err != nil {
		return nil, err
	}
	for i, m := range series {
		row := []interface{}{
			m.Month,
			m.Total.InexactFloat64(),
			m.TransportVenezuela.InexactFloat64(),
			m.TransportUSA.InexactFloat64(),
			m.Taxes.InexactFloat64(),
			m.WireFee.InexactFloat64(),
			m.HandlingFee.InexactFloat64(),
			counts[m.Month],
		}
		if err := writeRow(f, summarySheet, i+2, row); err != nil {
			return nil, err
		}
	}
	totalRow := len(series) + 2
	annual := domain.TotalAnnual(raw.TotalAnnual, year)
	if err := writeRow(f, summarySheet, totalRow, []interface{}{"Total " + year, annual.InexactFloat64()}); err != nil {
		return nil, err
	}
	if err := styleRange(f, summarySheet, 1, 1, len(summaryHeaders), headerStyle); err != nil {
		return nil, err
	}
	last, err := excelize.CoordinatesToCellName(7, totalRow)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(summarySheet, "B2", last, moneyStyle); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(summarySheet, "A", "H", 18); err != nil {
		return nil, err
	}

	if err := writeRow(f, detailSheet, 1, toCells(detailHeaders)); err != nil {
		return nil, err
	}
	if err := styleRange(f, detailSheet, 1, 1, len(detailHeaders), headerStyle); err != nil {
		return nil, err
	}
	row := 2
	for _, m := range series {
		for _, rec := range domain.Drilldown(raw.Records, year, m.Month) {
			cells := []interface{}{m.Month, rec.OrderNumber, rec.Vendor, rec.Status, rec.Date, rec.Total.InexactFloat64()}
			if err := writeRow(f, detailSheet, row, cells); err != nil {
				return nil, err
			}
			row++
		}
	}
	if err := f.SetColWidth(detailSheet, "A", "F", 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func styleRange(f *excelize.File, sheet string, row, fromCol, toCol, style int) error {
	from, err := excelize.CoordinatesToCellName(fromCol, row)
	if err != nil {
		return err
	}
	to, err := excelize.CoordinatesToCellName(toCol, row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, from, to, style)
}

//Personal.AI order the ending
