package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"airbnb-analysis/models"
	"airbnb-analysis/utils"
)

// Workbook sheet names.
const (
	SheetAggregates = "Aggregates"
	SheetSeasonal   = "Seasonal"
	SheetMonthly    = "Monthly"
	SheetPivot      = "Pivot"
)

// WorkbookData is everything written to the summary workbook.
type WorkbookData struct {
	Rankings []models.GroupRanking
	Seasonal []models.SeasonalAverage
	Monthly  []models.MonthlyTrend
	Pivot    *models.PivotTable
}

// XLSXWriter exports the derived tables as one sheet each.
type XLSXWriter struct {
	logger *utils.Logger
}

// NewXLSXWriter creates an XLSXWriter with the given logger.
func NewXLSXWriter(logger *utils.Logger) *XLSXWriter {
	return &XLSXWriter{logger: logger}
}

// Write builds the workbook in memory and saves it to path.
func (x *XLSXWriter) Write(path string, data WorkbookData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetAggregates); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}
	for _, name := range []string{SheetSeasonal, SheetMonthly, SheetPivot} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("xlsx: new sheet %s: %w", name, err)
		}
	}

	aggRows := [][]interface{}{{ColNeighbourhoodGroup, ColTotalListings, ColAveragePrice, ColRanking, ColRank}}
	for _, r := range data.Rankings {
		aggRows = append(aggRows, []interface{}{r.NeighbourhoodGroup, r.TotalListings, r.AveragePrice, r.Ranking, r.Rank})
	}
	if err := writeRows(f, SheetAggregates, aggRows); err != nil {
		return err
	}

	seasonRows := [][]interface{}{{ColMonth, ColSeasonalAverage}}
	for _, s := range data.Seasonal {
		seasonRows = append(seasonRows, []interface{}{s.Name, s.AveragePrice})
	}
	if err := writeRows(f, SheetSeasonal, seasonRows); err != nil {
		return err
	}

	monthRows := [][]interface{}{{ColMonthEnd, ColNumberOfReviews, ColAveragePrice}}
	for _, m := range data.Monthly {
		monthRows = append(monthRows, []interface{}{m.MonthEnd.Format(dateLayout), m.NumberOfReviews, m.AveragePrice})
	}
	if err := writeRows(f, SheetMonthly, monthRows); err != nil {
		return err
	}

	if err := writeRows(f, SheetPivot, pivotRows(data.Pivot)); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("xlsx: create output dir: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("xlsx: save %q: %w", path, err)
	}
	x.logger.Debug("[xlsx] Wrote workbook %s", path)
	return nil
}

func pivotRows(p *models.PivotTable) [][]interface{} {
	header := []interface{}{ColNeighbourhoodGroup}
	if p == nil {
		return [][]interface{}{header}
	}
	for _, c := range p.Columns {
		header = append(header, c)
	}
	rows := [][]interface{}{header}
	for _, r := range p.Rows {
		row := []interface{}{r}
		for _, c := range p.Columns {
			if v, ok := p.Cell(r, c); ok {
				row = append(row, v)
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", sheet, i+1, err)
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("xlsx: %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
