package services

import (
	"bytes"
	"context"
	"fmt"

	"pastillero-service/database"
	"pastillero-service/models"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Estadisticas"

var exportHeader = []string{"ID", "Módulo", "Dispensación (UTC)", "Recogida (UTC)", "Espera (s)", "Registrado (UTC)"}

// Export renders the matching statistics as an .xlsx workbook.
func (s *StatisticsService) Export(ctx context.Context, filter database.StatisticFilter) ([]byte, error) {
	stats, err := s.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return StatisticsWorkbook(stats)
}

// StatisticsWorkbook builds a single-sheet workbook with a frozen header row.
func StatisticsWorkbook(stats []models.DispenseStatistic) ([]byte, error) {
	f := excelize.NewFile()

	index, err := f.NewSheet(exportSheet)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for col, title := range exportHeader {
		if err := setCell(f, col+1, 1, title); err != nil {
			f.Close()
			return nil, err
		}
	}
	lastCol, err := excelize.ColumnNumberToName(len(exportHeader))
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to convert column number: %w", err)
	}
	if err := f.SetCellStyle(exportSheet, "A1", lastCol+"1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to style header: %w", err)
	}
	if err := f.SetColWidth(exportSheet, "A", lastCol, 24); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to set column width: %w", err)
	}

	for i, stat := range stats {
		row := i + 2
		values := []interface{}{
			stat.ID,
			stat.Module,
			models.FormatTime(stat.DispensedAt),
			models.FormatTime(stat.PickedUpAt),
			stat.PickupDelay().Seconds(),
			models.FormatTime(stat.RecordedAt),
		}
		for col, value := range values {
			if err := setCell(f, col+1, row, value); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	if err := f.SetPanes(exportSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to freeze panes: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to convert coordinates: %w", err)
	}
	if err := f.SetCellValue(exportSheet, cell, value); err != nil {
		return fmt.Errorf("failed to set cell %s: %w", cell, err)
	}
	return nil
}
