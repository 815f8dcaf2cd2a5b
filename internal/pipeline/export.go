package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"reiswerk/internal"
)

// RoadbookRows flattens an import result into export rows, one per item in
// timeline order.
func RoadbookRows(result internal.ImportResult) []internal.RoadbookRow {
	out := make([]internal.RoadbookRow, 0, len(result.Items))
	for _, item := range result.Items {
		location := item.Location
		if location == "" && item.Pickup != "" {
			location = item.Pickup
		}
		out = append(out, internal.RoadbookRow{
			SortOrder: item.SortOrder,
			Type:      string(item.Type),
			Title:     item.Title,
			DateStart: item.DateStart,
			DateEnd:   item.DateEnd,
			Nights:    item.Nights,
			Location:  location,
			Price:     item.Price,
		})
	}
	return out
}

func ExportRoadbookXLSX(rows []internal.RoadbookRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"volgorde", "type", "titel", "datum_start", "datum_eind", "nachten", "locatie", "prijs",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.SortOrder)
		set(2, row.Type)
		set(3, row.Title)
		set(4, row.DateStart)
		set(5, row.DateEnd)
		set(6, emptyIfZero(row.Nights))
		set(7, row.Location)
		set(8, row.Price)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func emptyIfZero(v int) any {
	if v == 0 {
		return ""
	}
	return v
}
