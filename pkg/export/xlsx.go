package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ruslano69/sqlbridge/pkg/client"
)

// maxColumnWidth - предел автоширины колонки в символах
const maxColumnWidth = 60

// WriteXLSX выгружает результат запроса в Excel файл.
// Первая строка - имена колонок с жирным шрифтом на синем фоне,
// ширина колонок подбирается по содержимому.
func WriteXLSX(path string, result *client.Result, sheetName string) error {
	if result == nil {
		return fmt.Errorf("result is nil")
	}
	if sheetName == "" {
		sheetName = "Sheet1"
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	widths := make([]int, len(result.Columns))

	for col, name := range result.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
		widths[col] = len(name)
	}

	for rowIdx, row := range result.RowStrings("") {
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
			if col < len(widths) && len(value) > widths[col] {
				widths[col] = len(value)
			}
		}
	}

	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			continue
		}
		w := float64(width + 2)
		if w > maxColumnWidth {
			w = maxColumnWidth
		}
		f.SetColWidth(sheetName, name, name, w)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save xlsx: %w", err)
	}

	return nil
}
