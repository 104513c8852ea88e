package report

import (
	"fmt"

	"github.com/cmlabs-hris/puantaj-backend-go/internal/domain/report"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	headerColor    = "667EEA"
	titleColor     = "1E293B"
	borderColor    = "E2E8F0"
	currencyFormat = `#,##0.00 "₺"`
	hoursFormat    = "0.00"
)

// workbook wraps an excelize file with the shared header and number styles.
type workbook struct {
	f        *excelize.File
	header   int
	title    int
	currency int
	hours    int
	text     int
	sheets   int
}

func newWorkbook() (*workbook, error) {
	f := excelize.NewFile()
	wb := &workbook{f: f}

	border := []excelize.Border{
		{Type: "left", Color: borderColor, Style: 1},
		{Type: "right", Color: borderColor, Style: 1},
		{Type: "top", Color: borderColor, Style: 1},
		{Type: "bottom", Color: borderColor, Style: 1},
	}
	currency := currencyFormat
	hours := hoursFormat

	var err error
	if wb.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    border,
	}); err != nil {
		return nil, wb.fail(err)
	}
	if wb.title, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: titleColor, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	}); err != nil {
		return nil, wb.fail(err)
	}
	if wb.currency, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &currency,
		Border:       border,
	}); err != nil {
		return nil, wb.fail(err)
	}
	if wb.hours, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &hours,
		Border:       border,
	}); err != nil {
		return nil, wb.fail(err)
	}
	if wb.text, err = f.NewStyle(&excelize.Style{Border: border}); err != nil {
		return nil, wb.fail(err)
	}

	return wb, nil
}

func (wb *workbook) fail(err error) error {
	wb.f.Close()
	return fmt.Errorf("%w: %v", report.ErrWorkbookGeneration, err)
}

// addSheet creates a sheet, reusing the default one for the first call.
func (wb *workbook) addSheet(name string) error {
	if wb.sheets == 0 {
		if err := wb.f.SetSheetName(wb.f.GetSheetName(0), name); err != nil {
			return err
		}
	} else if _, err := wb.f.NewSheet(name); err != nil {
		return err
	}
	wb.sheets++
	return nil
}

// writeHeader writes a styled header row, optionally freezing the rows above
// and including it.
func (wb *workbook) writeHeader(sheet string, row int, headers []string, widths []float64, freeze bool) error {
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(headers), row)
	if err != nil {
		return err
	}

	values := make([]interface{}, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := wb.f.SetSheetRow(sheet, first, &values); err != nil {
		return err
	}
	if err := wb.f.SetCellStyle(sheet, first, last, wb.header); err != nil {
		return err
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := wb.f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	if !freeze {
		return nil
	}
	below, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return err
	}
	return wb.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      row,
		TopLeftCell: below,
		ActivePane:  "bottomLeft",
	})
}

// writeRow writes values and applies a style per column.
func (wb *workbook) writeRow(sheet string, row int, values []interface{}, styles []int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := wb.f.SetSheetRow(sheet, start, &values); err != nil {
		return err
	}
	for i, style := range styles {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := wb.f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}
	return nil
}

func (wb *workbook) bytes() ([]byte, error) {
	defer wb.f.Close()

	wb.f.SetActiveSheet(0)
	buf, err := wb.f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrWorkbookGeneration, err)
	}
	return buf.Bytes(), nil
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
