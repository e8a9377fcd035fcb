package export

import (
	"io"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetMetadata    = "Metadata"
	SheetSummary     = "Team Load"
	SheetInitiatives = "Initiatives"
)

// WriteXLSX writes the plan as a workbook with one sheet per section.
// Formatted numbers are stored as numeric cells.
func WriteXLSX(w io.Writer, plan *YearPlan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetMetadata); err != nil {
		return errors.Wrap(err, "naming metadata sheet")
	}
	if err := writeRows(f, SheetMetadata, plan.Metadata, false); err != nil {
		return err
	}

	for _, sheet := range []struct {
		name  string
		table Table
	}{
		{SheetSummary, plan.Summary},
		{SheetInitiatives, plan.Initiatives},
	} {
		if _, err := f.NewSheet(sheet.name); err != nil {
			return errors.Wrapf(err, "creating sheet %q", sheet.name)
		}
		rows := append([][]string{sheet.table.Headers}, sheet.table.Rows...)
		if err := writeRows(f, sheet.name, rows, true); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "writing xlsx")
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]string, numeric bool) error {
	for i, row := range rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = cellValue(v, numeric && i > 0)
		}
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return errors.Wrap(err, "cell name")
		}
		if err := f.SetSheetRow(sheet, axis, &cells); err != nil {
			return errors.Wrapf(err, "writing %s row %d", sheet, i+1)
		}
	}
	return nil
}

// cellValue converts two-decimal numbers back to floats so spreadsheets can
// sum them. Ids and free text stay strings.
func cellValue(v string, numeric bool) interface{} {
	if !numeric || !looksLikeAmount(v) {
		return v
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return v
	}
	return d.InexactFloat64()
}

func looksLikeAmount(v string) bool {
	n := len(v)
	if n < 4 || v[n-3] != '.' {
		return false
	}
	for i, r := range v {
		switch {
		case r >= '0' && r <= '9':
		case r == '-' && i == 0:
		case r == '.' && i == n-3:
		default:
			return false
		}
	}
	return true
}
