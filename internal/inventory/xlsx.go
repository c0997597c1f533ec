package inventory

import (
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// ReadFromXLSX ingests a workbook sheet with the same column, coercion, and
// id rules as ReadFromCSV. An empty sheet name selects the first sheet.
func (inv *AssetInventory) ReadFromXLSX(path string, keepExisting bool, typeLabel, idColumn, sheetName string) error {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return eris.Wrapf(err, "inventory: open xlsx %s", path)
	}

	sheet, err := pickSheet(f, sheetName, path)
	if err != nil {
		return err
	}

	var header []string
	var rows [][]string
	for i, row := range sheet.Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		if i == 0 {
			header = cells
			continue
		}
		rows = append(rows, cells)
	}
	if header == nil {
		return eris.Errorf("inventory: xlsx %s has no header row", path)
	}

	return inv.ingestRows(header, rows, keepExisting, typeLabel, idColumn, path)
}

func pickSheet(f *xlsx.File, name, path string) (*xlsx.Sheet, error) {
	if name != "" {
		sheet, ok := f.Sheet[name]
		if !ok {
			return nil, eris.Errorf("inventory: sheet %q not found in %s", name, path)
		}
		return sheet, nil
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("inventory: xlsx %s has no sheets", path)
	}
	return f.Sheets[0], nil
}
