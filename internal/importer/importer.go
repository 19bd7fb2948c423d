// Package importer loads container loading instances: box lists from CSV and
// Excel sheets with flexible column mapping, benchmark text files, JSON order
// files and YAML manifests.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/CargoFill/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation. Container is nil
// when the source only lists boxes.
type ImportResult struct {
	Container *model.Container
	Boxes     []model.Box
	Errors    []string
	Warnings  []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
type ColumnMapping struct {
	Label    int
	Length   int
	Width    int
	Height   int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "box", "box name", "description", "desc", "item", "sku"},
	"length":   {"length", "l", "len", "x", "length/mm", "length (mm)"},
	"width":    {"width", "w", "y", "width/mm", "width (mm)"},
	"height":   {"height", "h", "z", "height/mm", "height (mm)"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "pieces"},
}

// readCSV reads every record with a lenient reader: quotes may be sloppy and
// rows may differ in length.
func readCSV(r io.Reader, delim rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

var delimiterNames = map[rune]string{',': "comma", ';': "semicolon", '\t': "tab", '|': "pipe"}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and pipe
// whose rows most often agree with the first row's column count. Wider first
// rows win ties; a delimiter that yields a single column never wins.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0
	for _, delim := range []rune{',', ';', '\t', '|'} {
		records, err := readCSV(bytes.NewReader(data), delim)
		if err != nil || len(records) == 0 || len(records[0]) < 2 {
			continue
		}
		width := len(records[0])
		consistent := 0
		for _, rec := range records {
			if len(rec) == width {
				consistent++
			}
		}
		if score := consistent*10 + width; score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case-insensitive against known aliases for each column role.
// Returns the mapping and true if a header was detected, or the positional
// mapping Label, Length, Width, Height, Quantity and false otherwise.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{
		Label:    -1,
		Length:   -1,
		Width:    -1,
		Height:   -1,
		Quantity: -1,
	}
	slots := map[string]*int{
		"label":    &mapping.Label,
		"length":   &mapping.Length,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"quantity": &mapping.Quantity,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{
			Label:    0,
			Length:   1,
			Width:    2,
			Height:   3,
			Quantity: 4,
		}, false
	}

	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseSize reads a dimension in mm. Fractional sizes are rounded up so the
// box is never smaller than declared.
func parseSize(s string) (int, bool, error) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, false, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, err
	}
	return int(math.Ceil(f)), true, nil
}

// boxRow is one parsed line before it is expanded by quantity.
type boxRow struct {
	label    string
	length   int
	width    int
	height   int
	quantity int
}

// parseRow extracts a box row using the given column mapping.
// Returns the row, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount int) (boxRow, string, []string) {
	var warnings []string

	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Box %d", itemCount+1)
	}

	sizes := make([]int, 3)
	for i, col := range []struct {
		name string
		idx  int
	}{
		{"length", mapping.Length},
		{"width", mapping.Width},
		{"height", mapping.Height},
	} {
		str := getCell(row, col.idx)
		if str == "" {
			return boxRow{}, fmt.Sprintf("%s: Missing %s value", rowLabel, col.name), nil
		}
		n, rounded, err := parseSize(str)
		if err != nil {
			return boxRow{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, col.name, str), nil
		}
		if rounded {
			warnings = append(warnings, fmt.Sprintf("%s: Rounded %s '%s' up to %d mm", rowLabel, col.name, str, n))
		}
		sizes[i] = n
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		n, err := strconv.Atoi(qtyStr)
		if err != nil {
			return boxRow{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
		}
		qty = n
	}

	if sizes[0] <= 0 || sizes[1] <= 0 || sizes[2] <= 0 || qty <= 0 {
		return boxRow{}, fmt.Sprintf("%s: Length, width, height, and quantity must be positive", rowLabel), nil
	}

	return boxRow{
		label:    label,
		length:   sizes[0],
		width:    sizes[1],
		height:   sizes[2],
		quantity: qty,
	}, "", warnings
}

// expand appends quantity copies of the row to boxes with sequential ids.
// Copies after the first get a "#n" suffix so labels stay distinct.
func (r boxRow) expand(boxes []model.Box) []model.Box {
	for i := 0; i < r.quantity; i++ {
		b := model.NewBox(len(boxes), r.length, r.width, r.height)
		b.Label = r.label
		if r.quantity > 1 {
			b.Label = fmt.Sprintf("%s #%d", r.label, i+1)
		}
		boxes = append(boxes, b)
	}
	return boxes
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports boxes from a CSV file. The delimiter is detected and
// columns are mapped by header names when a header is present.
func ImportCSV(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	var warnings []string
	delim := DetectCSVDelimiter(data)
	if delim != ',' {
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", delimiterNames[delim]))
	}
	return importCSVRecords(bytes.NewReader(data), delim, warnings)
}

// ImportCSVFromReader imports boxes from CSV data with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	return importCSVRecords(reader, delimiter, nil)
}

func importCSVRecords(r io.Reader, delim rune, warnings []string) ImportResult {
	records, err := readCSV(r, delim)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}, Warnings: warnings}
	}
	if len(records) == 0 {
		return ImportResult{Errors: []string{"File is empty"}, Warnings: warnings}
	}
	return importFromRows(records, "Line", warnings)
}

// ImportExcel imports boxes from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	rows, err := firstSheetRows(path)
	if err != nil {
		return ImportResult{Errors: []string{err.Error()}}
	}
	if len(rows) == 0 {
		return ImportResult{Errors: []string{"Sheet is empty"}}
	}
	return importFromRows(rows, "Row", nil)
}

func firstSheetRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("Cannot open Excel file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("Excel file has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("Cannot read Excel data: %v", err)
	}
	return rows, nil
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and expands each row into boxes.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		if mapping.Length == -1 {
			missing = append(missing, "Length")
		}
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 4 {
		// An unrecognized header still has a non-numeric length column
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][1]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	items := 0
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		parsed, errMsg, warnings := parseRow(row, mapping, rowLabel, items)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		result.Boxes = parsed.expand(result.Boxes)
		items++
	}

	return result
}
