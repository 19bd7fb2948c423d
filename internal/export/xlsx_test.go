package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportLoadPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	result := buildTestResult()

	require.NoError(t, ExportLoadPlan(path, result))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetLoadPlan, SheetSummary}, f.GetSheetList())

	rows, err := f.GetRows(SheetLoadPlan)
	require.NoError(t, err)
	require.Len(t, rows, 1+len(result.Placements))
	assert.Equal(t, "Step", rows[0][0])
	assert.Equal(t, []string{"2", "1", "Crate B", "600", "0", "0", "600", "400", "500", "TRUE", "1"}, rows[2])
	assert.Equal(t, "2", rows[3][10], "the carton sits on the second level")

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	found := map[string]string{}
	for _, row := range summary {
		if len(row) >= 2 {
			found[row[0]] = row[1]
		}
	}
	assert.Equal(t, "52.5%", found["Fill Ratio"])
	assert.Equal(t, "Pipe", found["3"], "unplaced boxes are listed by id")
}

func TestExportLoadPlan_NoUnplaced(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")
	result := buildTestResult()
	result.Unplaced = nil

	require.NoError(t, ExportLoadPlan(path, result))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Len(t, summary, len(SummaryItems(result)))
}
