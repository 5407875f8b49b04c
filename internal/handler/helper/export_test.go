package helper

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleTable() Table {
	return Table{
		Sheet:   "Pages",
		Headers: []string{"path", "views"},
		Rows: [][]interface{}{
			{"/en/blog", int64(3)},
			{"=HYPERLINK(\"x\")", int64(1)},
		},
	}
}

func TestSanitizeForExcel(t *testing.T) {
	assert.Equal(t, "'=1+1", SanitizeForExcel("=1+1"))
	assert.Equal(t, "'@cmd", SanitizeForExcel("@cmd"))
	assert.Equal(t, "/en/blog", SanitizeForExcel("/en/blog"))
	assert.Equal(t, "", SanitizeForExcel(""))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleTable()))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, utf8BOM))
	assert.Equal(t, "path,views\n/en/blog,3\n\"'=HYPERLINK(\"\"x\"\")\",1\n", string(out[len(utf8BOM):]))
}

func TestWriteXLSX(t *testing.T) {
	daily := Table{Sheet: "Daily", Headers: []string{"date", "page_views"}, Rows: [][]interface{}{{"2025-03-01", int64(7)}}}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, []Table{sampleTable(), daily}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Pages", "Daily"}, f.GetSheetList())
	v, err := f.GetCellValue("Pages", "A2")
	require.NoError(t, err)
	assert.Equal(t, "/en/blog", v)
	v, err = f.GetCellValue("Pages", "A3")
	require.NoError(t, err)
	assert.Equal(t, "'=HYPERLINK(\"x\")", v)
	v, err = f.GetCellValue("Daily", "B2")
	require.NoError(t, err)
	assert.Equal(t, "7", v)
}
