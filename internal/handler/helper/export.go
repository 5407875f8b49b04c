package helper

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// Форматы выгрузки
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Table - лист выгрузки: заголовки и строки
type Table struct {
	Sheet   string
	Headers []string
	Rows    [][]interface{}
}

// utf8BOM нужен Excel, чтобы распознать UTF-8 в CSV
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// SanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func SanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

func cellString(v interface{}) string {
	switch value := v.(type) {
	case string:
		return SanitizeForExcel(value)
	case nil:
		return ""
	default:
		return fmt.Sprint(value)
	}
}

// WriteCSV пишет одну таблицу в CSV с BOM
func WriteCSV(w io.Writer, table Table) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(table.Headers); err != nil {
		return err
	}
	for _, row := range table.Rows {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = cellString(v)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteXLSX пишет таблицы на отдельные листы книги через StreamWriter
func WriteXLSX(w io.Writer, tables []Table) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, table := range tables {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", table.Sheet); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(table.Sheet); err != nil {
			return err
		}

		sw, err := f.NewStreamWriter(table.Sheet)
		if err != nil {
			return fmt.Errorf("failed to create stream writer: %w", err)
		}
		headers := make([]interface{}, len(table.Headers))
		for j, h := range table.Headers {
			headers[j] = h
		}
		if err := sw.SetRow("A1", headers); err != nil {
			return err
		}
		for j, row := range table.Rows {
			values := make([]interface{}, len(row))
			for k, v := range row {
				if s, ok := v.(string); ok {
					v = SanitizeForExcel(s)
				}
				values[k] = v
			}
			// Строка 1 - заголовки
			if err := sw.SetRow(fmt.Sprintf("A%d", j+2), values); err != nil {
				return err
			}
		}
		if err := sw.Flush(); err != nil {
			return err
		}
	}
	return f.Write(w)
}

// SendExport отдаёт выгрузку как вложение. CSV содержит только первую таблицу.
func SendExport(c *gin.Context, format, filename string, tables []Table) {
	if len(tables) == 0 {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Nothing to export"})
		return
	}
	switch format {
	case FormatXLSX:
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))
		c.Status(http.StatusOK)
		if err := WriteXLSX(c.Writer, tables); err != nil {
			log.Printf("[Export] failed to write %s.xlsx: %v", filename, err)
		}
	case FormatCSV:
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))
		c.Status(http.StatusOK)
		if err := WriteCSV(c.Writer, tables[0]); err != nil {
			log.Printf("[Export] failed to write %s.csv: %v", filename, err)
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
	}
}
