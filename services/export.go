package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"bilgin-backend/models"
)

// BuildQAExport renders the Q&A history into an XLSX workbook and returns
// its bytes, ready to stream as an attachment.
func BuildQAExport(records []models.QARecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Soru Gecmisi"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Soru", "Cevap", "İlgili Belge", "Tarih"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	if err == nil {
		f.SetRowStyle(sheet, 1, 1, headerStyle)
	}

	for row, record := range records {
		values := []interface{}{
			record.ID,
			record.Question,
			record.Answer,
			record.RelevantDocument,
			record.Timestamp.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	// Readable column widths for the free-text columns.
	f.SetColWidth(sheet, "B", "C", 60)
	f.SetColWidth(sheet, "D", "E", 24)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
