package protocol

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Tabular exports of the protocol result table, for spreadsheets and
// import into other tools. Both exports are deterministic for the same
// ProtocolData, like the HTML renderer.

var exportHeader = []string{"Section", "Point", "Circuit", "Type", "Measurements", "Result"}

// exportRows flattens the room groups and the LPS section into one table.
func exportRows(data *ProtocolData) [][]string {
	var rows [][]string
	appendSection := func(title string, points []PointRow) {
		for _, row := range points {
			rows = append(rows, []string{
				title,
				row.Point.Label,
				strVal(row.Point.CircuitSymbol),
				string(row.Point.Type),
				strings.Join(formatReadings(row, data), "; "),
				row.Status.ReportLabel(),
			})
		}
	}
	for _, room := range data.Rooms {
		appendSection(room.Name, room.Points)
	}
	if data.Lps != nil {
		appendSection("Lightning protection system", data.Lps.Points)
	}
	return rows
}

// ExportXLSX generates an Excel workbook with the protocol header block
// and the result table.
func ExportXLSX(data *ProtocolData) (*excelize.File, error) {
	f := excelize.NewFile()
	sheetName := "Protocol"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)

	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	})
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	f.SetCellValue(sheetName, "A1", "Electrical installation inspection protocol")
	f.SetCellStyle(sheetName, "A1", "A1", titleStyle)
	f.SetCellValue(sheetName, "A2", "Client")
	f.SetCellValue(sheetName, "B2", data.Client.Name+", "+data.Client.Address)
	f.SetCellValue(sheetName, "A3", "Object")
	f.SetCellValue(sheetName, "B3", data.Object.Name+", "+data.Object.Address)
	f.SetCellValue(sheetName, "A4", "Inspector")
	f.SetCellValue(sheetName, "B4", data.Inspector.Name)
	f.SetCellValue(sheetName, "A5", "Generated")
	f.SetCellValue(sheetName, "B5", data.GeneratedAt.Format("2006-01-02 15:04"))

	headerRow := 7
	for i, h := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(i+1, headerRow)
		if err != nil {
			return nil, err
		}
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	for r, row := range exportRows(data) {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, headerRow+1+r)
			if err != nil {
				return nil, err
			}
			f.SetCellValue(sheetName, cell, val)
		}
	}
	return f, nil
}

// ExportCSV generates the result table as CSV, header included.
func ExportCSV(data *ProtocolData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, row := range exportRows(data) {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}
