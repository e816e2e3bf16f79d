package www

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/xuri/excelize/v2"

	"hwstatus/engine"
)

const reportSheet = "Availability"

func (h *Handlers) exportAvailabilityXLSX(w http.ResponseWriter, r *http.Request) {
	report, ok := h.runReport(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="hardware-availability-%s.xlsx"`,
		report.GeneratedAt.UTC().Format("20060102-150405")))
	if err := writeReportXLSX(w, report); err != nil {
		log.Printf("www: write xlsx report %s: %v", report.ID, err)
	}
}

func writeReportXLSX(out io.Writer, report *engine.Report) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return err
	}
	if err := f.SetSheetRow(reportSheet, "A1", &[]any{"Provider", "Name", "Availability"}); err != nil {
		return err
	}
	for i, res := range report.Results {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(reportSheet, cell, &[]any{res.Provider, res.Name, string(res.Availability)}); err != nil {
			return err
		}
	}
	if err := f.SetDocProps(&excelize.DocProperties{
		Title:      "Hardware availability",
		Identifier: report.ID,
		Created:    report.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z"),
	}); err != nil {
		return err
	}
	_, err := f.WriteTo(out)
	return err
}
