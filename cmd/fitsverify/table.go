package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// printSummaryTable renders the --quiet run's per-file totals, grounded
// on marmos91-dittofs's borderless-table output convention.
func printSummaryTable(w io.Writer, rows []summaryRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"File", "HDUs", "Errors", "Warnings", "Status"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("  ")
	table.SetNoWhiteSpace(true)

	for _, r := range rows {
		status := "OK"
		if r.aborted {
			status = "ABORTED"
		}
		table.Append([]string{
			r.path,
			strconv.Itoa(r.hdus),
			strconv.Itoa(r.errs),
			strconv.Itoa(r.warns),
			status,
		})
	}
	table.Render()
}
