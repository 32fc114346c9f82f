package main

import (
	"encoding/json"
	"io"

	"github.com/astrogo/fitsverify/verify"
)

// message is one diagnostic in the JSON report (spec §6.3's JSON
// schema). FixHint/Explain are only populated when the matching CLI
// flags are set, mirroring the engine's own enrich-on-demand behavior.
type message struct {
	Severity string `json:"severity"`
	Code     int    `json:"code,omitempty"`
	HDU      int    `json:"hdu"`
	Text     string `json:"text"`
	FixHint  string `json:"fix_hint,omitempty"`
	Explain  string `json:"explain,omitempty"`
}

// fileResult is one file's entry in the JSON report.
type fileResult struct {
	File        string    `json:"file"`
	Messages    []message `json:"messages"`
	NumErrors   int       `json:"num_errors"`
	NumWarnings int       `json:"num_warnings"`
	NumHDUs     int       `json:"num_hdus"`
	Aborted     bool      `json:"aborted"`
}

// report is the top-level JSON document (spec §6.3).
type report struct {
	FitsverifyVersion string       `json:"fitsverify_version"`
	CfitsioVersion    string       `json:"cfitsio_version"`
	Files             []fileResult `json:"files"`
	TotalErrors       int          `json:"total_errors"`
	TotalWarnings     int          `json:"total_warnings"`
}

func newReport(version string) *report {
	return &report{
		FitsverifyVersion: version,
		CfitsioVersion:    "compat-4.x",
	}
}

func (r *report) writeTo(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// jsonCollector is a verify.Callback that accumulates diagnostics into
// a fileResult, for --json mode where the engine's own FILE sink is
// bypassed entirely.
type jsonCollector struct {
	fr fileResult
}

func newJSONCollector(path string) *jsonCollector {
	return &jsonCollector{fr: fileResult{File: path}}
}

func (c *jsonCollector) collect(d verify.Diagnostic, _ interface{}) {
	if d.Info {
		return
	}
	c.fr.Messages = append(c.fr.Messages, message{
		Severity: d.Severity.String(),
		Code:     int(d.Code),
		HDU:      d.HduIndex,
		Text:     d.Text,
		FixHint:  d.FixHint,
		Explain:  d.Explain,
	})
}

// summaryRow is one line of the --quiet mode's end-of-run table.
type summaryRow struct {
	path    string
	hdus    int
	errs    int
	warns   int
	aborted bool
}
