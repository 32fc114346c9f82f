package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/astrogo/fitsverify/internal/clilog"
	"github.com/astrogo/fitsverify/internal/convention"
	"github.com/astrogo/fitsverify/verify"
)

const fitsverifyVersion = "1.0.0"

var (
	flagPrintHeader bool
	flagHierarch    bool
	flagQuiet       bool
	flagErrorsOnly  bool
	flagSevereOnly  bool
	flagJSON        bool
	flagFixHints    bool
	flagExplain     bool
	flagVerbose     bool
	flagConventions string
)

var rootCmd = &cobra.Command{
	Use:   "fitsverify [flags] file [file...]",
	Short: "Verify FITS files for conformance to the FITS Standard",
	Long: `fitsverify checks one or more FITS files against the FITS
Standard's mandatory keyword sequences, data-type rules, and structural
invariants, reporting a diagnostic for every deviation found.

Each positional argument is either a literal path, a glob pattern
(expanded by the shell or by fitsverify itself), or an @listfile
containing one path per line.`,
	Version:      fitsverifyVersion,
	SilenceUsage: true,
	Args:         cobra.MinimumNArgs(1),
	RunE:         runVerify,
}

func init() {
	rootCmd.Flags().BoolVarP(&flagPrintHeader, "header", "l", false, "print each HDU's header listing")
	rootCmd.Flags().BoolVarP(&flagHierarch, "hierarch", "H", false, "enable ESO HIERARCH keyword checks")
	rootCmd.Flags().BoolVarP(&flagQuiet, "quiet", "q", false, "print one summary line per file, no diagnostics")
	rootCmd.Flags().BoolVarP(&flagErrorsOnly, "errors-only", "e", false, "suppress warnings, report errors and severe only")
	rootCmd.Flags().BoolVarP(&flagSevereOnly, "severe-only", "s", false, "report severe diagnostics only")
	rootCmd.Flags().BoolVar(&flagJSON, "json", false, "emit a single JSON report to stdout instead of text")
	rootCmd.Flags().BoolVar(&flagFixHints, "fix-hints", false, "attach a suggested fix to each diagnostic")
	rootCmd.Flags().BoolVar(&flagExplain, "explain", false, "attach an extended explanation to each diagnostic")
	rootCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "log CLI progress (file opened, file skipped) to stderr")
	rootCmd.Flags().StringVar(&flagConventions, "conventions", "", "path to a HuJSON conventions file extending the built-in HEASARC/legacy tables")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runVerify(cmd *cobra.Command, args []string) error {
	clilog.Init(os.Stderr, flagQuiet, flagVerbose)

	paths, err := expandArgs(args)
	if err != nil {
		return err
	}

	opts := buildOptions()

	var conv *convention.Table
	if flagConventions != "" {
		conv, err = convention.Load(flagConventions)
		if err != nil {
			return err
		}
	}

	rpt := newReport(fitsverifyVersion)
	var rows []summaryRow

	for _, path := range paths {
		clilog.Debug("processing file", "path", path)

		s := verify.NewState()
		if conv != nil {
			s.LoadConventions(conv)
		}
		s.Options = opts

		var jc *jsonCollector
		switch {
		case flagJSON:
			jc = newJSONCollector(path)
			s.SetOutput(jc.collect, nil)
		case flagQuiet:
			s.SetOutput(func(verify.Diagnostic, interface{}) {}, nil)
		default:
			s.SetOutputWriter(os.Stdout)
		}

		result, verr := s.VerifyFile(path)
		if verr != nil {
			clilog.Warn("skipping unreadable file", "path", path, "error", verr)
		}

		rpt.TotalErrors += result.NumErrors
		rpt.TotalWarnings += result.NumWarnings

		switch {
		case flagJSON:
			jc.fr.NumErrors = result.NumErrors
			jc.fr.NumWarnings = result.NumWarnings
			jc.fr.NumHDUs = result.NumHDUs
			jc.fr.Aborted = result.Aborted
			rpt.Files = append(rpt.Files, jc.fr)
		case flagQuiet:
			rows = append(rows, summaryRow{path: path, hdus: result.NumHDUs, errs: result.NumErrors, warns: result.NumWarnings, aborted: result.Aborted})
		}
	}

	switch {
	case flagJSON:
		if err := rpt.writeTo(os.Stdout); err != nil {
			return err
		}
	case flagQuiet:
		printSummaryTable(os.Stdout, rows)
	}

	exitCode := rpt.TotalErrors + rpt.TotalWarnings
	if exitCode > 255 {
		exitCode = 255
	}
	if exitCode != 0 {
		os.Exit(exitCode)
	}
	return nil
}

// buildOptions translates CLI flags into a verify.Options, starting
// from the documented defaults (spec §6.2) and overriding only what
// the user touched.
func buildOptions() verify.Options {
	opts := verify.DefaultOptions()
	opts.PrintHeader = flagPrintHeader
	opts.TestHierarch = flagHierarch
	opts.FixHints = flagFixHints
	opts.Explain = flagExplain
	opts.PrintSummary = !flagJSON && !flagQuiet

	switch {
	case flagSevereOnly:
		opts.ErrorReport = verify.ErrorReportSevere
	case flagErrorsOnly:
		opts.ErrorReport = verify.ErrorReportErrors
	default:
		opts.ErrorReport = verify.ErrorReportAll
	}
	return opts
}
