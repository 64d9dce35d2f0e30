// Package display renders reports for the terminal.
//
// It covers run summaries, analysis findings, history listings and warnings.
// Every function writes to an io.Writer so output can be captured in tests:
//
//	display.PrintSummary(os.Stdout, result, colorize)
//	display.PrintFindings(os.Stdout, findings)
//	display.PrintHistory(os.Stdout, records, time.Now())
//
// Colors are applied only when the caller passes colorize=true, which the CLI
// sets when stdout is a terminal.
package display
