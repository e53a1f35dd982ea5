// Package exporter renders election statistics as reports.
//
// Reports are built as a Table: StatsTable lays out one row per party
// across the reported vote categories, and ComparisonTable lays out the
// special-vote comparisons one row per scope. A Table can then be written
// in three ways:
//
//	WriteText      aligned plain text, for the terminal
//	WriteTable     CSV with a UTF-8 BOM so spreadsheets detect the encoding
//	WriteWorkbook  XLSX, one sheet per table, numbers kept numeric
//
// ReportWriter resolves relative file names under the reports directory.
//
// Example usage:
//
//	table, err := exporter.StatsTable(title, record.Statistics, config.Parties[2014], exporter.FormatPercent)
//	if err != nil {
//		return err
//	}
//	if err := exporter.WriteText(os.Stdout, table); err != nil {
//		return err
//	}
//	err = exporter.NewReportWriter(paths).WriteTable("national_2014.csv", table)
package exporter
