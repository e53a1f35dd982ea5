// Package dataprocessing turns per-electorate election results files into
// vote statistics. It owns the parsing engine and the aggregation built on
// top of it.
//
// # Architecture
//
// The package is organized into four main components:
//
// 1. Reader: splits raw CSV or XLSX bytes into rows of cells
// 2. RowClassifier: maps a row label to a vote category
// 3. Parser: a per-file state machine producing an ElectorateRecord
// 4. Aggregation: combines records into national statistics and compares
// special-vote shares
//
// # Usage
//
// Parsing a single file:
//
//	parser := dataprocessing.NewParser(dataprocessing.WithLogger(logger))
//	record, err := parser.ParseBytes(ctx, 2014, data, dataprocessing.FormatAuto)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(record.Specials().Percentages())
//
// Loading a national result through a Fetcher:
//
//	loader := dataprocessing.NewLoader(cache, parser)
//	national, err := loader.LoadNational(ctx, 2014, 71, dataprocessing.NationalOptions{Workers: 8})
//
// # Data Flow
//
//	Fetcher → bytes → ReadRows → Parser → ElectorateRecord → Sum → national Statistics
//
// # Layouts
//
// Results files differ by year. Header presence, the number of trailing
// aggregate columns, where the party headings sit and whether electorate
// names need title-casing come from a LayoutTable consulted once at the
// start of each parse. New years are added with LayoutTable.Register or the
// layouts section of the configuration file.
//
// # Error Handling
//
// Fatal problems are returned as errors:
//
//	- a results file without its totals row fails with errors.ErrMissingTotalsRow
//	- adding records with different party lists fails with errors.ErrShapeMismatch
//	- Fetcher errors are returned unchanged
//
// Data-quality problems that do not prevent a result are recorded as
// domain.Warning values on the record and logged at WARN.
package dataprocessing
