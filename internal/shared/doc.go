// Package shared holds helpers used by more than one package.
//
// # Test Utilities
//
// The testutil subpackage provides:
//
//	- a capturing slog handler for asserting on log output
//	- results-file fixtures in the published CSV layout
//
// Example usage:
//
//	func TestParse(t *testing.T) {
//	    logger, logs := testutil.NewTestLogger(t)
//	    data := testutil.TestvilleCSV()
//	    ...
//	    testutil.AssertLogContains(t, logs, slog.LevelWarn, "totals")
//	}
package shared
