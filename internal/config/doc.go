// Package config provides configuration management for electstats.
// It loads configuration from multiple sources, validates it, and carries
// the election constants (years, electorate counts, party lists) used by
// the fetcher and the reports.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. YAML configuration file
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern ELECTSTATS_<SECTION>_<FIELD>:
//
//	ELECTSTATS_LOGGING_LEVEL=debug
//	ELECTSTATS_PATHS_DATA_DIR=/srv/elections
//	ELECTSTATS_FETCH_REQUESTS_PER_SECOND=1
//	ELECTSTATS_PROCESSING_WORKERS=8
//
// Extra per-year layouts can only be given in the YAML file.
//
// # Path Management
//
// Paths resolves the data, results cache, reports and logs directories:
//
//	paths, err := config.GetPaths(cfg.Paths)
//	file := paths.ResultsFile(2014, 5, "party")
//
// # Usage
//
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
package config
