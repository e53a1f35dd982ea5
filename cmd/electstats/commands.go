package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"votestats/internal/config"
	"votestats/internal/dataprocessing"
	"votestats/internal/errors"
	"votestats/internal/exporter"
	"votestats/internal/files"
	"votestats/pkg/contracts/domain"
)

func fetchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <year> [electorate...]",
		Short: "Download results files into the cache",
		Long: `Download the results file of each electorate into the cache.
Without electorate ids every electorate of the year is fetched.

Example:
  electstats fetch 2014
  electstats fetch 2011 5 12 --force`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			voteType, _ := cmd.Flags().GetString("type")
			if voteType == "" {
				voteType = a.cfg.Fetch.VoteType
			}

			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			ids, err := parseElectorates(year, args[1:])
			if err != nil {
				return err
			}

			cache, err := a.newCache(force)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			var paths []string
			if len(ids) == 0 {
				paths, err = cache.FetchAll(ctx, year, []string{voteType})
				if err != nil {
					return err
				}
			} else {
				for _, id := range ids {
					path, err := cache.Download(ctx, domain.FileKey{Year: year, Electorate: id, VoteType: voteType})
					if err != nil {
						return err
					}
					paths = append(paths, path)
				}
			}

			for _, p := range paths {
				fmt.Fprintln(a.out, p)
			}
			return nil
		},
	}

	cmd.Flags().Bool("force", false, "Download again even when a file is cached")
	cmd.Flags().String("type", "", "Vote type of the results files (default from configuration)")
	return cmd
}

func electorateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "electorate <year> <id...>",
		Short: "Show vote statistics for electorates",
		Long: `Show each party's share of the vote by category for one or more
electorates.

Example:
  electstats electorate 2014 5
  electstats electorate 2011 1 2 3 --votes --all-parties`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			votes, _ := cmd.Flags().GetBool("votes")
			allParties, _ := cmd.Flags().GetBool("all-parties")
			places, _ := cmd.Flags().GetString("places")

			year, err := parseYear(args[0])
			if err != nil {
				return err
			}
			ids, err := parseElectorates(year, args[1:])
			if err != nil {
				return err
			}
			if places != "" && len(ids) > 1 {
				return errors.NewAppValidationError("--places takes a single electorate")
			}

			loader, err := a.newLoader()
			if err != nil {
				return err
			}

			for i, id := range ids {
				record, err := loader.LoadElectorate(cmd.Context(), year, id)
				if err != nil {
					return err
				}

				title := fmt.Sprintf("Statistics for electorate %d - %s in %d election", id, record.Name(), year)
				table, err := exporter.StatsTable(title, record.Statistics, a.partiesFor(year, allParties), statsFormat(votes))
				if err != nil {
					return err
				}
				if i > 0 {
					fmt.Fprintln(a.out)
				}
				if err := exporter.WriteText(a.out, table); err != nil {
					return err
				}
				for _, w := range record.Warnings() {
					fmt.Fprintf(a.out, "warning: %s\n", w)
				}

				if places != "" {
					if err := exporter.NewReportWriter(a.paths).WritePollingPlaces(places, record); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().Bool("votes", false, "Show vote counts instead of percentages")
	cmd.Flags().Bool("all-parties", false, "Include every party, not only the parties of interest")
	cmd.Flags().String("places", "", "Also write the polling-place rows to this CSV file")
	return cmd
}

func nationalCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "national <year>",
		Short: "Show national vote statistics for an election",
		Long: `Load every electorate of an election, combine them and show each
party's national share of the vote by category.

Example:
  electstats national 2014
  electstats national 2008 --votes --csv national_2008.csv --xlsx national_2008.xlsx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			votes, _ := cmd.Flags().GetBool("votes")
			allParties, _ := cmd.Flags().GetBool("all-parties")
			csvPath, _ := cmd.Flags().GetString("csv")
			xlsxPath, _ := cmd.Flags().GetString("xlsx")

			year, err := parseYear(args[0])
			if err != nil {
				return err
			}

			result, err := a.loadNational(cmd, year)
			if err != nil {
				return err
			}

			title := fmt.Sprintf("National statistics for %d election:", year)
			table, err := exporter.StatsTable(title, result.Statistics, a.partiesFor(year, allParties), statsFormat(votes))
			if err != nil {
				return err
			}
			return a.writeTable(table, csvPath, xlsxPath)
		},
	}

	cmd.Flags().Bool("votes", false, "Show vote counts instead of percentages")
	cmd.Flags().Bool("all-parties", false, "Include every party, not only the parties of interest")
	cmd.Flags().String("csv", "", "Also write the table to this CSV file")
	cmd.Flags().String("xlsx", "", "Also write the table to this XLSX workbook")
	return cmd
}

func compareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare special votes with ordinary votes for the major parties",
		Long: `Compare each major party's share of overseas and domestic special
votes with its share of domestic and ordinary votes, nationally for every
election or per electorate for one election.

Example:
  electstats compare
  electstats compare --year 2014 --by-electorate --diffs`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			year, _ := cmd.Flags().GetInt("year")
			byElectorate, _ := cmd.Flags().GetBool("by-electorate")
			diffs, _ := cmd.Flags().GetBool("diffs")
			csvPath, _ := cmd.Flags().GetString("csv")

			mode := dataprocessing.CompareRatio
			if diffs {
				mode = dataprocessing.CompareDiff
			}
			parties := a.cfg.Processing.MajorParties

			if byElectorate && year == 0 {
				return errors.NewAppValidationError("--by-electorate needs --year")
			}
			years := config.Years
			if year != 0 {
				if !config.IsSupportedYear(year) {
					return errors.NewAppValidationError(fmt.Sprintf("unsupported election year %d", year))
				}
				years = []int{year}
			}

			var (
				rows  []dataprocessing.ComparisonRow
				title string
				scope string
			)
			if byElectorate {
				result, err := a.loadNational(cmd, year)
				if err != nil {
					return err
				}
				for _, record := range result.Electorates {
					r, err := dataprocessing.CompareSpecials(record.Statistics, presentParties(record.Statistics, parties), mode)
					if err != nil {
						return err
					}
					for i := range r {
						r[i].Scope = record.Name()
					}
					rows = append(rows, r...)
				}
				title = fmt.Sprintf("Special votes by electorate in %d election:", year)
				scope = "Electorate"
			} else {
				for _, y := range years {
					result, err := a.loadNational(cmd, y)
					if err != nil {
						return err
					}
					r, err := dataprocessing.CompareSpecials(result.Statistics, presentParties(result.Statistics, parties), mode)
					if err != nil {
						return err
					}
					for i := range r {
						r[i].Scope = strconv.Itoa(y)
					}
					rows = append(rows, r...)
				}
				title = "Special votes by election:"
				scope = "Year"
			}

			table := exporter.ComparisonTable(title, scope, rows, parties, mode)
			return a.writeTable(table, csvPath, "")
		},
	}

	cmd.Flags().Int("year", 0, "Election year (default every supported year)")
	cmd.Flags().Bool("by-electorate", false, "Compare per electorate instead of nationally")
	cmd.Flags().Bool("diffs", false, "Show percentage differences instead of ratios")
	cmd.Flags().String("csv", "", "Also write the table to this CSV file")
	return cmd
}

func statusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status [year...]",
		Short: "Show which results files are cached",
		Long: `List the cached results files of each year and the electorates still
missing. Without years every supported year is shown.

Example:
  electstats status
  electstats status 2011 2014 --type party`,
		RunE: func(cmd *cobra.Command, args []string) error {
			voteType, _ := cmd.Flags().GetString("type")
			if voteType == "" {
				voteType = a.cfg.Fetch.VoteType
			}

			years := config.Years
			if len(args) > 0 {
				years = make([]int, 0, len(args))
				for _, arg := range args {
					year, err := parseYear(arg)
					if err != nil {
						return err
					}
					years = append(years, year)
				}
			}

			discovery := files.NewDiscovery(a.paths.ResultsDir)
			for _, year := range years {
				count, err := config.ElectorateCount(year)
				if err != nil {
					return errors.NewAppValidationError(err.Error())
				}
				cached, err := discovery.FindResultsFiles(year)
				if err != nil {
					return errors.NewStorageError("failed to list cached results", err)
				}
				missing, err := discovery.Missing(year, count, voteType)
				if err != nil {
					return errors.NewStorageError("failed to list cached results", err)
				}

				var size int64
				for _, f := range cached {
					size += f.Size
				}
				fmt.Fprintf(a.out, "%d: %d of %d electorates cached (%d files, %d bytes)\n",
					year, count-len(missing), count, len(cached), size)
				if len(missing) > 0 && len(missing) < count {
					fmt.Fprintf(a.out, "  missing: %s\n", joinInts(missing))
				}
			}
			return nil
		},
	}

	cmd.Flags().String("type", "", "Vote type of the results files (default from configuration)")
	return cmd
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " ")
}

// loadNational loads and combines every electorate of year, reporting any
// electorate skipped under continue_on_error.
func (a *app) loadNational(cmd *cobra.Command, year int) (*dataprocessing.NationalResult, error) {
	count, err := config.ElectorateCount(year)
	if err != nil {
		return nil, errors.NewAppValidationError(err.Error())
	}
	loader, err := a.newLoader()
	if err != nil {
		return nil, err
	}

	result, err := loader.LoadNational(cmd.Context(), year, count, dataprocessing.NationalOptions{
		Workers:         a.cfg.Processing.Workers,
		ContinueOnError: a.cfg.Processing.ContinueOnError,
	})
	if err != nil {
		return nil, err
	}
	for _, f := range result.Failed {
		fmt.Fprintf(cmd.ErrOrStderr(), "skipped electorate %d: %v\n", f.Electorate, f.Err)
	}
	return result, nil
}

// writeTable prints table and writes the requested report files.
func (a *app) writeTable(table *exporter.Table, csvPath, xlsxPath string) error {
	if err := exporter.WriteText(a.out, table); err != nil {
		return err
	}

	writer := exporter.NewReportWriter(a.paths)
	if csvPath != "" {
		if err := writer.WriteTable(csvPath, table); err != nil {
			return err
		}
		a.logger.Info("Report written", slog.String("format", "csv"), slog.String("path", csvPath))
	}
	if xlsxPath != "" {
		if err := writer.WriteWorkbook(xlsxPath, table); err != nil {
			return err
		}
		a.logger.Info("Report written", slog.String("format", "xlsx"), slog.String("path", xlsxPath))
	}
	return nil
}

func statsFormat(votes bool) exporter.ValueFormat {
	if votes {
		return exporter.FormatVotes
	}
	return exporter.FormatPercent
}

// presentParties keeps the parties of want that stats has, in order.
func presentParties(stats *domain.Statistics, want []string) []string {
	var out []string
	for _, p := range want {
		if slices.Contains(stats.Parties(), p) {
			out = append(out, p)
		}
	}
	return out
}

func parseYear(arg string) (int, error) {
	year, err := strconv.Atoi(arg)
	if err != nil || !config.IsSupportedYear(year) {
		return 0, errors.NewAppValidationError(fmt.Sprintf("unsupported election year %q", arg))
	}
	return year, nil
}

// parseElectorates converts electorate id arguments and checks them
// against the number of electorates in year.
func parseElectorates(year int, args []string) ([]int, error) {
	count, err := config.ElectorateCount(year)
	if err != nil {
		return nil, errors.NewAppValidationError(err.Error())
	}
	ids := make([]int, 0, len(args))
	for _, arg := range args {
		id, err := strconv.Atoi(arg)
		if err != nil || id < 1 || id > count {
			return nil, errors.NewAppValidationError(fmt.Sprintf("electorate %q is not between 1 and %d for %d", arg, count, year))
		}
		ids = append(ids, id)
	}
	return ids, nil
}
