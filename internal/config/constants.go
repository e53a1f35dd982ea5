package config

import (
	"fmt"
	"slices"
	"time"
)

// Application constants
const (
	AppName    = "electstats"
	AppVersion = "1.0.0"

	// File Paths (relative to the working directory)
	DefaultDataDir    = "data"
	DefaultResultsDir = "results"
	DefaultReportsDir = "reports"
	DefaultLogsDir    = "logs"

	// Fetching
	DefaultURLTemplate       = "http://electionresults.govt.nz/electionresults_{{.Year}}/e9/csv/e9_part8_{{.VoteType}}_{{.Electorate}}.csv"
	DefaultURLTemplate1999   = `http://electionresults.govt.nz/electionresults_{{.Year}}/e9/csv/{{printf "%02d" .Electorate}}_{{.Name}}_{{.Initial}}.csv`
	DefaultHTTPTimeout       = 30 * time.Second
	DefaultRequestsPerSecond = 2
	DefaultBurstSize         = 1
	DefaultVoteType          = "party"

	// Processing
	DefaultWorkers = 4

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// Years lists the general elections with polling place results.
var Years = []int{1999, 2002, 2005, 2008, 2011, 2014}

// ElectorateCounts is the number of electorates contested in each year.
var ElectorateCounts = map[int]int{
	1999: len(ElectorateNames1999),
	2002: 69,
	2005: 69,
	2008: 70,
	2011: 70,
	2014: 71,
}

// ElectorateNames1999 names the 1999 electorates in id order; the 1999
// results files are published under these names.
var ElectorateNames1999 = []string{
	"Albany",
	"Aoraki",
	"Auckland Central",
	"Banks Peninsula",
	"Bay of Plenty",
	"Christchurch Central",
	"Christchurch East",
	"Clutha-Southland",
	"Coromandel",
	"Dunedin North",
	"Dunedin South",
	"East Coast",
	"Epsom",
	"Hamilton East",
	"Hamilton West",
	"Hunua",
	"Hutt South",
	"Ilam",
	"Invercargill",
	"Kaikoura",
	"Karapiro",
	"Mana",
	"Mangere",
	"Manukau East",
	"Manurewa",
	"Maungakiekie",
	"Mt Albert",
	"Mt Roskill",
	"Napier",
	"Nelson",
	"New Plymouth",
	"North Shore",
	"Northcote",
	"Northland",
	"Ohariu-Belmont",
	"Otago",
	"Otaki",
	"Pakuranga",
	"Palmerston North",
	"Port Waikato",
	"Rakaia",
	"Rangitikei",
	"Rimutaka",
	"Rodney",
	"Rongotai",
	"Rotorua",
	"Tamaki",
	"Taranaki-King Country",
	"Taupo",
	"Tauranga",
	"Te Atatu",
	"Titirangi",
	"Tukituki",
	"Waimakariri",
	"Wairarapa",
	"Waitakere",
	"Wellington Central",
	"West Coast-Tasman",
	"Whanganui",
	"Whangarei",
	"Wigram",
	"Hauraki",
	"Ikaroa-Rawhiti",
	"Te Tai Hauauru",
	"Te Tai Tokerau",
	"Te Tai Tonga",
	"Waiariki",
}

// Parties lists the parties of interest in each year, as spelt in that
// year's results files.
var Parties = map[int][]string{
	2014: {
		"ACT New Zealand",
		"Conservative",
		"Green Party",
		"Internet MANA",
		"Labour Party",
		"Māori Party",
		"National Party",
		"New Zealand First Party",
		"United Future",
	},
	2011: {
		"ACT New Zealand",
		"Conservative Party",
		"Green Party",
		"Mana",
		"Labour Party",
		"Māori Party",
		"National Party",
		"New Zealand First Party",
		"United Future",
	},
	2008: {
		"ACT New Zealand",
		"Green Party",
		"Labour Party",
		"Maori Party",
		"National Party",
		"New Zealand First Party",
		"United Future",
	},
	2005: {
		"ACT New Zealand",
		"Green Party",
		"Jim Anderton's Progressive",
		"Labour Party",
		"Māori Party",
		"National Party",
		"New Zealand First Party",
		"United Future New Zealand",
	},
	2002: {
		"ACT",
		"Green Party",
		"Labour Party",
		"National Party",
		"NZ First",
		"Progressive Coalition",
		"United Future",
	},
	1999: {
		"ACT New Zealand",
		"Alliance",
		"Green Party",
		"Labour Party",
		"National Party",
		"New Zealand First Party",
		"United NZ",
	},
}

// MajorParties are compared across vote categories by default.
var MajorParties = []string{
	"Green Party",
	"Labour Party",
	"National Party",
}

// ElectorateCount returns the number of electorates for year.
func ElectorateCount(year int) (int, error) {
	n, ok := ElectorateCounts[year]
	if !ok {
		return 0, fmt.Errorf("unsupported election year %d", year)
	}
	return n, nil
}

// ElectorateName1999 returns the name of a 1999 electorate by its 1-based id.
func ElectorateName1999(id int) (string, error) {
	if id < 1 || id > len(ElectorateNames1999) {
		return "", fmt.Errorf("no 1999 electorate with id %d", id)
	}
	return ElectorateNames1999[id-1], nil
}

// IsSupportedYear reports whether results are known for year.
func IsSupportedYear(year int) bool {
	return slices.Contains(Years, year)
}
