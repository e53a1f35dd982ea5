// Package files implements the results fetcher: an on-disk cache of the
// published polling place results files, keyed by (year, electorate, vote
// type), that downloads a file only when it is not already cached.
//
// Cache is the fetcher. It renders the download URL from the configured
// templates, waits on a rate limiter, and writes the response through
// Manager, which stores it under results/<year>/electorate_<id>_<type>.csv
// via a temporary file and a rename. Discovery lists what is already
// cached.
//
// Example usage:
//
//	cache, err := files.NewCache(paths, cfg.Fetch)
//	data, err := cache.Fetch(ctx, domain.FileKey{Year: 2014, Electorate: 5, VoteType: "party"})
//
//	// download a whole year
//	_, err = cache.FetchAll(ctx, 2014, []string{"party"})
package files
