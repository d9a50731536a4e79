package main

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/csv"
	"github.com/fwojciec/harvest/goquery"
	hhttp "github.com/fwojciec/harvest/http"
	"github.com/fwojciec/harvest/readability"
	"github.com/fwojciec/harvest/robotstxt"
	hslog "github.com/fwojciec/harvest/slog"
	"github.com/fwojciec/harvest/sqlite"
	"github.com/fwojciec/harvest/trafilatura"
)

// isSQLitePath reports whether path names a SQLite dataset.
func isSQLitePath(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// openStore opens the dataset at path. The returned function releases it.
func openStore(path string, logger *slog.Logger) (harvest.DatasetStore, func() error, error) {
	if !isSQLitePath(path) {
		return hslog.NewLoggingStore(csv.NewStore(path), logger), func() error { return nil }, nil
	}

	db := sqlite.NewDB(path)
	if err := db.Open(); err != nil {
		return nil, nil, err
	}
	return hslog.NewLoggingStore(sqlite.NewStore(db), logger), db.Close, nil
}

// newFetcher builds the outbound fetcher. Robots checks sit outside the
// logging layer so robots.txt requests are logged too.
func newFetcher(deps *Dependencies, flags HTTPFlags, delay harvest.Delayer) harvest.Fetcher {
	var fetcher harvest.Fetcher
	userAgent := hhttp.DefaultUserAgent
	if deps.Fetcher != nil {
		fetcher = deps.Fetcher
	} else {
		f := hhttp.NewFetcher(hhttp.WithTimeout(flags.Timeout), hhttp.WithUserAgent(flags.UserAgent))
		userAgent = f.UserAgent()
		fetcher = f
	}
	if flags.UserAgent != "" {
		userAgent = flags.UserAgent
	}

	fetcher = hslog.NewLoggingFetcher(fetcher, deps.Logger)
	if flags.Robots {
		fetcher = robotstxt.NewFetcher(fetcher, delay, userAgent, deps.Logger)
	}
	return fetcher
}

// newExtractor returns the content extractor registered under name.
func newExtractor(name string) (harvest.ContentExtractor, error) {
	switch name {
	case "", "selectors":
		return goquery.NewContentExtractor(), nil
	case "readability":
		return readability.NewExtractor(), nil
	case "trafilatura":
		return trafilatura.NewExtractor(), nil
	default:
		return nil, harvest.Errorf(harvest.EINVALID, "unknown extractor %q", name)
	}
}
