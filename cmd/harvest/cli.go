package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/harvest"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	// Fetcher, when set, is used instead of a new HTTP fetcher.
	Fetcher harvest.Fetcher
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	LogLevel  string `name:"log-level" default:"info" enum:"debug,info,warn,error" env:"HARVEST_LOG_LEVEL" help:"Log level (debug, info, warn, error)"`
	LogFormat string `name:"log-format" default:"text" enum:"text,json" env:"HARVEST_LOG_FORMAT" help:"Log format (text, json)"`

	Crawl  CrawlCmd  `cmd:"" help:"Walk the archive listing pages and record publication URLs"`
	Enrich EnrichCmd `cmd:"" help:"Fetch recorded publications and fill in title and content"`
}

// HTTPFlags are the outbound request options shared by both commands.
type HTTPFlags struct {
	UserAgent string        `name:"user-agent" env:"HARVEST_USER_AGENT" help:"User-Agent header (default identifies this tool)"`
	Timeout   time.Duration `default:"30s" env:"HARVEST_TIMEOUT" help:"Per-request timeout"`
	Robots    bool          `env:"HARVEST_ROBOTS" help:"Respect robots.txt"`
}

// CrawlCmd is the "crawl" subcommand.
type CrawlCmd struct {
	Output        string        `short:"o" default:"fas_publications.csv" env:"HARVEST_OUTPUT" help:"Dataset file (.csv, or .db/.sqlite/.sqlite3 for SQLite)"`
	BaseURL       string        `name:"base-url" default:"https://fas.org/publications-archive/" env:"HARVEST_BASE_URL" help:"First listing page"`
	ItemPrefix    string        `name:"item-prefix" default:"https://fas.org/publication/" env:"HARVEST_ITEM_PREFIX" help:"URL prefix of publication pages"`
	Exclude       []string      `default:"https://fas.org/publications/,https://fas.org/publications-archive/" help:"URL prefix that is never an item (repeatable)"`
	MinDelay      time.Duration `name:"min-delay" default:"2s" help:"Minimum delay before each request"`
	MaxDelay      time.Duration `name:"max-delay" default:"5s" help:"Maximum delay before each request"`
	MaxPages      int           `name:"max-pages" default:"53" help:"Maximum listing pages to visit (0 = no limit)"`
	MaxEmptyPages int           `name:"max-empty-pages" default:"3" help:"Stop after this many consecutive pages without items (0 = never)"`

	HTTPFlags `embed:""`
}

// EnrichCmd is the "enrich" subcommand.
type EnrichCmd struct {
	Input           string        `short:"i" default:"fas_publications.csv" env:"HARVEST_INPUT" help:"Dataset file written by crawl"`
	MinDelay        time.Duration `name:"min-delay" default:"3s" help:"Minimum delay before each request"`
	MaxDelay        time.Duration `name:"max-delay" default:"6s" help:"Maximum delay before each request"`
	Start           int           `default:"0" help:"Index of the first record to process"`
	Limit           int           `default:"0" help:"Number of records to process (0 = all)"`
	Batch           int           `default:"0" help:"Process the dataset in batches of this size (0 = single run)"`
	Extractor       string        `default:"selectors" enum:"selectors,readability,trafilatura" env:"HARVEST_EXTRACTOR" help:"Content extractor (selectors, readability, trafilatura)"`
	CheckpointEvery int           `name:"checkpoint-every" default:"5" help:"Save after this many fetched records (negative = only at the end)"`

	HTTPFlags `embed:""`
}
