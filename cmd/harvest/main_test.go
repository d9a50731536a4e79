package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	main "github.com/fwojciec/harvest/cmd/harvest"
	"github.com/fwojciec/harvest/csv"
	"github.com/fwojciec/harvest/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newArchive serves a two-page listing with three publications, one of
// which has no article body.
func newArchive(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/publications-archive/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/publications-archive/":
			fmt.Fprint(w, `<html><body>
				<a href="/publication/alpha/">Alpha</a>
				<a href="/publication/beta/">Beta</a>
				<a href="/publications-archive/">Archive</a>
				<nav class="pagination"><a href="/publications-archive/page/2/">Next »</a></nav>
			</body></html>`)
		case "/publications-archive/page/2/":
			fmt.Fprint(w, `<html><body>
				<a href="/publication/beta/">Beta again</a>
				<a href="/publication/gamma/">Gamma</a>
				<a href="/publication/gamma/attachment/">Attachment</a>
			</body></html>`)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/publication/", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/publication/alpha/":
			fmt.Fprint(w, `<html><body><h1>  Alpha
				Report </h1><article><p>Alpha body, with "quotes".</p></article></body></html>`)
		case "/publication/beta/":
			fmt.Fprint(w, `<html><body><h1>Beta Report</h1><article><p>Beta body.</p></article></body></html>`)
		case "/publication/gamma/":
			fmt.Fprint(w, `<html><body><h1>Gamma</h1><p>short</p></body></html>`)
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /publication/beta/\n")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func crawlArgs(srv *httptest.Server, output string, extra ...string) []string {
	return append([]string{
		"crawl",
		"--output", output,
		"--base-url", srv.URL + "/publications-archive/",
		"--item-prefix", srv.URL + "/publication/",
		"--exclude", srv.URL + "/publications-archive/",
		"--min-delay", "0s",
		"--max-delay", "0s",
	}, extra...)
}

func enrichArgs(input string, extra ...string) []string {
	return append([]string{
		"enrich",
		"--input", input,
		"--min-delay", "0s",
		"--max-delay", "0s",
	}, extra...)
}

func TestMain_Run_Help(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), []string{"--help"}, stdout, stderr)

	require.NoError(t, err)
	for _, cmd := range []string{"crawl", "enrich"} {
		assert.Contains(t, stdout.String(), cmd, "Help should mention %s command", cmd)
	}
}

func TestMain_Run_NoArguments(t *testing.T) {
	t.Parallel()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	err := main.NewMain().Run(context.Background(), nil, stdout, stderr)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_Crawl(t *testing.T) {
	t.Parallel()

	t.Run("writes discovered publications to CSV", func(t *testing.T) {
		t.Parallel()

		srv := newArchive(t)
		output := filepath.Join(t.TempDir(), "pubs.csv")
		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), crawlArgs(srv, output), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		dataset, err := csv.NewStore(output).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{
			srv.URL + "/publication/alpha/",
			srv.URL + "/publication/beta/",
			srv.URL + "/publication/gamma/",
		}, dataset.URLs())
		assert.Equal(t, []int{1, 1, 2}, []int{dataset[0].Page, dataset[1].Page, dataset[2].Page})
		assert.Contains(t, stdout.String(), "Crawled 2 listing pages (stopped: no_next_page)")
		assert.Contains(t, stdout.String(), "Added 3 publications")
	})

	t.Run("respects max pages", func(t *testing.T) {
		t.Parallel()

		srv := newArchive(t)
		output := filepath.Join(t.TempDir(), "pubs.csv")
		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), crawlArgs(srv, output, "--max-pages", "1"), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		dataset, err := csv.NewStore(output).Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, dataset, 2)
		assert.Contains(t, stdout.String(), "stopped: max_pages")
	})

	t.Run("rerun adds nothing", func(t *testing.T) {
		t.Parallel()

		srv := newArchive(t)
		output := filepath.Join(t.TempDir(), "pubs.csv")
		m := main.NewMain()

		require.NoError(t, m.Run(context.Background(), crawlArgs(srv, output), &bytes.Buffer{}, &bytes.Buffer{}))
		first, err := os.ReadFile(output)
		require.NoError(t, err)

		stdout := &bytes.Buffer{}
		require.NoError(t, m.Run(context.Background(), crawlArgs(srv, output), stdout, &bytes.Buffer{}))
		second, err := os.ReadFile(output)
		require.NoError(t, err)

		assert.Equal(t, string(first), string(second))
		assert.Contains(t, stdout.String(), "Added 0 publications, 3 total")
	})

	t.Run("writes to SQLite for .db outputs", func(t *testing.T) {
		t.Parallel()

		srv := newArchive(t)
		output := filepath.Join(t.TempDir(), "pubs.db")

		err := main.NewMain().Run(context.Background(), crawlArgs(srv, output), &bytes.Buffer{}, &bytes.Buffer{})
		require.NoError(t, err)

		db := sqlite.NewDB(output)
		require.NoError(t, db.Open())
		defer db.Close()
		dataset, err := sqlite.NewStore(db).Load(context.Background())
		require.NoError(t, err)
		assert.Len(t, dataset, 3)
	})

	t.Run("rejects inverted delay window", func(t *testing.T) {
		t.Parallel()

		srv := newArchive(t)
		output := filepath.Join(t.TempDir(), "pubs.csv")
		args := crawlArgs(srv, output)
		args = append(args, "--min-delay", "5s", "--max-delay", "2s")

		err := main.NewMain().Run(context.Background(), args, &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
		assert.NoFileExists(t, output)
	})

	t.Run("logs as JSON with a run id", func(t *testing.T) {
		t.Parallel()

		srv := newArchive(t)
		output := filepath.Join(t.TempDir(), "pubs.csv")
		stderr := &bytes.Buffer{}
		args := append([]string{"--log-format", "json"}, crawlArgs(srv, output)...)

		err := main.NewMain().Run(context.Background(), args, &bytes.Buffer{}, stderr)

		require.NoError(t, err)
		firstLine, _, _ := strings.Cut(stderr.String(), "\n")
		assert.Contains(t, firstLine, `"run":"`)
		assert.Contains(t, firstLine, `"cmd":"crawl"`)
	})
}

func TestMain_Run_Enrich(t *testing.T) {
	t.Parallel()

	t.Run("fills in title and content", func(t *testing.T) {
		t.Parallel()

		srv := newArchive(t)
		path := filepath.Join(t.TempDir(), "pubs.csv")
		m := main.NewMain()
		require.NoError(t, m.Run(context.Background(), crawlArgs(srv, path), &bytes.Buffer{}, &bytes.Buffer{}))

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), enrichArgs(path), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		dataset, err := csv.NewStore(path).Load(context.Background())
		require.NoError(t, err)
		require.Len(t, dataset, 3)
		assert.Equal(t, "Alpha Report", dataset[0].Title)
		assert.Equal(t, `Alpha body, with "quotes".`, dataset[0].Content)
		assert.Equal(t, "Beta Report", dataset[1].Title)
		assert.False(t, dataset[2].Complete(), "gamma has no body text")
		assert.Contains(t, stdout.String(), "Enriched 2")
		assert.Contains(t, stdout.String(), "1 without content")
	})

	t.Run("honors start and limit", func(t *testing.T) {
		t.Parallel()

		srv := newArchive(t)
		path := filepath.Join(t.TempDir(), "pubs.csv")
		m := main.NewMain()
		require.NoError(t, m.Run(context.Background(), crawlArgs(srv, path), &bytes.Buffer{}, &bytes.Buffer{}))

		err := m.Run(context.Background(), enrichArgs(path, "--start", "1", "--limit", "1"), &bytes.Buffer{}, &bytes.Buffer{})

		require.NoError(t, err)
		dataset, err := csv.NewStore(path).Load(context.Background())
		require.NoError(t, err)
		assert.False(t, dataset[0].Complete())
		assert.True(t, dataset[1].Complete())
		assert.False(t, dataset[2].Complete())
	})

	t.Run("runs in batches", func(t *testing.T) {
		t.Parallel()

		srv := newArchive(t)
		path := filepath.Join(t.TempDir(), "pubs.csv")
		m := main.NewMain()
		require.NoError(t, m.Run(context.Background(), crawlArgs(srv, path), &bytes.Buffer{}, &bytes.Buffer{}))

		stdout := &bytes.Buffer{}
		err := m.Run(context.Background(), enrichArgs(path, "--batch", "2"), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Processed records 0-3 of 3")
		dataset, err := csv.NewStore(path).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, dataset.CompleteCount())
	})

	t.Run("skips URLs disallowed by robots.txt", func(t *testing.T) {
		t.Parallel()

		srv := newArchive(t)
		path := filepath.Join(t.TempDir(), "pubs.csv")
		m := main.NewMain()
		require.NoError(t, m.Run(context.Background(), crawlArgs(srv, path), &bytes.Buffer{}, &bytes.Buffer{}))

		stderr := &bytes.Buffer{}
		err := m.Run(context.Background(), enrichArgs(path, "--robots"), &bytes.Buffer{}, stderr)

		require.NoError(t, err)
		dataset, err := csv.NewStore(path).Load(context.Background())
		require.NoError(t, err)
		assert.True(t, dataset[0].Complete())
		assert.False(t, dataset[1].Complete())
		assert.Contains(t, stderr.String(), "disallowed by robots.txt")
	})

	t.Run("rejects unknown extractor", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "pubs.csv")

		err := main.NewMain().Run(context.Background(), enrichArgs(path, "--extractor", "magic"), &bytes.Buffer{}, &bytes.Buffer{})

		require.Error(t, err)
	})

	t.Run("missing dataset enriches nothing", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "pubs.csv")
		stdout := &bytes.Buffer{}

		err := main.NewMain().Run(context.Background(), enrichArgs(path), stdout, &bytes.Buffer{})

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "Processed records 0-0 of 0")
	})
}
