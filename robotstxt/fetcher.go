// Package robotstxt provides a harvest.Fetcher decorator that honors the
// target site's robots.txt.
package robotstxt

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"sync"

	"github.com/fwojciec/harvest"
	"github.com/temoto/robotstxt"
)

var _ harvest.Fetcher = (*Fetcher)(nil)

// Fetcher refuses URLs that robots.txt disallows for its user agent and
// delegates the rest. Each host's robots.txt is fetched once, through the
// wrapped fetcher, after waiting on the delayer like any other request.
type Fetcher struct {
	next      harvest.Fetcher
	delay     harvest.Delayer
	userAgent string
	logger    *slog.Logger

	mu     sync.Mutex
	groups map[string]*robotstxt.Group
}

// NewFetcher wraps next. A nil logger discards output.
func NewFetcher(next harvest.Fetcher, delay harvest.Delayer, userAgent string, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Fetcher{
		next:      next,
		delay:     delay,
		userAgent: userAgent,
		logger:    logger,
		groups:    make(map[string]*robotstxt.Group),
	}
}

// Fetch returns a *harvest.FetchError wrapping harvest.ErrDisallowed when
// robots.txt forbids rawURL.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &harvest.FetchError{URL: rawURL, Err: err}
	}

	group, err := f.group(ctx, u)
	if err != nil {
		return "", err
	}
	if !group.Test(u.RequestURI()) {
		return "", &harvest.FetchError{URL: rawURL, Err: harvest.ErrDisallowed}
	}

	return f.next.Fetch(ctx, rawURL)
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}

func (f *Fetcher) group(ctx context.Context, u *url.URL) (*robotstxt.Group, error) {
	origin := u.Scheme + "://" + u.Host

	f.mu.Lock()
	group, ok := f.groups[origin]
	f.mu.Unlock()
	if ok {
		return group, nil
	}

	data, err := f.load(ctx, origin)
	if err != nil {
		return nil, err
	}
	group = data.FindGroup(f.userAgent)

	f.mu.Lock()
	f.groups[origin] = group
	f.mu.Unlock()
	return group, nil
}

// load fetches and parses origin's robots.txt. HTTP status handling follows
// robotstxt.FromStatusAndBytes: 4xx allows everything, 5xx disallows
// everything. A transport failure is treated as a missing file.
func (f *Fetcher) load(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	robotsURL := origin + "/robots.txt"

	if err := f.delay.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := f.next.Fetch(ctx, robotsURL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var fe *harvest.FetchError
		if errors.As(err, &fe) && fe.StatusCode != 0 {
			f.logger.Info("robots.txt unavailable", "url", robotsURL, "status", fe.StatusCode)
			return robotstxt.FromStatusAndBytes(fe.StatusCode, nil)
		}
		f.logger.Warn("robots.txt fetch failed, allowing all", "url", robotsURL, "err", err)
		return robotstxt.FromStatusAndBytes(404, nil)
	}

	data, err := robotstxt.FromStatusAndBytes(200, []byte(body))
	if err != nil {
		f.logger.Warn("robots.txt unparsable, allowing all", "url", robotsURL, "err", err)
		return robotstxt.FromStatusAndBytes(404, nil)
	}
	f.logger.Debug("robots.txt loaded", "url", robotsURL, "bytes", len(body))
	return data, nil
}
