package ingest

import (
	"context"
	"fmt"
	"io"
	"mysite/internal/domain/content"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const maxBody = 32 << 20

// Remote pulls collections straight from the content API.
type Remote struct {
	BaseURL string
	Client  *http.Client
}

func NewRemote(baseURL string, timeout time.Duration) *Remote {
	return &Remote{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// Fetch GETs every collection concurrently. A 404 leaves the collection empty
// with a warning; any other non-2xx status fails the whole fetch.
func (r *Remote) Fetch(ctx context.Context) (content.Library, []Warning, error) {
	var (
		lib   content.Library
		warns []Warning
		mu    sync.Mutex
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(len(Collections))
	for _, coll := range Collections {
		g.Go(func() error {
			u, err := url.JoinPath(r.BaseURL, coll)
			if err != nil {
				return err
			}
			raw, status, err := r.get(ctx, u)
			if err != nil {
				return err
			}
			if status == http.StatusNotFound {
				mu.Lock()
				warns = append(warns, Warning{Path: u, Msg: "collection not served by the API"})
				mu.Unlock()
				return nil
			}
			var part content.Library
			if err := assign(&part, coll, raw, false); err != nil {
				return fmt.Errorf("%s: %w", u, err)
			}
			mu.Lock()
			merge(&lib, part)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return content.Library{}, nil, err
	}

	warns = append(warns, Prepare(&lib, r.BaseURL)...)
	return lib, warns, nil
}

func (r *Remote) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	client := r.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", u, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, resp.StatusCode, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, resp.StatusCode, fmt.Errorf("fetch %s: unexpected status %s", u, resp.Status)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read %s: %w", u, err)
	}
	return raw, resp.StatusCode, nil
}
