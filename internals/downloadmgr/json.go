package downloadmgr

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// FetchRaw returns the body of rawURL. With useMirror the mirrors are tried first,
// the origin url is always the last candidate.
func (f *Fetcher) FetchRaw(ctx context.Context, rawURL string, useMirror bool) ([]byte, error) {
	return f.fetchFirst(ctx, rawURL, useMirror, func(body []byte) error { return nil })
}

// FetchJSON decodes the json at rawURL into v. A candidate that returns invalid json is skipped.
func (f *Fetcher) FetchJSON(ctx context.Context, rawURL string, v interface{}, useMirror bool) error {
	_, err := f.fetchFirst(ctx, rawURL, useMirror, func(body []byte) error {
		return json.Unmarshal(body, v)
	})
	return err
}

func (f *Fetcher) fetchFirst(ctx context.Context, rawURL string, useMirror bool, accept func([]byte) error) ([]byte, error) {
	candidates := []string{rawURL}
	if useMirror {
		candidates = f.Mirrors.Candidates(rawURL)
	}

	var lastErr error
	for _, url := range candidates {
		body, err := f.get(ctx, url)
		if err == nil {
			err = accept(body)
			if err != nil {
				err = errors.Wrapf(err, "decoding %s", url)
			}
		}
		if err == nil {
			return body, nil
		}
		lastErr = err
		f.Logger.Debug("metadata request failed", zap.String("url", url), zap.Error(err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (f *Fetcher) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	res, err := f.Client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching %s", url)
	}
	defer res.Body.Close()
	if err := checkResponse(res); err != nil {
		return nil, err
	}
	return io.ReadAll(res.Body)
}
