package downloadmgr

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/dchest/uniuri"
	"github.com/minepkg/mcinstall/internals/mirror"
	"github.com/minepkg/mcinstall/internals/ownhttp"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

// DefaultAttempts is the number of tries per file
const DefaultAttempts = 5

// Status is the state of a download task
type Status int32

const (
	StatusPending Status = iota
	StatusDownloading
	StatusCompleted
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusDownloading:
		return "downloading"
	case StatusCompleted:
		return "completed"
	case StatusFailed:
		return "failed"
	}
	return "unknown"
}

// Task is one file to download
type Task struct {
	URL    string
	Target string
	// Sha1 is optional. Files are verified against it if set
	Sha1 string
	// Size is optional, 0 means unknown
	Size int64
	// UseMirror enables rewriting the url to mirror hosts
	UseMirror   bool
	Description string

	status  atomic.Int32
	written atomic.Int64
	skipped atomic.Bool
	err     error
}

// NewTask returns a task to download url to target
func NewTask(url string, target string) *Task {
	return &Task{URL: url, Target: target}
}

// Status returns the current status of this task
func (t *Task) Status() Status { return Status(t.status.Load()) }

// Written returns the number of bytes written by the last attempt
func (t *Task) Written() int64 { return t.written.Load() }

// Skipped is true if the target already existed and was valid
func (t *Task) Skipped() bool { return t.skipped.Load() }

// Err returns the final error of a failed task
func (t *Task) Err() error { return t.err }

func (t *Task) setStatus(s Status) { t.status.Store(int32(s)) }

// Fetcher downloads single files. It verifies, retries and falls back to other sources.
type Fetcher struct {
	Client  *http.Client
	Mirrors *mirror.Selector
	// Attempts is the total number of tries per task
	Attempts int
	// SwitchAfter consecutive failures on a source move the task to the next source
	SwitchAfter int
	// Backoff returns the wait time after the given (1 based) attempt
	Backoff func(attempt int) time.Duration
	Logger  *zap.Logger
}

// NewFetcher returns a fetcher with default settings.
// A nil client uses ownhttp.New(), nil mirrors only use official urls.
func NewFetcher(client *http.Client, mirrors *mirror.Selector) *Fetcher {
	if client == nil {
		client = ownhttp.New()
	}
	if mirrors == nil {
		mirrors = mirror.OfficialOnly()
	}
	return &Fetcher{
		Client:      client,
		Mirrors:     mirrors,
		Attempts:    DefaultAttempts,
		SwitchAfter: 2,
		Backoff:     LinearBackoff,
		Logger:      zap.NewNop(),
	}
}

// LinearBackoff waits 2 × attempt seconds
func LinearBackoff(attempt int) time.Duration {
	return time.Duration(2*attempt) * time.Second
}

// Fetch downloads a task. Existing valid files are not downloaded again.
// The target is only ever written by an atomic rename of a verified temporary file.
func (f *Fetcher) Fetch(ctx context.Context, t *Task) error {
	t.setStatus(StatusDownloading)
	if t.URL == "" {
		return f.fail(t, errors.Wrap(ErrNoURL, t.Target))
	}

	err := Verify(t.Target, t.Size, t.Sha1)
	if err == nil {
		t.skipped.Store(true)
		t.setStatus(StatusCompleted)
		return nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		f.Logger.Debug("removing invalid file", zap.String("target", t.Target), zap.Error(err))
		os.Remove(t.Target)
	}

	if err := os.MkdirAll(filepath.Dir(t.Target), os.ModePerm); err != nil {
		return f.fail(t, err)
	}

	sources := []mirror.Source{mirror.Official}
	if t.UseMirror && mirror.IsMirrored(t.URL) {
		sources = f.Mirrors.Sources()
	}

	attempts := f.Attempts
	if attempts < 1 {
		attempts = 1
	}

	current := 0
	consecutive := 0
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		url := mirror.Rewrite(t.URL, sources[current])
		err := f.transfer(ctx, url, t)
		if err == nil {
			t.setStatus(StatusCompleted)
			return nil
		}
		lastErr = err
		f.Logger.Debug(
			"download attempt failed",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Stringer("source", sources[current]),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}

		consecutive++
		switch {
		case errors.Is(err, ErrTooManyRequests):
			current = slices.Index(sources, mirror.Official)
			if current == -1 {
				sources = append(sources, mirror.Official)
				current = len(sources) - 1
			}
			consecutive = 0
		case f.SwitchAfter > 0 && consecutive >= f.SwitchAfter && current < len(sources)-1:
			f.demote(sources[current], err)
			current++
			consecutive = 0
		}

		if attempt < attempts && f.Backoff != nil {
			if err := wait(ctx, f.Backoff(attempt)); err != nil {
				break
			}
		}
	}

	// someone else might have placed the file in the meantime
	if Verify(t.Target, t.Size, t.Sha1) == nil {
		t.setStatus(StatusCompleted)
		return nil
	}
	return f.fail(t, errors.Wrapf(lastErr, "downloading %s failed", t.URL))
}

// demote moves the selector away from a failing mirror, so following tasks start at the next source.
// Missing files do not count against a mirror.
func (f *Fetcher) demote(s mirror.Source, err error) {
	if s == mirror.Official || errors.Is(err, ErrNotFound) {
		return
	}
	if f.Mirrors.Current() == s {
		f.Logger.Debug("switching mirror", zap.Stringer("failed", s))
		f.Mirrors.Next()
	}
}

func (f *Fetcher) fail(t *Task, err error) error {
	t.err = err
	t.setStatus(StatusFailed)
	return err
}

type countingWriter struct{ t *Task }

func (c countingWriter) Write(p []byte) (int, error) {
	c.t.written.Add(int64(len(p)))
	return len(p), nil
}

func (f *Fetcher) transfer(ctx context.Context, url string, t *Task) error {
	t.written.Store(0)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	res, err := f.Client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "fetching %s", url)
	}
	defer res.Body.Close()
	if err := checkResponse(res); err != nil {
		return err
	}

	tmpPath := t.Target + "." + uniuri.NewLen(8) + ".tmp"
	tmp, err := os.Create(tmpPath)
	if err != nil {
		return err
	}

	hasher := sha1.New()
	n, err := io.Copy(io.MultiWriter(tmp, hasher, countingWriter{t}), res.Body)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "reading %s", url)
	}

	if t.Size > 0 && n != t.Size {
		os.Remove(tmpPath)
		return &ErrInvalidSize{FileName: url, Expected: t.Size, Actual: n}
	}
	if t.Sha1 != "" {
		actual := hex.EncodeToString(hasher.Sum(nil))
		if !strings.EqualFold(actual, t.Sha1) {
			os.Remove(tmpPath)
			return &ErrInvalidSha{FileName: url, ExpectedSha: t.Sha1, ActualSha: actual}
		}
	}

	if err := os.Rename(tmpPath, t.Target); err != nil {
		os.Remove(tmpPath)
		// lost a race against another writer
		if Verify(t.Target, t.Size, t.Sha1) == nil {
			return nil
		}
		return err
	}
	return nil
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
