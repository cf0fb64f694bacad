package downloadmgr

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/minepkg/mcinstall/internals/mirror"
	"github.com/pkg/errors"
)

func sha1Hex(s string) string {
	sum := sha1.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func testFetcher(client *http.Client, mirrors *mirror.Selector) *Fetcher {
	f := NewFetcher(client, mirrors)
	f.Backoff = func(int) time.Duration { return 0 }
	return f
}

// redirectTransport sends every request to a test server and records the original host
type redirectTransport struct {
	target string
	hosts  chan string
}

func (r *redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if r.hosts != nil {
		r.hosts <- req.URL.Host
	}
	clone := req.Clone(req.Context())
	clone.URL.Scheme = "http"
	clone.URL.Host = strings.TrimPrefix(r.target, "http://")
	clone.Host = ""
	clone.Header.Set("X-Original-Host", req.URL.Host)
	return http.DefaultTransport.RoundTrip(clone)
}

func TestFetch_idempotent(t *testing.T) {
	body := "hello world"
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte(body))
	}))
	defer ts.Close()

	target := filepath.Join(t.TempDir(), "some", "dir", "file.txt")
	f := testFetcher(ts.Client(), nil)

	for i := 0; i < 2; i++ {
		task := &Task{URL: ts.URL + "/file.txt", Target: target, Sha1: sha1Hex(body), Size: int64(len(body))}
		if err := f.Fetch(context.Background(), task); err != nil {
			t.Fatal(err)
		}
		if i == 1 && !task.Skipped() {
			t.Error("second fetch should be skipped")
		}
	}

	if hits.Load() != 1 {
		t.Errorf("expected exactly one request, got %d", hits.Load())
	}
	content, _ := os.ReadFile(target)
	if string(content) != body {
		t.Errorf("unexpected content %q", content)
	}
}

func TestFetch_replacesCorruptFile(t *testing.T) {
	body := "good content"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer ts.Close()

	target := filepath.Join(t.TempDir(), "file.jar")
	os.WriteFile(target, []byte("bad"), 0644)

	task := &Task{URL: ts.URL, Target: target, Sha1: sha1Hex(body)}
	if err := testFetcher(ts.Client(), nil).Fetch(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	if task.Skipped() {
		t.Error("corrupt file should not be skipped")
	}
	content, _ := os.ReadFile(target)
	if string(content) != body {
		t.Errorf("unexpected content %q", content)
	}
}

func TestFetch_checksumMismatchLeavesNoFile(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.Write([]byte("not what you expected"))
	}))
	defer ts.Close()

	dir := t.TempDir()
	target := filepath.Join(dir, "file.jar")
	task := &Task{URL: ts.URL, Target: target, Sha1: sha1Hex("something else")}
	err := testFetcher(ts.Client(), nil).Fetch(context.Background(), task)
	if err == nil {
		t.Fatal("expected an error")
	}
	if !errors.Is(err, ErrChecksum) {
		t.Errorf("expected a checksum error, got %v", err)
	}
	if task.Status() != StatusFailed || task.Err() == nil {
		t.Errorf("task should be failed, is %s", task.Status())
	}
	if hits.Load() != DefaultAttempts {
		t.Errorf("expected %d attempts, got %d", DefaultAttempts, hits.Load())
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected no leftover files, found %d (%s)", len(entries), entries[0].Name())
	}
}

func TestFetch_notFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	task := NewTask(ts.URL+"/missing", filepath.Join(t.TempDir(), "missing"))
	err := testFetcher(ts.Client(), nil).Fetch(context.Background(), task)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestFetch_switchesMirrorAfterTwoFailures(t *testing.T) {
	body := "library"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Original-Host") == mirror.BMCLAPIHost {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(body))
	}))
	defer ts.Close()

	hosts := make(chan string, 10)
	client := &http.Client{Transport: &redirectTransport{target: ts.URL, hosts: hosts}}
	f := testFetcher(client, mirror.NewSelector(mirror.BMCLAPI, mirror.MCBBS))

	task := &Task{
		URL:       "https://libraries.minecraft.net/a/b/1/b-1.jar",
		Target:    filepath.Join(t.TempDir(), "b-1.jar"),
		Sha1:      sha1Hex(body),
		UseMirror: true,
	}
	if err := f.Fetch(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	close(hosts)

	got := []string{}
	for h := range hosts {
		got = append(got, h)
	}
	want := []string{mirror.BMCLAPIHost, mirror.BMCLAPIHost, "download.mcbbs.net"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("unexpected host order %v, want %v", got, want)
	}
	if current := f.Mirrors.Current(); current != mirror.MCBBS {
		t.Errorf("failing mirror should be demoted, current source is %s", current)
	}
}

func TestFetch_unmirroredURLKeepsSelector(t *testing.T) {
	var requests atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests.Add(1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte("file"))
	}))
	defer ts.Close()

	hosts := make(chan string, 10)
	client := &http.Client{Transport: &redirectTransport{target: ts.URL, hosts: hosts}}
	f := testFetcher(client, mirror.NewSelector(mirror.BMCLAPI, mirror.MCBBS))

	task := &Task{
		URL:       "https://example.com/file.txt",
		Target:    filepath.Join(t.TempDir(), "file.txt"),
		UseMirror: true,
	}
	if err := f.Fetch(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	close(hosts)

	for h := range hosts {
		if h != "example.com" {
			t.Errorf("unexpected host %s", h)
		}
	}
	if requests.Load() != 3 {
		t.Errorf("expected 3 requests, got %d", requests.Load())
	}
	if current := f.Mirrors.Current(); current != mirror.BMCLAPI {
		t.Errorf("selector should not change for unmirrored urls, current source is %s", current)
	}
}

func TestFetch_tooManyRequestsGoesToOrigin(t *testing.T) {
	body := "asset"
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Original-Host") == mirror.BMCLAPIHost {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte(body))
	}))
	defer ts.Close()

	hosts := make(chan string, 10)
	client := &http.Client{Transport: &redirectTransport{target: ts.URL, hosts: hosts}}
	f := testFetcher(client, mirror.NewSelector(mirror.BMCLAPI, mirror.MCBBS))

	task := &Task{
		URL:       "https://resources.download.minecraft.net/ab/abcdef",
		Target:    filepath.Join(t.TempDir(), "abcdef"),
		UseMirror: true,
	}
	if err := f.Fetch(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	close(hosts)

	got := []string{}
	for h := range hosts {
		got = append(got, h)
	}
	want := []string{mirror.BMCLAPIHost, "resources.download.minecraft.net"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("unexpected host order %v, want %v", got, want)
	}
}

func TestFetch_tooManyRequestsWithOfficialFirst(t *testing.T) {
	var official atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Original-Host") == mirror.BMCLAPIHost {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		if official.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("asset"))
	}))
	defer ts.Close()

	hosts := make(chan string, 10)
	client := &http.Client{Transport: &redirectTransport{target: ts.URL, hosts: hosts}}
	f := testFetcher(client, mirror.NewSelector(mirror.Official, mirror.BMCLAPI))

	task := &Task{
		URL:       "https://resources.download.minecraft.net/ab/abcdef",
		Target:    filepath.Join(t.TempDir(), "abcdef"),
		UseMirror: true,
	}
	if err := f.Fetch(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	close(hosts)

	got := []string{}
	for h := range hosts {
		got = append(got, h)
	}
	want := []string{"resources.download.minecraft.net", "resources.download.minecraft.net"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("unexpected host order %v, want %v", got, want)
	}
}

func TestFetch_noURL(t *testing.T) {
	task := NewTask("", filepath.Join(t.TempDir(), "x"))
	err := testFetcher(nil, nil).Fetch(context.Background(), task)
	if !errors.Is(err, ErrNoURL) {
		t.Errorf("expected ErrNoURL, got %v", err)
	}
}

func TestFetchJSON_fallsBackToOrigin(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Original-Host") != "piston-meta.mojang.com" {
			// mirrors answering with an html error page
			w.Write([]byte("<html>busy</html>"))
			return
		}
		w.Write([]byte(`{"id":"1.20.1"}`))
	}))
	defer ts.Close()

	client := &http.Client{Transport: &redirectTransport{target: ts.URL}}
	f := testFetcher(client, mirror.NewSelector())

	var v struct {
		ID string `json:"id"`
	}
	err := f.FetchJSON(context.Background(), "https://piston-meta.mojang.com/v1/packages/x/1.20.1.json", &v, true)
	if err != nil {
		t.Fatal(err)
	}
	if v.ID != "1.20.1" {
		t.Errorf("unexpected id %q", v.ID)
	}
}

func TestVerify(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	os.WriteFile(path, []byte("abc"), 0644)

	if err := Verify(path, 3, sha1Hex("abc")); err != nil {
		t.Errorf("expected valid file, got %v", err)
	}
	if err := Verify(path, 0, ""); err != nil {
		t.Errorf("existing file without checksums should be valid, got %v", err)
	}
	if err := Verify(path, 4, ""); !errors.Is(err, ErrChecksum) {
		t.Errorf("expected size mismatch, got %v", err)
	}
	if err := Verify(path, 0, sha1Hex("abcd")); !errors.Is(err, ErrChecksum) {
		t.Errorf("expected sha mismatch, got %v", err)
	}
	if err := Verify(path+"-missing", 0, ""); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not exist, got %v", err)
	}
}
