package modrinth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	client, err := New(ts.Client()).WithBaseURL(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	return client
}

func TestQueryString(t *testing.T) {
	query := ListProjectVersionQuery{
		Loaders:      []string{"fabric"},
		GameVersions: []string{"1"},
	}

	result := query.String()
	expected := "game_versions=%5B%221%22%5D&loaders=%5B%22fabric%22%5D"

	if result != expected {
		t.Fatalf("expected %s, got %s", expected, result)
	}
}

func TestListProjectVersion(t *testing.T) {
	var gotPath, gotQuery string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[
			{"id": "old", "version_number": "0.86.0+1.20.1", "version_type": "release", "date_published": "2023-07-20T10:00:00Z",
			 "files": [{"url": "https://cdn.modrinth.com/old.jar", "filename": "fabric-api-0.86.0+1.20.1.jar", "primary": true, "size": 3, "hashes": {"sha1": "aa"}}]},
			{"id": "new", "version_number": "0.92.2+1.20.1", "version_type": "beta", "date_published": "2024-06-01T10:00:00Z",
			 "files": [
				{"url": "https://cdn.modrinth.com/sources.jar", "filename": "sources.jar", "primary": false},
				{"url": "https://cdn.modrinth.com/new.jar", "filename": "fabric-api-0.92.2+1.20.1.jar", "primary": true}
			 ]}
		]`))
	})

	versions, err := client.ListProjectVersion(context.Background(), "fabric-api", &ListProjectVersionQuery{
		Loaders:      []string{"fabric"},
		GameVersions: []string{"1.20.1"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if gotPath != "/v2/project/fabric-api/version" {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotQuery != "game_versions=%5B%221.20.1%22%5D&loaders=%5B%22fabric%22%5D" {
		t.Errorf("unexpected query %s", gotQuery)
	}

	if len(versions) != 2 || versions[0].ID != "new" {
		t.Fatalf("expected newest version first, got %+v", versions)
	}
	if versions[0].Stable() || !versions[1].Stable() {
		t.Error("only release versions are stable")
	}
	if f := versions[0].PrimaryFile(); f == nil || f.Filename != "fabric-api-0.92.2+1.20.1.jar" {
		t.Errorf("unexpected primary file %+v", f)
	}
	if f := versions[1].PrimaryFile(); f == nil || f.Size != 3 || f.Hashes.Sha1 != "aa" {
		t.Errorf("unexpected primary file %+v", f)
	}
}

func TestListProjectVersion_errors(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	if _, err := client.ListProjectVersion(context.Background(), "", nil); !errors.Is(err, ErrInvalidProjectIDOrSlug) {
		t.Errorf("expected ErrInvalidProjectIDOrSlug, got %v", err)
	}
	if _, err := client.ListProjectVersion(context.Background(), "does-not-exist", nil); !errors.Is(err, ErrResourceNotFound) {
		t.Errorf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestVersion_PrimaryFile(t *testing.T) {
	empty := &Version{}
	if empty.PrimaryFile() != nil {
		t.Error("versions without files have no primary file")
	}
	noPrimary := &Version{Files: []File{{Filename: "a.jar"}, {Filename: "b.jar"}}}
	if f := noPrimary.PrimaryFile(); f == nil || f.Filename != "a.jar" {
		t.Errorf("expected the first file, got %+v", f)
	}
}
