package instances

import (
	"archive/zip"
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/minepkg/mcinstall/internals/installer"
	"github.com/minepkg/mcinstall/internals/loaders"
	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pkg/errors"
)

func sha1Hex(b []byte) string {
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}

// fakeMojang serves every host from one test server, keyed by path
type fakeMojang struct {
	*httptest.Server
	mu    sync.Mutex
	files map[string][]byte
	hits  map[string]int
}

func newFakeMojang(t *testing.T) *fakeMojang {
	f := &fakeMojang{files: map[string][]byte{}, hits: map[string]int{}}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		content, ok := f.files[r.URL.Path]
		f.mu.Unlock()
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write(content)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeMojang) handle(rawURL string, content []byte) {
	path := rawURL
	if i := strings.Index(rawURL, "://"); i != -1 {
		path = rawURL[i+3:]
		path = path[strings.Index(path, "/"):]
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = content
}

func (f *fakeMojang) hitCount(rawURL string) int {
	path := rawURL[strings.Index(rawURL, "://")+3:]
	path = path[strings.Index(path, "/"):]
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

// RoundTrip sends every request to the test server
func (f *fakeMojang) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	clone.URL.Scheme = "http"
	clone.URL.Host = strings.TrimPrefix(f.URL, "http://")
	clone.Host = ""
	return http.DefaultTransport.RoundTrip(clone)
}

func (f *fakeMojang) artifact(rawURL string, path string, content []byte) *minecraft.Artifact {
	f.handle(rawURL, content)
	return &minecraft.Artifact{Path: path, URL: rawURL, Sha1: sha1Hex(content), Size: int64(len(content))}
}

const clientURL = "https://piston-data.mojang.com/v1/objects/c0ffee/client.jar"

// serveVanilla publishes a small 1.20.1 with two libraries and three assets
func (f *fakeMojang) serveVanilla(t *testing.T) {
	objects := map[string]minecraft.AssetObject{}
	for i := 0; i < 3; i++ {
		content := []byte(fmt.Sprintf("sound %d", i))
		obj := minecraft.AssetObject{Hash: sha1Hex(content), Size: int64(len(content))}
		objects[fmt.Sprintf("minecraft/sounds/%d.ogg", i)] = obj
		f.handle(obj.DownloadURL(), content)
	}
	index, _ := json.Marshal(minecraft.AssetIndex{Objects: objects})
	indexURL := "https://piston-meta.mojang.com/v1/packages/1dx/5.json"
	f.handle(indexURL, index)

	lib := func(name string, path string) minecraft.Library {
		return minecraft.Library{
			Name: name,
			Downloads: &minecraft.LibraryDownloads{
				Artifact: f.artifact(minecraft.LibrariesURL+path, path, []byte(name)),
			},
		}
	}

	descriptor := &minecraft.LaunchManifest{
		ID:        "1.20.1",
		Type:      minecraft.TypeRelease,
		MainClass: "net.minecraft.client.main.Main",
		Assets:    "5",
		AssetIndex: &minecraft.AssetIndexRef{
			ID:   "5",
			URL:  indexURL,
			Sha1: sha1Hex(index),
			Size: int64(len(index)),
		},
		Downloads: &minecraft.Downloads{
			Client: f.artifact(clientURL, "", []byte("client jar")),
		},
		Libraries: minecraft.Libraries{
			lib("org.ow2.asm:asm:9.3", "org/ow2/asm/asm/9.3/asm-9.3.jar"),
			lib("com.mojang:brigadier:1.1.8", "com/mojang/brigadier/1.1.8/brigadier-1.1.8.jar"),
		},
		JavaVersion: &minecraft.JavaVersion{Component: "java-runtime-gamma", MajorVersion: 17},
	}
	raw, err := json.Marshal(descriptor)
	if err != nil {
		t.Fatal(err)
	}
	descriptorURL := "https://piston-meta.mojang.com/v1/packages/" + sha1Hex(raw) + "/1.20.1.json"
	f.handle(descriptorURL, raw)

	f.handle("https://piston-meta.mojang.com/mc/game/version_manifest_v2.json", []byte(fmt.Sprintf(`{
		"latest": {"release": "1.20.1", "snapshot": "1.20.1"},
		"versions": [{"id": "1.20.1", "type": "release", "url": %q, "sha1": %q}]
	}`, descriptorURL, sha1Hex(raw))))
}

func (f *fakeMojang) serveFabric() {
	f.handle(loaders.FabricMetaURL+"/v2/versions/loader/1.20.1", []byte(`[
		{"loader": {"version": "0.16.9", "stable": true}},
		{"loader": {"version": "0.16.10", "stable": true}}
	]`))
	f.handle(loaders.FabricMetaURL+"/v2/versions/loader/1.20.1/0.16.10/profile/json", []byte(`{
		"id": "fabric-loader-0.16.10-1.20.1",
		"inheritsFrom": "1.20.1",
		"type": "release",
		"mainClass": "net.fabricmc.loader.impl.launch.knot.KnotClient",
		"arguments": {"game": [], "jvm": ["-DFabricMcEmu= net.minecraft.client.main.Main "]},
		"libraries": [
			{"name": "org.ow2.asm:asm:9.6", "url": "https://maven.fabricmc.net/"},
			{"name": "net.fabricmc:intermediary:1.20.1", "url": "https://maven.fabricmc.net/"},
			{"name": "net.fabricmc:fabric-loader:0.16.10", "url": "https://maven.fabricmc.net/"}
		]
	}`))
	for _, path := range []string{
		"org/ow2/asm/asm/9.6/asm-9.6.jar",
		"net/fabricmc/intermediary/1.20.1/intermediary-1.20.1.jar",
		"net/fabricmc/fabric-loader/0.16.10/fabric-loader-0.16.10.jar",
	} {
		f.handle(minecraft.FabricMavenURL+path, []byte(path))
	}
}

func testManager(t *testing.T, f *fakeMojang) *Manager {
	cfg := DefaultConfig(t.TempDir())
	cfg.UseMirror = false
	cfg.Attempts = 1
	cfg.Connections = 4
	cfg.HTTPClient = &http.Client{Transport: f}
	cfg.Evaluator = minecraft.NewEvaluator("linux", "amd64")
	m := New(cfg)
	m.Fetcher.Backoff = func(int) time.Duration { return 0 }
	return m
}

type recorder struct {
	mu     sync.Mutex
	events []Progress
}

func (r *recorder) record(p Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, p)
}

func (r *recorder) stages() map[string]bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	stages := map[string]bool{}
	for _, e := range r.events {
		stages[e.Stage] = true
	}
	return stages
}

func (r *recorder) last() Progress {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[len(r.events)-1]
}

func TestDownloadVanilla(t *testing.T) {
	f := newFakeMojang(t)
	f.serveVanilla(t)
	m := testManager(t, f)

	progress := &recorder{}
	manifest, err := m.DownloadVanilla(context.Background(), "1.20.1", "", WithProgress(progress.record))
	if err != nil {
		t.Fatal(err)
	}
	if manifest.ID != "1.20.1" {
		t.Errorf("unexpected id %s", manifest.ID)
	}

	for _, path := range []string{
		m.Layout.VersionJSON("1.20.1", "1.20.1"),
		m.Layout.VersionJar("1.20.1", "1.20.1"),
		filepath.Join(m.Layout.LibrariesDir(), "com/mojang/brigadier/1.1.8/brigadier-1.1.8.jar"),
		filepath.Join(m.Layout.AssetsDir(), "indexes", "5.json"),
		filepath.Join(m.Layout.VersionDir("1.20.1"), MetadataFile),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Error(err)
		}
	}

	stages := progress.stages()
	for _, stage := range []string{StageIndex, StageClient, StageLibraries, StageAssets, StageGenerateJSON, StageComplete} {
		if !stages[stage] {
			t.Errorf("missing progress stage %s", stage)
		}
	}
	if stages[StageError] {
		t.Error("unexpected error stage")
	}
	if progress.events[0].Stage != StageIndex || progress.last().Stage != StageComplete {
		t.Errorf("unexpected first/last stage %s/%s", progress.events[0].Stage, progress.last().Stage)
	}
}

func TestDownloadVanilla_customName(t *testing.T) {
	f := newFakeMojang(t)
	f.serveVanilla(t)
	m := testManager(t, f)

	manifest, err := m.DownloadVanilla(context.Background(), "1.20.1", " survival ")
	if err != nil {
		t.Fatal(err)
	}
	if manifest.ID != "survival" {
		t.Errorf("expected the id to be rewritten, got %s", manifest.ID)
	}

	saved, err := m.Resolver.ReadInstalled("survival")
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID != "survival" || saved.MainClass != "net.minecraft.client.main.Main" {
		t.Errorf("unexpected saved json %+v", saved)
	}
	if _, err := os.Stat(m.Layout.VersionJar("survival", "survival")); err != nil {
		t.Error(err)
	}
	for _, stale := range []string{m.Layout.VersionJSON("survival", "1.20.1"), m.Layout.VersionJar("survival", "1.20.1")} {
		if _, err := os.Stat(stale); !os.IsNotExist(err) {
			t.Errorf("expected %s to be removed", stale)
		}
	}

	// installing again does not download the client or libraries again
	if _, err := m.DownloadVanilla(context.Background(), "1.20.1", "survival"); err != nil {
		t.Fatal(err)
	}
	if hits := f.hitCount(clientURL); hits != 1 {
		t.Errorf("expected the client jar to be downloaded once, got %d", hits)
	}
	if hits := f.hitCount(minecraft.LibrariesURL + "org/ow2/asm/asm/9.3/asm-9.3.jar"); hits != 1 {
		t.Errorf("expected the library to be downloaded once, got %d", hits)
	}
	if hits := f.hitCount("https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"); hits != 1 {
		t.Errorf("expected a cached manifest, got %d requests", hits)
	}
}

func TestDownloadVanilla_unknownVersion(t *testing.T) {
	f := newFakeMojang(t)
	f.serveVanilla(t)
	m := testManager(t, f)

	progress := &recorder{}
	_, err := m.DownloadVanilla(context.Background(), "1.99", "", WithProgress(progress.record))
	if err == nil {
		t.Fatal("expected an error")
	}
	last := progress.last()
	if last.Stage != StageError || !strings.Contains(last.Message, "1.99") {
		t.Errorf("expected an error stage naming the version, got %+v", last)
	}
}

func TestDownloadVanilla_invalidName(t *testing.T) {
	m := testManager(t, newFakeMojang(t))
	_, err := m.DownloadVanilla(context.Background(), "1.20.1", "../escape")
	if !errors.Is(err, ErrInvalidName) {
		t.Errorf("expected ErrInvalidName, got %v", err)
	}
}

func TestDownloadWithLoader_fabric(t *testing.T) {
	f := newFakeMojang(t)
	f.serveVanilla(t)
	f.serveFabric()
	m := testManager(t, f)

	progress := &recorder{}
	merged, err := m.DownloadWithLoader(context.Background(), "1.20.1", loaders.Fabric, "", "myserver", WithProgress(progress.record))
	if err != nil {
		t.Fatal(err)
	}

	saved, err := m.Resolver.ReadInstalled("myserver")
	if err != nil {
		t.Fatal(err)
	}
	if saved.ID != "myserver" || saved.InheritsFrom != "" || saved.Type != minecraft.TypeRelease {
		t.Errorf("unexpected merged header %s/%s/%s", saved.ID, saved.InheritsFrom, saved.Type)
	}
	if saved.MainClass != "net.fabricmc.loader.impl.launch.knot.KnotClient" {
		t.Errorf("expected the fabric main class, got %s", saved.MainClass)
	}
	if saved.AssetIndex == nil || saved.AssetIndex.ID != "5" || saved.ClientDownload() == nil {
		t.Error("expected assets and downloads of the vanilla json")
	}

	keys := map[string]int{}
	for _, lib := range merged.Libraries {
		keys[lib.DedupKey()]++
	}
	for key, count := range keys {
		if count != 1 {
			t.Errorf("library %s appears %d times", key, count)
		}
	}
	if keys["net.fabricmc:intermediary"] != 1 || keys["com.mojang:brigadier"] != 1 {
		t.Errorf("unexpected libraries %v", keys)
	}
	for _, lib := range merged.Libraries {
		if lib.DedupKey() == "org.ow2.asm:asm" && lib.Name != "org.ow2.asm:asm:9.6" {
			t.Errorf("expected the loader asm to win, got %s", lib.Name)
		}
	}

	if _, err := os.Stat(m.Layout.VersionJar("myserver", "myserver")); err != nil {
		t.Error(err)
	}
	if _, err := os.Stat(m.Layout.VersionJSON("myserver", "1.20.1")); !os.IsNotExist(err) {
		t.Error("expected the vanilla json to be removed")
	}

	stages := progress.stages()
	for _, stage := range []string{StageLoaderInfo, StageLoaderLibraries, StageLibraries, StageAssets, StageComplete} {
		if !stages[stage] {
			t.Errorf("missing progress stage %s", stage)
		}
	}

	installed, err := m.Installed("myserver")
	if err != nil {
		t.Fatal(err)
	}
	if installed.LoaderType != "fabric" || installed.Metadata.LoaderVersion != "0.16.10" || !installed.Complete() {
		t.Errorf("unexpected installed version %+v", installed)
	}
}

func TestDownloadWithLoader_defaultName(t *testing.T) {
	f := newFakeMojang(t)
	f.serveVanilla(t)
	f.serveFabric()
	m := testManager(t, f)

	merged, err := m.DownloadWithLoader(context.Background(), "1.20.1", loaders.Fabric, "0.16.10", "")
	if err != nil {
		t.Fatal(err)
	}
	if merged.ID != "1.20.1-fabric-0.16.10" {
		t.Errorf("unexpected default name %s", merged.ID)
	}
}

func TestDownloadWithLoader_unknownLoaderVersion(t *testing.T) {
	f := newFakeMojang(t)
	f.serveVanilla(t)
	f.serveFabric()
	m := testManager(t, f)

	progress := &recorder{}
	_, err := m.DownloadWithLoader(context.Background(), "1.20.1", loaders.Fabric, "9.9.9", "", WithProgress(progress.record))
	if !errors.Is(err, loaders.ErrVersionNotFound) {
		t.Errorf("expected ErrVersionNotFound, got %v", err)
	}
	if progress.last().Stage != StageError {
		t.Errorf("expected an error stage, got %+v", progress.last())
	}
	// nothing was downloaded
	if hits := f.hitCount(clientURL); hits != 0 {
		t.Errorf("expected no client download, got %d", hits)
	}
}

func zipBytes(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	buf := &bytes.Buffer{}
	w := zip.NewWriter(buf)
	for name, content := range files {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(content)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

type failingRunner struct {
	tools []installer.ExternalTool
}

func (r *failingRunner) Run(ctx context.Context, tool installer.ExternalTool, dir string, timeout time.Duration) (int, error) {
	r.tools = append(r.tools, tool)
	return 1, nil
}

func (f *fakeMojang) serveForge(t *testing.T) {
	processorJar := zipBytes(t, map[string][]byte{
		"META-INF/MANIFEST.MF": []byte("Manifest-Version: 1.0\nMain-Class: net.minecraftforge.binarypatcher.ConsoleTool\n"),
	})
	installerJar := zipBytes(t, map[string][]byte{
		"install_profile.json": []byte(`{
			"spec": 1,
			"minecraft": "1.20.1",
			"data": {"BINPATCH": {"client": "/data/client.lzma", "server": "/data/server.lzma"}},
			"processors": [{
				"jar": "net.minecraftforge:binarypatcher:1.1.1",
				"classpath": [],
				"args": ["--clean", "{MINECRAFT_JAR}", "--apply", "{BINPATCH}"]
			}],
			"libraries": []
		}`),
		"version.json": []byte(`{
			"id": "1.20.1-forge-47.2.0",
			"inheritsFrom": "1.20.1",
			"mainClass": "cpw.mods.bootstraplauncher.BootstrapLauncher",
			"libraries": []
		}`),
		"data/client.lzma": []byte("patches"),
		"maven/net/minecraftforge/binarypatcher/1.1.1/binarypatcher-1.1.1.jar": processorJar,
	})
	f.handle(loaders.BMCLAPIURL+"/forge/minecraft/1.20.1", []byte(`[{"version": "47.2.0", "mcversion": "1.20.1"}]`))
	f.handle(minecraft.ForgeMavenURL+"net/minecraftforge/forge/1.20.1-47.2.0/forge-1.20.1-47.2.0-installer.jar", installerJar)
}

// processor exits with code 1
func TestDownloadWithLoader_processorFails(t *testing.T) {
	f := newFakeMojang(t)
	f.serveVanilla(t)
	f.serveForge(t)
	m := testManager(t, f)
	runner := &failingRunner{}
	m.LoaderDeps.Runner = runner

	progress := &recorder{}
	_, err := m.DownloadWithLoader(context.Background(), "1.20.1", loaders.Forge, "47.2.0", "", WithProgress(progress.record))

	var processorErr *installer.ProcessorError
	if !errors.As(err, &processorErr) || processorErr.ExitCode != 1 {
		t.Fatalf("expected a processor error, got %v", err)
	}
	if len(runner.tools) != 1 {
		t.Errorf("expected the chain to stop after the first processor, got %d runs", len(runner.tools))
	}

	last := progress.last()
	if last.Stage != StageError || !strings.Contains(last.Message, "net.minecraftforge:binarypatcher:1.1.1") {
		t.Errorf("expected an error stage naming the processor jar, got %+v", last)
	}
	if !progress.stages()[StageProcessors] {
		t.Error("expected the processors stage to be reported")
	}

	name := DefaultName("1.20.1", loaders.Forge, "47.2.0")
	if _, err := os.Stat(m.Layout.VersionJSON(name, name)); !os.IsNotExist(err) {
		t.Error("expected no merged json after a failed installation")
	}
}

func TestListInstalledVersions(t *testing.T) {
	f := newFakeMojang(t)
	f.serveVanilla(t)
	m := testManager(t, f)

	installed, err := m.ListInstalledVersions()
	if err != nil || len(installed) != 0 {
		t.Fatalf("expected no versions, got %v, %v", installed, err)
	}

	if _, err := m.DownloadVanilla(context.Background(), "1.20.1", ""); err != nil {
		t.Fatal(err)
	}

	// installed by another launcher, json only
	forge := &minecraft.LaunchManifest{
		ID:           "1.12.2-forge",
		InheritsFrom: "1.12.2",
		MainClass:    "net.minecraft.launchwrapper.Launch",
		Libraries:    minecraft.Libraries{{Name: "net.minecraftforge:forge:1.12.2-14.23.5.2860"}},
	}
	if err := m.Resolver.SaveVersion("1.12.2-forge", "1.12.2-forge", forge); err != nil {
		t.Fatal(err)
	}
	os.MkdirAll(m.Layout.VersionDir("empty"), os.ModePerm)

	installed, err = m.ListInstalledVersions()
	if err != nil {
		t.Fatal(err)
	}
	if len(installed) != 2 {
		t.Fatalf("expected two versions, got %+v", installed)
	}
	if installed[0].ID != "1.12.2-forge" || installed[0].LoaderType != "forge" || installed[0].JarExists || !installed[0].JSONExists {
		t.Errorf("unexpected forge entry %+v", installed[0])
	}
	if installed[1].ID != "1.20.1" || installed[1].LoaderType != LoaderVanilla || !installed[1].Complete() {
		t.Errorf("unexpected vanilla entry %+v", installed[1])
	}
	if installed[1].Metadata == nil || installed[1].Metadata.MinecraftVersion != "1.20.1" {
		t.Errorf("expected install metadata, got %+v", installed[1].Metadata)
	}
}

func TestDetectLoader(t *testing.T) {
	tests := []struct {
		name     string
		manifest *minecraft.LaunchManifest
		want     string
	}{
		{"vanilla", &minecraft.LaunchManifest{MainClass: "net.minecraft.client.main.Main"}, LoaderVanilla},
		{"fabric", &minecraft.LaunchManifest{MainClass: "net.fabricmc.loader.impl.launch.knot.KnotClient"}, "fabric"},
		{
			"neoforge",
			&minecraft.LaunchManifest{
				MainClass: "cpw.mods.bootstraplauncher.BootstrapLauncher",
				Libraries: minecraft.Libraries{{Name: "net.neoforged.fancymodloader:loader:2.0.7"}},
			},
			"neoforge",
		},
		{
			"forge",
			&minecraft.LaunchManifest{
				MainClass: "cpw.mods.bootstraplauncher.BootstrapLauncher",
				Libraries: minecraft.Libraries{{Name: "net.minecraftforge:fmlloader:1.20.1-47.2.0"}},
			},
			"forge",
		},
		{
			"optifine",
			&minecraft.LaunchManifest{
				MainClass: "net.minecraft.launchwrapper.Launch",
				Libraries: minecraft.Libraries{{Name: "optifine:OptiFine:1.20.1_HD_U_I6"}},
			},
			"optifine",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLoader(tt.manifest); got != tt.want {
				t.Errorf("DetectLoader() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManager_Classpath(t *testing.T) {
	f := newFakeMojang(t)
	f.serveVanilla(t)
	m := testManager(t, f)

	if _, err := m.DownloadVanilla(context.Background(), "1.20.1", "survival"); err != nil {
		t.Fatal(err)
	}
	paths, err := m.Classpath("survival")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(m.Layout.LibrariesDir(), "org/ow2/asm/asm/9.3/asm-9.3.jar"),
		filepath.Join(m.Layout.LibrariesDir(), "com/mojang/brigadier/1.1.8/brigadier-1.1.8.jar"),
		m.Layout.VersionJar("survival", "survival"),
	}
	if strings.Join(paths, "\n") != strings.Join(want, "\n") {
		t.Errorf("Classpath() =\n%v\nwant\n%v", paths, want)
	}
}

func TestManager_Classpath_inherited(t *testing.T) {
	m := testManager(t, newFakeMojang(t))

	versions := map[string]string{
		"base":  `{"id": "base", "libraries": [{"name": "com.example:base-lib:1.0"}]}`,
		"child": `{"id": "child", "inheritsFrom": "base", "libraries": [{"name": "com.example:child-lib:2.0"}]}`,
	}
	for id, raw := range versions {
		if err := os.MkdirAll(m.Layout.VersionDir(id), os.ModePerm); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(m.Layout.VersionJSON(id, id), []byte(raw), 0644); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(m.Layout.VersionJar(id, id), []byte(id), 0644); err != nil {
			t.Fatal(err)
		}
	}

	paths, err := m.Classpath("child")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		filepath.Join(m.Layout.LibrariesDir(), "com/example/base-lib/1.0/base-lib-1.0.jar"),
		filepath.Join(m.Layout.LibrariesDir(), "com/example/child-lib/2.0/child-lib-2.0.jar"),
		m.Layout.VersionJar("base", "base"),
		m.Layout.VersionJar("child", "child"),
	}
	if strings.Join(paths, "\n") != strings.Join(want, "\n") {
		t.Errorf("Classpath() =\n%v\nwant\n%v", paths, want)
	}
}

func TestReadMetadata(t *testing.T) {
	dir := t.TempDir()
	meta := &Metadata{
		Name:             "myserver",
		MinecraftVersion: "1.20.1",
		Loader:           "fabric",
		LoaderVersion:    "0.16.10",
		InstalledAt:      time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	if err := WriteMetadata(dir, meta); err != nil {
		t.Fatal(err)
	}
	raw, _ := os.ReadFile(filepath.Join(dir, MetadataFile))
	if !strings.Contains(string(raw), `loader_version = "0.16.10"`) {
		t.Errorf("unexpected toml:\n%s", raw)
	}

	read, err := ReadMetadata(dir)
	if err != nil {
		t.Fatal(err)
	}
	if read.Name != meta.Name || read.Loader != meta.Loader || read.LoaderVersion != meta.LoaderVersion || !read.InstalledAt.Equal(meta.InstalledAt) {
		t.Errorf("ReadMetadata() = %+v, want %+v", read, meta)
	}
}
