// Package mirror rewrites official Minecraft download urls to faster mirror hosts
package mirror

import (
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// Source is a download source. Official is always the last fallback.
type Source int

const (
	// BMCLAPI is https://bmclapi2.bangbang93.com
	BMCLAPI Source = iota
	// MCBBS is https://download.mcbbs.net
	MCBBS
	// Official uses the original urls
	Official
)

// BMCLAPIHost is also used for loader metadata (forge, optifine version lists)
const BMCLAPIHost = "bmclapi2.bangbang93.com"

var sourceHosts = map[Source]string{
	BMCLAPI: BMCLAPIHost,
	MCBBS:   "download.mcbbs.net",
}

var sourceNames = map[Source]string{
	BMCLAPI:  "bmclapi",
	MCBBS:    "mcbbs",
	Official: "official",
}

func (s Source) String() string {
	if name, ok := sourceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("source(%d)", int(s))
}

// ParseSource parses a source name like "bmclapi"
func ParseSource(name string) (Source, error) {
	for source, sourceName := range sourceNames {
		if strings.EqualFold(name, sourceName) {
			return source, nil
		}
	}
	return 0, fmt.Errorf("unknown mirror source %q", name)
}

// ManifestURL returns the version_manifest_v2.json url of a source
func ManifestURL(s Source) string {
	switch s {
	case BMCLAPI, MCBBS:
		return "https://" + sourceHosts[s] + "/mc/game/version_manifest_v2.json"
	}
	return "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"
}

type hostRule struct {
	// stripPrefix is removed from the origin path
	stripPrefix string
	// target is appended to the mirror host
	target string
	// bmclPrefix is only used for BMCLAPI
	bmclPrefix string
}

var rules = map[string]hostRule{
	"piston-meta.mojang.com":           {},
	"piston-data.mojang.com":           {bmclPrefix: "/openbmclapi"},
	"launcher.mojang.com":              {},
	"launchermeta.mojang.com":          {},
	"libraries.minecraft.net":          {target: "/maven"},
	"resources.download.minecraft.net": {target: "/assets"},
	"maven.minecraftforge.net":         {target: "/maven"},
	"files.minecraftforge.net":         {stripPrefix: "/maven", target: "/maven"},
	"maven.neoforged.net":              {stripPrefix: "/releases", target: "/maven"},
	"maven.fabricmc.net":               {target: "/maven"},
}

// Rewrite returns the url for the given source.
// Urls without a known host (or for the Official source) are returned unchanged.
func Rewrite(rawURL string, s Source) string {
	if s == Official {
		return rawURL
	}
	mirrorHost, ok := sourceHosts[s]
	if !ok {
		return rawURL
	}

	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return rawURL
	}

	rule, ok := rules[strings.ToLower(u.Host)]
	if !ok {
		return rawURL
	}

	path := u.EscapedPath()
	if rule.stripPrefix != "" && strings.HasPrefix(path, rule.stripPrefix+"/") {
		path = strings.TrimPrefix(path, rule.stripPrefix)
	}

	prefix := rule.target
	if s == BMCLAPI {
		prefix += rule.bmclPrefix
	}

	rewritten := "https://" + mirrorHost + prefix + path
	if u.RawQuery != "" {
		rewritten += "?" + u.RawQuery
	}
	return rewritten
}

// IsMirrored returns true if the url would be rewritten for at least one mirror
func IsMirrored(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	_, ok := rules[strings.ToLower(u.Host)]
	return ok
}

// Selector keeps track of the preferred source and falls back to the next one on failure.
// It is safe for concurrent use.
type Selector struct {
	mu        sync.Mutex
	preferred []Source
	current   int
	failed    map[Source]bool
}

// NewSelector returns a selector for the given sources.
// Official is always appended if it is missing. No sources means BMCLAPI, MCBBS, Official.
func NewSelector(preferred ...Source) *Selector {
	if len(preferred) == 0 {
		preferred = []Source{BMCLAPI, MCBBS, Official}
	}

	ordered := make([]Source, 0, len(preferred)+1)
	seen := map[Source]bool{}
	for _, s := range preferred {
		if seen[s] {
			continue
		}
		seen[s] = true
		ordered = append(ordered, s)
	}
	if !seen[Official] {
		ordered = append(ordered, Official)
	}

	return &Selector{preferred: ordered, failed: map[Source]bool{}}
}

// OfficialOnly returns a selector that never rewrites urls
func OfficialOnly() *Selector {
	return NewSelector(Official)
}

// Current returns the source that should be used
func (s *Selector) Current() Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preferred[s.current]
}

// Next marks the current source as failed and switches to the next one.
// When every source failed it resets and returns false, the current source is Official then.
func (s *Selector) Next() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failed[s.preferred[s.current]] = true
	for i, source := range s.preferred {
		if !s.failed[source] {
			s.current = i
			return true
		}
	}

	s.failed = map[Source]bool{}
	s.current = len(s.preferred) - 1
	return false
}

// Reset goes back to the first preferred source
func (s *Selector) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = 0
	s.failed = map[Source]bool{}
}

// Sources returns the fallback order starting at the current source
func (s *Selector) Sources() []Source {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Source(nil), s.preferred[s.current:]...)
}

// Candidates returns the distinct urls to try for rawURL, in fallback order
func (s *Selector) Candidates(rawURL string) []string {
	candidates := make([]string, 0, len(s.preferred))
	for _, source := range s.Sources() {
		rewritten := Rewrite(rawURL, source)
		duplicate := false
		for _, c := range candidates {
			if c == rewritten {
				duplicate = true
				break
			}
		}
		if !duplicate {
			candidates = append(candidates, rewritten)
		}
	}
	return candidates
}
