package minecraft

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnsafePath is returned for relative paths that would leave their root directory
var ErrUnsafePath = errors.New("unsafe path")

// Coordinate is a maven coordinate like `group:artifact:version[:classifier][@extension]`
type Coordinate struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
	// Extension defaults to "jar"
	Extension string
}

// ParseCoordinate parses a maven name
func ParseCoordinate(name string) (Coordinate, error) {
	c := Coordinate{Extension: "jar"}

	if at := strings.LastIndex(name, "@"); at != -1 {
		c.Extension = name[at+1:]
		name = name[:at]
	}

	parts := strings.Split(name, ":")
	if len(parts) < 3 || len(parts) > 4 {
		return Coordinate{}, fmt.Errorf("invalid maven coordinate %q", name)
	}
	for _, p := range parts {
		if p == "" || p == "." || p == ".." || strings.ContainsAny(p, `/\`) {
			return Coordinate{}, fmt.Errorf("invalid maven coordinate %q", name)
		}
	}
	// every group segment becomes a directory
	for _, segment := range strings.Split(parts[0], ".") {
		if segment == "" {
			return Coordinate{}, fmt.Errorf("invalid maven coordinate %q", name)
		}
	}
	if c.Extension == "" || strings.ContainsAny(c.Extension, `/\`) {
		return Coordinate{}, fmt.Errorf("invalid maven coordinate %q", name)
	}

	c.Group = parts[0]
	c.Artifact = parts[1]
	c.Version = parts[2]
	if len(parts) == 4 {
		c.Classifier = parts[3]
	}
	return c, nil
}

// Key is the version agnostic `group:artifact` identity
func (c Coordinate) Key() string {
	return c.Group + ":" + c.Artifact
}

// FileName returns `artifact-version[-classifier].ext`
func (c Coordinate) FileName() string {
	name := c.Artifact + "-" + c.Version
	if c.Classifier != "" {
		name += "-" + c.Classifier
	}
	ext := c.Extension
	if ext == "" {
		ext = "jar"
	}
	return name + "." + ext
}

// Path returns the slash separated path relative to a maven root
func (c Coordinate) Path() string {
	return strings.ReplaceAll(c.Group, ".", "/") + "/" + c.Artifact + "/" + c.Version + "/" + c.FileName()
}

// WithClassifier returns a copy using the given classifier
func (c Coordinate) WithClassifier(classifier string) Coordinate {
	c.Classifier = classifier
	return c
}

func (c Coordinate) String() string {
	s := c.Group + ":" + c.Artifact + ":" + c.Version
	if c.Classifier != "" {
		s += ":" + c.Classifier
	}
	if c.Extension != "" && c.Extension != "jar" {
		s += "@" + c.Extension
	}
	return s
}

// MavenPath converts a maven name to its slash separated path
func MavenPath(name string) (string, error) {
	c, err := ParseCoordinate(name)
	if err != nil {
		return "", err
	}
	return c.Path(), nil
}

// CheckPath returns ErrUnsafePath if the slash separated path p is absolute
// or contains empty, `.` or `..` segments
func CheckPath(p string) error {
	if p == "" || strings.ContainsAny(p, `\:`) {
		return errors.Wrap(ErrUnsafePath, p)
	}
	for _, segment := range strings.Split(p, "/") {
		if segment == "" || segment == "." || segment == ".." {
			return errors.Wrap(ErrUnsafePath, p)
		}
	}
	return nil
}
