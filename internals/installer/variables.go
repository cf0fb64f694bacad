package installer

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/minepkg/mcinstall/internals/minecraft"
	"github.com/pkg/errors"
)

// ErrUnknownVariable is returned for `{NAME}` references without a value
var ErrUnknownVariable = errors.New("unknown processor variable")

var variablePattern = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// Environment holds the values that are not part of the install profile
type Environment struct {
	MinecraftJar     string
	MinecraftVersion string
	Root             string
	InstallerPath    string
	LibrariesDir     string
	ScratchDir       string
}

// Variables is the variable table of a processor chain
type Variables struct {
	values       map[string]string
	librariesDir string
}

// NewVariables builds the variable table for the client side
func NewVariables(profile *Profile, env Environment) *Variables {
	v := &Variables{
		values: map[string]string{
			"MINECRAFT_JAR":     env.MinecraftJar,
			"SIDE":              SideClient,
			"MINECRAFT_VERSION": env.MinecraftVersion,
			"ROOT":              env.Root,
			"INSTALLER":         env.InstallerPath,
			"LIBRARY_DIR":       env.LibrariesDir,
		},
		librariesDir: env.LibrariesDir,
	}
	for key, entry := range profile.Data {
		v.Set(key, resolveData(entry.Client, env.LibrariesDir, env.ScratchDir))
	}
	return v
}

// resolveData turns a data value into its final form:
// `[maven]` is a library path, `/path` is a file inside the extracted installer and `'text'` is a literal
func resolveData(value string, librariesDir string, scratchDir string) string {
	switch {
	case isMaven(value):
		if path, err := mavenFile(librariesDir, value); err == nil {
			return path
		}
		return value
	case isLiteral(value):
		return value[1 : len(value)-1]
	case strings.HasPrefix(value, "/"):
		return filepath.Join(scratchDir, filepath.FromSlash(value[1:]))
	}
	return value
}

// Get returns a variable
func (v *Variables) Get(name string) (string, bool) {
	value, ok := v.values[name]
	return value, ok
}

// Set sets a variable, replacing an existing value
func (v *Variables) Set(name string, value string) {
	v.values[name] = value
}

// Resolve resolves a processor argument: `[maven]` becomes a library path,
// `'text'` a literal and every `{NAME}` is replaced by its value.
func (v *Variables) Resolve(arg string) (string, error) {
	if isMaven(arg) {
		return mavenFile(v.librariesDir, arg)
	}
	if isLiteral(arg) {
		return arg[1 : len(arg)-1], nil
	}

	var missing string
	resolved := variablePattern.ReplaceAllStringFunc(arg, func(match string) string {
		name := match[1 : len(match)-1]
		value, ok := v.values[name]
		if !ok {
			missing = name
			return match
		}
		return value
	})
	if missing != "" {
		return "", errors.Wrap(ErrUnknownVariable, missing)
	}
	return resolved, nil
}

// ResolveAll resolves every argument
func (v *Variables) ResolveAll(args []string) ([]string, error) {
	resolved := make([]string, len(args))
	for i, arg := range args {
		r, err := v.Resolve(arg)
		if err != nil {
			return nil, err
		}
		resolved[i] = r
	}
	return resolved, nil
}

func isMaven(s string) bool {
	return len(s) > 2 && strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]")
}

func isLiteral(s string) bool {
	return len(s) >= 2 && strings.HasPrefix(s, "'") && strings.HasSuffix(s, "'")
}

// mavenFile returns the library path of a coordinate (with or without brackets)
func mavenFile(librariesDir string, coordinate string) (string, error) {
	coordinate = strings.TrimSuffix(strings.TrimPrefix(coordinate, "["), "]")
	path, err := minecraft.MavenPath(coordinate)
	if err != nil {
		return "", err
	}
	return filepath.Join(librariesDir, filepath.FromSlash(path)), nil
}
