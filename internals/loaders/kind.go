// Package loaders installs modding loaders on top of a vanilla version
package loaders

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/stoewer/go-strcase"
)

// ErrUnknownKind is returned for unsupported loader names
var ErrUnknownKind = errors.New("unknown loader")

// Kind is a supported loader
type Kind int

const (
	Fabric Kind = iota + 1
	Forge
	NeoForge
	OptiFine
)

var kindNames = map[Kind]string{
	Fabric:   "fabric",
	Forge:    "forge",
	NeoForge: "neoforge",
	OptiFine: "optifine",
}

// Kinds returns every supported loader
func Kinds() []Kind {
	return []Kind{Fabric, Forge, NeoForge, OptiFine}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("loader(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a loader name. Case and separators are ignored ("NeoForge", "neo-forge", "NEOFORGE")
func ParseKind(name string) (Kind, error) {
	normalized := strings.ReplaceAll(strcase.SnakeCase(strings.TrimSpace(name)), "_", "")
	for kind, kindName := range kindNames {
		if normalized == kindName {
			return kind, nil
		}
	}
	return 0, errors.Wrap(ErrUnknownKind, name)
}
