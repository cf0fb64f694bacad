package config

import (
	"github.com/spf13/cobra"
)

const (
	configKindString = iota
	configKindBool
	configKindInt
	configKindFloat
	configKindDuration
	configKindList
)

type configEntry struct {
	kind int
	help string
}

var config = map[string]configEntry{
	"root":                  {configKindString, "minecraft directory"},
	"usemirror":             {configKindBool, "download from mirrors first"},
	"mirrors":               {configKindList, "comma separated mirror order (bmclapi, mcbbs)"},
	"download.attempts":     {configKindInt, "attempts per file"},
	"download.connections":  {configKindInt, "parallel downloads, 0 means auto"},
	"download.ratelimit":    {configKindFloat, "metadata requests per second, 0 disables it"},
	"tolerance.smallbatch":  {configKindInt, "batches of this size never fail"},
	"tolerance.maxrate":     {configKindFloat, "share of files that may fail"},
	"tolerance.maxfailures": {configKindInt, "number of files that may fail"},
	"java":                  {configKindString, "java binary for installer processors"},
	"processor.timeout":     {configKindDuration, "timeout of a single installer processor"},
	"manifest.ttl":          {configKindDuration, "how long the version manifest is cached"},
	"noninteractive":        {configKindBool, "never prompt"},
	"verboselogging":        {configKindBool, "log diagnostics to stderr"},
}

var SubCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage global config options",
}
