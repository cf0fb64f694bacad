package instances

import (
	"sync"

	"github.com/minepkg/mcinstall/internals/loaders"
)

// Progress stages in the order they usually appear
const (
	StageIndex           = "index"
	StageClient          = "client"
	StageLibraries       = "libraries"
	StageAssets          = "assets"
	StageLoaderInfo      = loaders.StageLoaderInfo
	StageLoaderLibraries = loaders.StageLoaderLibraries
	StageProcessors      = loaders.StageProcessors
	StageFabricAPI       = "fabric_api"
	StageGenerateJSON    = "generate_json"
	StagePackFiles       = "pack_files"
	StageOverrides       = "overrides"
	StageComplete        = "complete"
	StageError           = "error"
)

// Progress is the state of one installation
type Progress struct {
	Stage   string `json:"stage"`
	Current int    `json:"current"`
	Total   int    `json:"total"`
	Message string `json:"message"`
}

// Done returns true for the complete and error stages
func (p Progress) Done() bool {
	return p.Stage == StageComplete || p.Stage == StageError
}

// ProgressFunc is called after every progress change
type ProgressFunc func(p Progress)

// reporter owns the progress of one installation.
// libraries and assets report concurrently, calls to fn are serialized.
type reporter struct {
	mu       sync.Mutex
	progress Progress
	fn       ProgressFunc
}

func newReporter(fn ProgressFunc) *reporter {
	return &reporter{fn: fn}
}

func (r *reporter) report(stage string, current int, total int, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = Progress{Stage: stage, Current: current, Total: total, Message: message}
	if r.fn != nil {
		r.fn(r.progress)
	}
}

// fail reports err as the error stage
func (r *reporter) fail(err error) {
	r.report(StageError, 0, 0, err.Error())
}
