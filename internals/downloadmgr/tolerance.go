package downloadmgr

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrBatchFailed matches every BatchError
var ErrBatchFailed = errors.New("too many downloads failed")

// Verdict is the outcome of judging a batch result
type Verdict int

const (
	// VerdictOK means nothing failed
	VerdictOK Verdict = iota
	// VerdictWarn means some files failed but the batch is still usable
	VerdictWarn
	// VerdictFail aborts the phase
	VerdictFail
)

func (v Verdict) String() string {
	switch v {
	case VerdictOK:
		return "ok"
	case VerdictWarn:
		return "warn"
	}
	return "fail"
}

// Tolerance decides how many failed files a batch may have
type Tolerance struct {
	// SmallBatch batches (counting only needed files) never fail
	SmallBatch int
	// MaxFailureRate is the share of needed files that may fail
	MaxFailureRate float64
	// MaxFailures is the absolute number of files that may fail
	MaxFailures int
}

// DefaultTolerance is used for libraries and assets
var DefaultTolerance = Tolerance{
	SmallBatch:     3,
	MaxFailureRate: 0.10,
	MaxFailures:    5,
}

// Judge rates a batch result. Skipped files are not counted as needed.
func (t Tolerance) Judge(r *Result) Verdict {
	failed := len(r.Failed)
	if failed == 0 {
		return VerdictOK
	}
	needed := r.Needed()
	if needed <= t.SmallBatch {
		return VerdictWarn
	}
	rate := float64(failed) / float64(needed)
	if rate > t.MaxFailureRate || failed > t.MaxFailures {
		return VerdictFail
	}
	return VerdictWarn
}

// BatchError is returned when a batch failed the tolerance check
type BatchError struct {
	Phase  string
	Result *Result
}

func (e *BatchError) Error() string {
	names := make([]string, 0, 3)
	for i, t := range e.Result.Failed {
		if i == 3 {
			names = append(names, "…")
			break
		}
		names = append(names, t.URL)
	}
	return fmt.Sprintf(
		"%s: %d of %d downloads failed (%s)",
		e.Phase,
		len(e.Result.Failed),
		e.Result.Needed(),
		strings.Join(names, ", "),
	)
}

func (e *BatchError) Is(target error) bool {
	return target == ErrBatchFailed
}
