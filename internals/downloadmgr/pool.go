package downloadmgr

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
)

const (
	maxConnections          = 100
	maxOrchestrationWorkers = 16
)

// Cores returns the number of logical cpu cores
func Cores() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		return runtime.NumCPU()
	}
	return n
}

// DefaultConnections is the size of the batch download pool: min(cores×4, 100)
func DefaultConnections() int {
	return minInt(Cores()*4, maxConnections)
}

// OrchestrationWorkers is the size of the pool running whole phases: min(cores+2, 16)
func OrchestrationWorkers() int {
	return minInt(Cores()+2, maxOrchestrationWorkers)
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
