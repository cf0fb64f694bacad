package downloadmgr

import (
	"context"
)

// DownloadManager downloads many tasks in parallel
type DownloadManager struct {
	queue    []*Task
	rejected []*Task
	fetcher  *Fetcher
	// Workers is the number of parallel downloads
	Workers int
	// OnProgress is called once for every finished task (also failed and skipped ones)
	OnProgress func(done int, total int)
}

// New returns a new DownloadManager using the given fetcher
func New(fetcher *Fetcher) *DownloadManager {
	if fetcher == nil {
		fetcher = NewFetcher(nil, nil)
	}
	return &DownloadManager{
		queue:   make([]*Task, 0),
		fetcher: fetcher,
		Workers: DefaultConnections(),
	}
}

// Add adds tasks to the queue
func (d *DownloadManager) Add(items ...*Task) {
	d.queue = append(d.queue, items...)
}

// Reject adds a task that fails with err without any request.
// It counts as failed in the result of Start.
func (d *DownloadManager) Reject(t *Task, err error) {
	t.err = err
	t.setStatus(StatusFailed)
	d.rejected = append(d.rejected, t)
}

// Len returns the number of queued tasks
func (d *DownloadManager) Len() int {
	return len(d.queue)
}

// Start downloads all queued tasks and blocks until every task finished.
// Failed tasks do not cancel the others, they are listed in the result.
func (d *DownloadManager) Start(ctx context.Context) *Result {
	total := len(d.queue) + len(d.rejected)
	result := &Result{Total: total}
	for _, t := range d.rejected {
		result.add(t)
	}
	queued := len(d.queue)
	if queued == 0 {
		return result
	}

	workers := d.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > queued {
		workers = queued
	}

	sem := make(chan struct{}, workers)
	done := make(chan *Task)

	go func() {
		for _, item := range d.queue {
			sem <- struct{}{}
			go func(item *Task) {
				d.fetcher.Fetch(ctx, item)
				<-sem
				done <- item
			}(item)
		}
	}()

	for i := 1; i <= queued; i++ {
		result.add(<-done)
		if d.OnProgress != nil {
			d.OnProgress(len(d.rejected)+i, total)
		}
	}
	return result
}

// Result summarizes a batch download
type Result struct {
	Total int
	// Completed includes skipped tasks
	Completed int
	Skipped   int
	Failed    []*Task
	// Bytes is the number of downloaded bytes
	Bytes int64
}

func (r *Result) add(t *Task) {
	if t.Status() != StatusCompleted {
		r.Failed = append(r.Failed, t)
		return
	}
	r.Completed++
	if t.Skipped() {
		r.Skipped++
		return
	}
	r.Bytes += t.Written()
}

// Needed is the number of tasks that actually needed a download
func (r *Result) Needed() int {
	return r.Total - r.Skipped
}

// SuccessRate is the share of completed tasks (1 for empty batches)
func (r *Result) SuccessRate() float64 {
	if r.Total == 0 {
		return 1
	}
	return float64(r.Completed) / float64(r.Total)
}
