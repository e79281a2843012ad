package monitoring

import (
	"sync"
	"time"
)

// A ProgressBar tracks the requests of a replay. Requests are issued to the
// device and then complete, successfully or not.
type ProgressBar struct {
	id    string
	name  string
	start time.Time
	total uint64

	lock       sync.Mutex
	inProgress uint64
	completed  uint64
}

// Name returns what the bar tracks, usually the name of a device.
func (b *ProgressBar) Name() string {
	return b.name
}

// Total returns the number of requests the replay will issue.
func (b *ProgressBar) Total() uint64 {
	return b.total
}

// Issue marks n requests as sent to the device.
func (b *ProgressBar) Issue(n uint64) {
	b.lock.Lock()
	b.inProgress += n
	b.lock.Unlock()
}

// Complete marks n issued requests as done.
func (b *ProgressBar) Complete(n uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if n > b.inProgress {
		panic("completing more requests than issued")
	}

	b.inProgress -= n
	b.completed += n
}

// Progress returns the number of completed and in-flight requests.
func (b *ProgressBar) Progress() (completed, inProgress uint64) {
	b.lock.Lock()
	defer b.lock.Unlock()

	return b.completed, b.inProgress
}

type progressRsp struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

func (b *ProgressBar) rsp() progressRsp {
	completed, inProgress := b.Progress()

	return progressRsp{
		ID:         b.id,
		Name:       b.name,
		StartTime:  b.start,
		Total:      b.total,
		Finished:   completed,
		InProgress: inProgress,
	}
}
