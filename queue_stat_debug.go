//go:build debug

package taskq

import (
	"sync/atomic"
)

var (
	enqueueWaits atomic.Int64
	dequeueWaits atomic.Int64
)

// QueueStats is a snapshot of queue contention counters.
// Collected only in builds with the debug tag.
type QueueStats struct {
	EnqueueWaits int64
	DequeueWaits int64
}

func statEnqueueWait() { enqueueWaits.Add(1) }
func statDequeueWait() { dequeueWaits.Add(1) }

func SnapshotQueueStats() QueueStats {
	return QueueStats{
		EnqueueWaits: enqueueWaits.Load(),
		DequeueWaits: dequeueWaits.Load(),
	}
}

func PrintQueueStat() {
	println(
		"enqueue waits / dequeue waits :",
		enqueueWaits.Load(),
		dequeueWaits.Load(),
	)
}
