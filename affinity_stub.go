//go:build !linux

package taskq

// PinToCPU reports ErrAffinityUnsupported on platforms without
// sched_setaffinity. The pool logs the failure and keeps the worker
// unpinned.
func PinToCPU(_ int) error { return ErrAffinityUnsupported }
