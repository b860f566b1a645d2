//go:build !debug

package taskq

func statEnqueueWait() {}
func statDequeueWait() {}
