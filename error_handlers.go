package taskq

// reportInternalError reports an internal pool error.
//
// Internal errors are non-job-related failures such as
// worker setup issues or unexpected runtime conditions.
// If no handler is registered, the error is silently ignored.
func (p *Pool[T]) reportInternalError(err error) {
	if p.opts.OnInternalError != nil {
		p.opts.OnInternalError(err)
	}
}

// reportJobError records a terminal job failure for the aggregated report
// returned by Wait and forwards it to the configured handler.
//
// Job errors do not stop pool execution.
func (p *Pool[T]) reportJobError(perr *ProcessingError) {
	p.failuresMu.Lock()
	p.failures = append(p.failures, perr)
	p.failuresMu.Unlock()
	if p.opts.OnJobError != nil {
		p.opts.OnJobError(perr)
	}
}
