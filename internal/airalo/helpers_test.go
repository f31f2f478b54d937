package airalo_test

import (
	"context"
	"sync"

	"github.com/donaldgifford/esim-device-finder/internal/airalo"
)

// recordingDiagnostics captures reported failures for assertions.
type recordingDiagnostics struct {
	mu       sync.Mutex
	failures []airalo.Failure
}

func (r *recordingDiagnostics) ReportFailure(_ context.Context, f airalo.Failure) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures = append(r.failures, f)
}

func (r *recordingDiagnostics) all() []airalo.Failure {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]airalo.Failure(nil), r.failures...)
}
