package ledger

import "context"

// Recorder is an in-memory TransferPort used in tests and as a fallback when
// no message broker is configured.
type Recorder struct {
	requests []TransferRequest
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Request(_ context.Context, req TransferRequest) {
	r.requests = append(r.requests, req)
}

// Requests returns every transfer requested so far, in emission order.
func (r *Recorder) Requests() []TransferRequest {
	return r.requests
}

func (r *Recorder) Reset() {
	r.requests = nil
}
