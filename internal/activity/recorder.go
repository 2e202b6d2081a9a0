package activity

import "context"

// StoreRecorder appends entries synchronously.
type StoreRecorder struct {
	store Appender
}

// NewStoreRecorder wraps store as a Recorder.
func NewStoreRecorder(store Appender) *StoreRecorder {
	return &StoreRecorder{store: store}
}

// Record appends entry to the store.
func (r *StoreRecorder) Record(ctx context.Context, entry Entry) error {
	_, err := r.store.Append(ctx, entry)
	return err
}

// Discard drops every entry.
type Discard struct{}

// Record implements Recorder.
func (Discard) Record(context.Context, Entry) error { return nil }

var (
	_ Recorder = (*StoreRecorder)(nil)
	_ Recorder = Discard{}
)
