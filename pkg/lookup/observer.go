package lookup

// ErrorKind classifies errors reported to the observer.
type ErrorKind string

const (
	// KindTransient marks a retryable upstream status whose retry also failed.
	KindTransient ErrorKind = "transient"

	// KindPermanent marks a non-retryable upstream status.
	KindPermanent ErrorKind = "permanent"

	// KindNetwork marks connection and timeout failures.
	KindNetwork ErrorKind = "network"

	// KindResponse marks a 200 response that is unusable (upstream error
	// list non-empty or results container null).
	KindResponse ErrorKind = "response"
)

// Observer receives pipeline progress and error events. Implementations
// belong to the presentation layer (progress bar, log sink); the pipeline
// never depends on how events are rendered.
type Observer interface {
	// OnProgress is called after each batch completes, success or failure.
	OnProgress(completed, total int)

	// OnError is called once per contained batch failure.
	OnError(kind ErrorKind, detail string)
}

// NopObserver discards all events.
type NopObserver struct{}

// OnProgress implements Observer.
func (NopObserver) OnProgress(completed, total int) {}

// OnError implements Observer.
func (NopObserver) OnError(kind ErrorKind, detail string) {}
