package audit

import (
	"context"

	"github.com/nerrad567/gray-logic-voice/internal/smarthome"
)

// DefaultBufferSize is the queue length used when NewRecorder gets zero.
// Entries beyond it are dropped to avoid back-pressure on directives.
const DefaultBufferSize = 256

// Logger is the logging interface the recorder needs.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder queues directive outcomes and writes them serially.
// It implements smarthome.Recorder; Run must be started for entries
// to reach the repository.
type Recorder struct {
	repo   Repository
	ch     chan *Entry
	logger Logger
}

// NewRecorder creates a recorder writing to repo.
func NewRecorder(repo Repository, logger Logger, size int) *Recorder {
	if size <= 0 {
		size = DefaultBufferSize
	}
	if logger == nil {
		logger = noopLogger{}
	}
	return &Recorder{repo: repo, ch: make(chan *Entry, size), logger: logger}
}

// FromOutcome converts a directive outcome into an entry.
func FromOutcome(o smarthome.Outcome) *Entry {
	return &Entry{
		PayloadVersion: o.PayloadVersion,
		Namespace:      o.Namespace,
		Name:           o.Name,
		EndpointID:     o.EndpointID,
		MessageID:      o.MessageID,
		Outcome:        string(o.Result),
		ErrorType:      o.ErrorType,
		DurationMS:     o.DurationMS,
		CreatedAt:      o.Timestamp,
	}
}

// Record enqueues the outcome (best-effort). A full queue drops it.
func (r *Recorder) Record(_ context.Context, o smarthome.Outcome) {
	select {
	case r.ch <- FromOutcome(o):
	default:
		r.logger.Warn("audit log channel full, dropping entry",
			"namespace", o.Namespace,
			"name", o.Name,
		)
	}
}

// Run writes queued entries until ctx is cancelled, then drains what is
// left and returns.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case entry := <-r.ch:
			r.write(entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-r.ch:
					r.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(entry *Entry) {
	if err := r.repo.Create(context.Background(), entry); err != nil {
		r.logger.Error("audit log write failed",
			"namespace", entry.Namespace,
			"name", entry.Name,
			"error", err,
		)
	}
}
