package mqtt

import (
	"context"

	"github.com/nerrad567/gray-logic-voice/internal/device"
	"github.com/nerrad567/gray-logic-voice/internal/smarthome"
)

// eventQueueSize bounds the number of events waiting to be published.
const eventQueueSize = 128

// Publisher is the part of *Client the event publisher uses.
type Publisher interface {
	PublishJSON(topic string, v any) error
}

// OutcomeMessage is the payload published for each directive outcome.
type OutcomeMessage struct {
	smarthome.Outcome
	Error string `json:"error,omitempty"`
}

// ReloadMessage is the payload published after each catalog reload.
type ReloadMessage struct {
	Trigger    string `json:"trigger"`
	Result     string `json:"result"`
	Appliances int    `json:"appliances"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

type event struct {
	topic   string
	payload any
}

// EventPublisher publishes directive outcomes on Topics.DirectiveOutcome
// and reload results on Topics.CatalogReloaded. It implements
// smarthome.Recorder and device.ReloadObserver.
//
// Record and CatalogReloaded only enqueue; Run performs the publishes so a
// slow broker never holds up a directive response or a paho handler.
type EventPublisher struct {
	pub    Publisher
	queue  chan event
	logger Logger
}

// NewEventPublisher creates a publisher. Messages use the client's QoS.
func NewEventPublisher(pub Publisher, logger Logger) *EventPublisher {
	if logger == nil {
		logger = noopLogger{}
	}
	return &EventPublisher{
		pub:    pub,
		queue:  make(chan event, eventQueueSize),
		logger: logger,
	}
}

// Record enqueues o. When the queue is full the outcome is dropped.
func (p *EventPublisher) Record(_ context.Context, o smarthome.Outcome) {
	msg := OutcomeMessage{Outcome: o}
	if o.Err != nil {
		msg.Error = o.Err.Error()
	}
	p.enqueue(Topics{}.DirectiveOutcome(o.Namespace, o.Name), msg)
}

// CatalogReloaded enqueues a reload result.
func (p *EventPublisher) CatalogReloaded(r device.ReloadReport) {
	msg := ReloadMessage{
		Trigger:    r.Trigger,
		Result:     "ok",
		Appliances: r.Appliances,
		DurationMS: r.Duration.Milliseconds(),
	}
	if !r.Succeeded() {
		msg.Result = "failed"
		msg.Error = r.Err.Error()
	}
	p.enqueue(Topics{}.CatalogReloaded(), msg)
}

func (p *EventPublisher) enqueue(topic string, payload any) {
	select {
	case p.queue <- event{topic: topic, payload: payload}:
	default:
		p.logger.Warn("mqtt event queue full, dropping event", "topic", topic)
	}
}

// Run publishes queued events until ctx is cancelled. Events still
// queued at that point are discarded.
func (p *EventPublisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-p.queue:
			p.publish(ev)
		}
	}
}

func (p *EventPublisher) publish(ev event) {
	if err := p.pub.PublishJSON(ev.topic, ev.payload); err != nil {
		p.logger.Warn("publishing event failed",
			"topic", ev.topic,
			"error", err,
		)
	}
}
