package smarthome

import (
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-voice/internal/device"
)

// TimestampFormat is UTC ISO-8601 with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z"

// Legacy namespaces and names.
const (
	LegacyDiscoveryNamespace = "Alexa.ConnectedHome.Discovery"
	LegacyControlNamespace   = "Alexa.ConnectedHome.Control"

	legacyDiscoveryResponse   = "DiscoverAppliancesResponse"
	legacyUnsupportedResponse = "UnsupportedOperationError"
)

// Uncertainty bounds on property reports, in milliseconds.
const (
	powerStateUncertainty   = 500
	connectivityUncertainty = 200
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// IDGenerator supplies message identifiers.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

// NewID calls f.
func (f IDGeneratorFunc) NewID() string { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// UUIDGenerator returns random (version 4) UUID strings.
var UUIDGenerator IDGenerator = IDGeneratorFunc(uuid.NewString)

// Assembler builds response envelopes. Every envelope gets a fresh
// message ID; every timestamp is taken from the clock in UTC.
type Assembler struct {
	clock Clock
	ids   IDGenerator
}

// NewAssembler creates an assembler. Nil arguments select SystemClock
// and UUIDGenerator.
func NewAssembler(clock Clock, ids IDGenerator) *Assembler {
	if clock == nil {
		clock = SystemClock
	}
	if ids == nil {
		ids = UUIDGenerator
	}
	return &Assembler{clock: clock, ids: ids}
}

// Now returns the current time in UTC.
func (a *Assembler) Now() time.Time {
	return a.clock.Now().UTC()
}

// Timestamp formats t in UTC with millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// Legacy builds a version 2 envelope.
func (a *Assembler) Legacy(namespace, name string, payload any) *LegacyResponse {
	return &LegacyResponse{
		Header: LegacyHeader{
			Namespace:      namespace,
			Name:           name,
			PayloadVersion: VersionLegacy,
			MessageID:      a.ids.NewID(),
		},
		Payload: payload,
	}
}

// LegacyDiscovery returns the records verbatim.
func (a *Assembler) LegacyDiscovery(records []device.Record) *LegacyResponse {
	if records == nil {
		records = []device.Record{}
	}
	return a.Legacy(LegacyDiscoveryNamespace, legacyDiscoveryResponse,
		LegacyDiscoveryPayload{DiscoveredAppliances: records})
}

// LegacyUnsupported answers a legacy request no handler claims.
func (a *Assembler) LegacyUnsupported() *LegacyResponse {
	return a.Legacy(LegacyControlNamespace, legacyUnsupportedResponse, EmptyPayload{})
}

// Event builds a version 3 envelope. The correlation token and endpoint
// are echoed from req when it carries them.
func (a *Assembler) Event(req *DirectiveRequest, namespace, name string, payload any) *EventResponse {
	resp := &EventResponse{
		Event: Event{
			Header: EventHeader{
				Namespace:      namespace,
				Name:           name,
				PayloadVersion: VersionModern,
				MessageID:      a.ids.NewID(),
			},
			Payload: payload,
		},
	}
	if req == nil {
		return resp
	}

	resp.Event.Header.CorrelationToken = req.Directive.Header.CorrelationToken
	if ep := req.Directive.Endpoint; ep != nil && ep.EndpointID != "" {
		resp.Event.Endpoint = &EventEndpoint{
			EndpointID: ep.EndpointID,
		}
		if ep.Scope != nil {
			scope := *ep.Scope
			resp.Event.Endpoint.Scope = &scope
		}
	}
	return resp
}

// Discovery builds a Discover.Response listing endpoints in order.
func (a *Assembler) Discovery(req *DirectiveRequest, endpoints []Endpoint) *EventResponse {
	if endpoints == nil {
		endpoints = []Endpoint{}
	}
	resp := a.Event(req, "Alexa.Discovery", "Discover.Response", DiscoveryPayload{Endpoints: endpoints})
	// Discovery responses carry neither endpoint nor correlation token.
	resp.Event.Endpoint = nil
	resp.Event.Header.CorrelationToken = ""
	return resp
}

// Power builds the Alexa.Response for a PowerController directive.
// value is "ON" or "OFF".
func (a *Assembler) Power(req *DirectiveRequest, value string) *EventResponse {
	resp := a.Event(req, InterfaceAlexa, "Response", EmptyPayload{})
	resp.Context = &Context{Properties: []Property{{
		Namespace:                 InterfacePowerController,
		Name:                      "powerState",
		Value:                     value,
		TimeOfSample:              Timestamp(a.Now()),
		UncertaintyInMilliseconds: powerStateUncertainty,
	}}}
	return resp
}

// Connectivity builds an EndpointHealth connectivity report.
func (a *Assembler) Connectivity(reachable bool) Property {
	value := "OK"
	if !reachable {
		value = "UNREACHABLE"
	}
	return Property{
		Namespace:                 InterfaceEndpointHealth,
		Name:                      "connectivity",
		Value:                     ConnectivityValue{Value: value},
		TimeOfSample:              Timestamp(a.Now()),
		UncertaintyInMilliseconds: connectivityUncertainty,
	}
}

// CameraStreams builds the CameraStreamController response.
func (a *Assembler) CameraStreams(req *DirectiveRequest, payload CameraStreamsPayload) *EventResponse {
	resp := a.Event(req, InterfaceCameraStreamController, "Response", payload)
	resp.Context = &Context{Properties: []Property{a.Connectivity(true)}}
	return resp
}

// AcceptGrant builds the AcceptGrant.Response.
func (a *Assembler) AcceptGrant(req *DirectiveRequest) *EventResponse {
	resp := a.Event(req, "Alexa.Authorization", "AcceptGrant.Response", EmptyPayload{})
	resp.Event.Endpoint = nil
	return resp
}

// StateReport builds the Alexa.StateReport for a ReportState directive.
func (a *Assembler) StateReport(req *DirectiveRequest, reachable bool) *EventResponse {
	resp := a.Event(req, InterfaceAlexa, "StateReport", EmptyPayload{})
	resp.Context = &Context{Properties: []Property{a.Connectivity(reachable)}}
	return resp
}

// Error builds an Alexa.ErrorResponse.
func (a *Assembler) Error(req *DirectiveRequest, errType ErrorType, message string) *EventResponse {
	return a.Event(req, InterfaceAlexa, "ErrorResponse", ErrorPayload{Type: errType, Message: message})
}
