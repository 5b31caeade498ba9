package smarthome

import "github.com/nerrad567/gray-logic-voice/internal/device"

// Response is an outbound envelope. It is either a *LegacyResponse or an
// *EventResponse; the set is closed.
type Response interface {
	// PayloadVersion returns "2" or "3".
	PayloadVersion() string
	// MessageID returns the generated message identifier.
	MessageID() string

	isResponse()
}

// LegacyResponse is a version 2 response: header plus payload.
type LegacyResponse struct {
	Header  LegacyHeader `json:"header"`
	Payload any          `json:"payload"`
}

func (r *LegacyResponse) PayloadVersion() string { return r.Header.PayloadVersion }
func (r *LegacyResponse) MessageID() string      { return r.Header.MessageID }
func (*LegacyResponse) isResponse()              {}

// EventResponse is a version 3 response.
type EventResponse struct {
	Context *Context `json:"context,omitempty"`
	Event   Event    `json:"event"`
}

func (r *EventResponse) PayloadVersion() string { return r.Event.Header.PayloadVersion }
func (r *EventResponse) MessageID() string      { return r.Event.Header.MessageID }
func (*EventResponse) isResponse()              {}

// Event is the body of a version 3 response.
type Event struct {
	Header   EventHeader    `json:"header"`
	Endpoint *EventEndpoint `json:"endpoint,omitempty"`
	Payload  any            `json:"payload"`
}

// EventHeader is the header of a version 3 response.
type EventHeader struct {
	Namespace        string `json:"namespace"`
	Name             string `json:"name"`
	PayloadVersion   string `json:"payloadVersion"`
	MessageID        string `json:"messageId"`
	CorrelationToken string `json:"correlationToken,omitempty"`
}

// EventEndpoint echoes the endpoint a directive targeted.
type EventEndpoint struct {
	Scope      *Scope `json:"scope,omitempty"`
	EndpointID string `json:"endpointId"`
}

// Context carries property reports sampled while handling a directive.
type Context struct {
	Properties []Property `json:"properties"`
}

// Property is one timestamped property report.
type Property struct {
	Namespace                 string `json:"namespace"`
	Name                      string `json:"name"`
	Value                     any    `json:"value"`
	TimeOfSample              string `json:"timeOfSample"`
	UncertaintyInMilliseconds int    `json:"uncertaintyInMilliseconds"`
}

// ConnectivityValue is the value of an EndpointHealth connectivity report.
type ConnectivityValue struct {
	Value string `json:"value"`
}

// EmptyPayload serialises as {}.
type EmptyPayload struct{}

// ErrorPayload is the payload of an ErrorResponse event.
type ErrorPayload struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

// DiscoveryPayload is the payload of a Discover.Response event.
type DiscoveryPayload struct {
	Endpoints []Endpoint `json:"endpoints"`
}

// LegacyDiscoveryPayload is the payload of a DiscoverAppliancesResponse.
type LegacyDiscoveryPayload struct {
	DiscoveredAppliances []device.Record `json:"discoveredAppliances"`
}

// CameraStreamsPayload is the payload of a CameraStreamController response.
type CameraStreamsPayload struct {
	CameraStreams []CameraStream `json:"cameraStreams"`
	ImageURI      string         `json:"imageUri"`
}

// CameraStream describes one stream a camera has opened.
type CameraStream struct {
	URI                string     `json:"uri"`
	ExpirationTime     string     `json:"expirationTime"`
	IdleTimeoutSeconds int        `json:"idleTimeoutSeconds"`
	Protocol           string     `json:"protocol"`
	Resolution         Resolution `json:"resolution"`
	AuthorizationType  string     `json:"authorizationType"`
	VideoCodec         string     `json:"videoCodec"`
	AudioCodec         string     `json:"audioCodec"`
}
