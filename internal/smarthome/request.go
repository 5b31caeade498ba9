package smarthome

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload versions.
const (
	VersionLegacy  = "2"
	VersionModern  = "3"
	VersionUnknown = "-1"
)

// Request is an inbound directive. It is either a *LegacyRequest or a
// *DirectiveRequest; the set is closed.
type Request interface {
	// PayloadVersion returns the version the request was detected as.
	PayloadVersion() string
	// Namespace returns the header namespace.
	Namespace() string
	// Name returns the header name.
	Name() string

	isRequest()
}

// LegacyHeader is the flat header of a version 2 message.
type LegacyHeader struct {
	Namespace      string `json:"namespace"`
	Name           string `json:"name"`
	PayloadVersion string `json:"payloadVersion"`
	MessageID      string `json:"messageId"`
}

// LegacyRequest is a version 2 request: header plus payload.
type LegacyRequest struct {
	Header  LegacyHeader    `json:"header"`
	Payload json.RawMessage `json:"payload,omitempty"`

	version string
}

func (r *LegacyRequest) PayloadVersion() string { return r.version }
func (r *LegacyRequest) Namespace() string      { return r.Header.Namespace }
func (r *LegacyRequest) Name() string           { return r.Header.Name }
func (*LegacyRequest) isRequest()               {}

// DirectiveHeader is the header of a version 3 directive.
type DirectiveHeader struct {
	Namespace        string `json:"namespace"`
	Name             string `json:"name"`
	PayloadVersion   string `json:"payloadVersion"`
	MessageID        string `json:"messageId"`
	CorrelationToken string `json:"correlationToken,omitempty"`
}

// Scope carries the bearer token identifying the linked account.
// Partition and UserID are only set for BearerTokenWithPartition.
type Scope struct {
	Type      string `json:"type"`
	Token     string `json:"token"`
	Partition string `json:"partition,omitempty"`
	UserID    string `json:"userId,omitempty"`
}

// DirectiveEndpoint addresses the endpoint a directive targets.
type DirectiveEndpoint struct {
	EndpointID string         `json:"endpointId"`
	Scope      *Scope         `json:"scope,omitempty"`
	Cookie     map[string]any `json:"cookie,omitempty"`
}

// Directive is the body of a version 3 request.
type Directive struct {
	Header   DirectiveHeader    `json:"header"`
	Endpoint *DirectiveEndpoint `json:"endpoint,omitempty"`
	Payload  json.RawMessage    `json:"payload,omitempty"`
}

// DirectiveRequest is a version 3 request.
type DirectiveRequest struct {
	Directive Directive `json:"directive"`
}

func (r *DirectiveRequest) PayloadVersion() string { return VersionModern }
func (r *DirectiveRequest) Namespace() string      { return r.Directive.Header.Namespace }
func (r *DirectiveRequest) Name() string           { return r.Directive.Header.Name }
func (*DirectiveRequest) isRequest()               {}

// EndpointID returns the targeted endpoint ID, or "" if none was given.
func (r *DirectiveRequest) EndpointID() string {
	if r.Directive.Endpoint == nil {
		return ""
	}
	return r.Directive.Endpoint.EndpointID
}

// Token returns the scope bearer token, or "" if none was given.
func (r *DirectiveRequest) Token() string {
	if r.Directive.Endpoint == nil || r.Directive.Endpoint.Scope == nil {
		return ""
	}
	return r.Directive.Endpoint.Scope.Token
}

// versionProbe reads only the two places a payload version can live.
type versionProbe struct {
	Directive *struct {
		Header *struct {
			PayloadVersion json.RawMessage `json:"payloadVersion"`
		} `json:"header"`
	} `json:"directive"`
	Header *struct {
		PayloadVersion json.RawMessage `json:"payloadVersion"`
	} `json:"header"`
}

// DetectVersion returns the payload version of a raw request.
//
// It reads directive.header.payloadVersion, then header.payloadVersion, and
// returns VersionUnknown when neither is present. It never fails: input that
// is not a JSON object also yields VersionUnknown. Non-string versions are
// returned as their literal JSON text.
func DetectVersion(raw []byte) string {
	var probe versionProbe
	if err := json.Unmarshal(raw, &probe); err != nil {
		return VersionUnknown
	}

	if probe.Directive != nil && probe.Directive.Header != nil {
		if v, ok := versionText(probe.Directive.Header.PayloadVersion); ok {
			return v
		}
	}
	if probe.Header != nil {
		if v, ok := versionText(probe.Header.PayloadVersion); ok {
			return v
		}
	}
	return VersionUnknown
}

func versionText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(raw), true
}

// ParseRequest detects the version of raw and decodes it into the
// matching variant.
//
// Version "3" requires directive.header with a name, and a namespace for
// every directive except Discover. Every other version takes the legacy
// path, which requires header with namespace and name. A missing field
// yields ErrMalformedRequest.
func ParseRequest(raw []byte) (Request, error) {
	version := DetectVersion(raw)

	if version == VersionModern {
		var req DirectiveRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
		}
		h := req.Directive.Header
		if h.Name == "" {
			return nil, fmt.Errorf("%w: directive.header.name is required", ErrMalformedRequest)
		}
		if h.Namespace == "" && h.Name != "Discover" {
			return nil, fmt.Errorf("%w: directive.header.namespace is required for %s", ErrMalformedRequest, h.Name)
		}
		return &req, nil
	}

	var req LegacyRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedRequest, err)
	}
	if req.Header.Namespace == "" || req.Header.Name == "" {
		return nil, fmt.Errorf("%w: header.namespace and name are required", ErrMalformedRequest)
	}
	req.version = version
	return &req, nil
}
