package smarthome

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/nerrad567/gray-logic-voice/internal/device"
	"github.com/nerrad567/gray-logic-voice/internal/identity"
)

// CameraSettings shape the stream returned by InitializeCameraStreams.
type CameraSettings struct {
	StreamPath         string
	ImagePath          string
	Expiry             time.Duration
	IdleTimeoutSeconds int
}

// withDefaults fills zero fields.
func (c CameraSettings) withDefaults() CameraSettings {
	if c.StreamPath == "" {
		c.StreamPath = "/feed1.mp4"
	}
	if c.ImagePath == "" {
		c.ImagePath = "/image.jpg"
	}
	if c.Expiry <= 0 {
		c.Expiry = 2 * time.Hour
	}
	if c.IdleTimeoutSeconds <= 0 {
		c.IdleTimeoutSeconds = 30
	}
	return c
}

func (d *Dispatcher) discover(req *DirectiveRequest) *EventResponse {
	return d.asm.Discovery(req, ToEndpoints(d.catalog.Records()))
}

// power returns the TurnOn or TurnOff handler. No device is contacted;
// the reported state mirrors the directive.
func (d *Dispatcher) power(value string) directiveHandler {
	return func(_ context.Context, req *DirectiveRequest) (*EventResponse, error) {
		if req.EndpointID() == "" {
			return nil, fmt.Errorf("%w: directive.endpoint.endpointId is required", ErrMalformedRequest)
		}
		return d.asm.Power(req, value), nil
	}
}

func (d *Dispatcher) acceptGrant(_ context.Context, req *DirectiveRequest) (*EventResponse, error) {
	return d.asm.AcceptGrant(req), nil
}

func (d *Dispatcher) reportState(_ context.Context, req *DirectiveRequest) (*EventResponse, error) {
	id := req.EndpointID()
	if id == "" {
		return nil, fmt.Errorf("%w: directive.endpoint.endpointId is required", ErrMalformedRequest)
	}

	rec, err := d.catalog.Lookup(id)
	if err != nil {
		if errors.Is(err, device.ErrApplianceNotFound) {
			return d.asm.Error(req, ErrorNoSuchEndpoint, fmt.Sprintf("endpoint %s does not exist", id)), nil
		}
		return nil, err
	}
	return d.asm.StateReport(req, rec.IsReachable), nil
}

func (d *Dispatcher) initializeCameraStreams(ctx context.Context, req *DirectiveRequest) (*EventResponse, error) {
	id := req.EndpointID()
	if id == "" {
		return nil, fmt.Errorf("%w: directive.endpoint.endpointId is required", ErrMalformedRequest)
	}

	lookupCtx, cancel := context.WithTimeout(ctx, d.lookupTimeout)
	defer cancel()

	assoc, err := d.identity.Lookup(lookupCtx, req.Token())
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return d.asm.Error(req, ErrorInvalidAuthCredential, "bearer token is not linked to an account"), nil
		}
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}

	if _, err := d.catalog.Lookup(id); err != nil {
		if errors.Is(err, device.ErrApplianceNotFound) {
			return d.asm.Error(req, ErrorNoSuchEndpoint, fmt.Sprintf("endpoint %s does not exist", id)), nil
		}
		return nil, err
	}

	payload, err := d.cameraPayload(assoc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLookupFailed, err)
	}
	return d.asm.CameraStreams(req, payload), nil
}

// cameraPayload builds the stream and image URIs from the linked
// account's endpoint and credentials.
func (d *Dispatcher) cameraPayload(assoc *identity.Association) (CameraStreamsPayload, error) {
	host, err := endpointHost(assoc.EndpointURL)
	if err != nil {
		return CameraStreamsPayload{}, err
	}

	var user *url.Userinfo
	if assoc.Username != "" {
		user = url.UserPassword(assoc.Username, assoc.Password)
	}

	stream := url.URL{Scheme: "rtsp", User: user, Host: host.Host, Path: d.camera.StreamPath}
	image := url.URL{Scheme: "https", User: user, Host: host.Hostname(), Path: d.camera.ImagePath}

	return CameraStreamsPayload{
		CameraStreams: []CameraStream{{
			URI:                stream.String(),
			ExpirationTime:     Timestamp(d.asm.Now().Add(d.camera.Expiry)),
			IdleTimeoutSeconds: d.camera.IdleTimeoutSeconds,
			Protocol:           "RTSP",
			Resolution:         Resolution{Width: 1920, Height: 1080},
			AuthorizationType:  "BASIC",
			VideoCodec:         "H264",
			AudioCodec:         "AAC",
		}},
		ImageURI: image.String(),
	}, nil
}

// endpointHost accepts "host:port" or a full URL.
func endpointHost(endpointURL string) (*url.URL, error) {
	raw := endpointURL
	if !strings.Contains(raw, "://") {
		raw = "//" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing endpoint url %q: %w", endpointURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint url %q has no host", endpointURL)
	}
	return u, nil
}
