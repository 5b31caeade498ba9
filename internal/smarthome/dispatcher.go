package smarthome

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/nerrad567/gray-logic-voice/internal/device"
	"github.com/nerrad567/gray-logic-voice/internal/identity"
)

// Logger is the logging interface the dispatcher needs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Validator checks a version 3 response against the event schema.
type Validator interface {
	Validate(req Request, resp Response) error
}

// DefaultLookupTimeout bounds the identity lookup when Deps leaves it zero.
const DefaultLookupTimeout = 3 * time.Second

// Deps holds the collaborators of a Dispatcher.
type Deps struct {
	Catalog   *device.Catalog // required
	Identity  identity.Store  // required
	Validator Validator       // nil skips validation
	Recorder  Recorder        // nil records nothing
	Logger    Logger
	Clock     Clock
	IDs       IDGenerator

	Camera        CameraSettings
	LookupTimeout time.Duration
}

// RouteKey identifies a version 3 handler.
type RouteKey struct {
	Namespace string
	Name      string
}

// String returns "namespace.name".
func (k RouteKey) String() string { return k.Namespace + "." + k.Name }

type directiveHandler func(ctx context.Context, req *DirectiveRequest) (*EventResponse, error)

// Dispatcher routes parsed requests to handlers and returns the envelope
// in the request's version.
//
// Thread Safety: Dispatch is safe for concurrent use. Each call only reads
// the catalog and builds a fresh response.
type Dispatcher struct {
	catalog       *device.Catalog
	identity      identity.Store
	validator     Validator
	recorder      Recorder
	logger        Logger
	asm           *Assembler
	camera        CameraSettings
	lookupTimeout time.Duration

	routes       map[RouteKey]directiveHandler
	legacyRoutes map[string]string
}

// NewDispatcher creates a dispatcher and builds its route tables.
func NewDispatcher(deps Deps) (*Dispatcher, error) {
	if deps.Catalog == nil {
		return nil, errors.New("smarthome: catalog is required")
	}
	if deps.Identity == nil {
		return nil, errors.New("smarthome: identity store is required")
	}

	d := &Dispatcher{
		catalog:       deps.Catalog,
		identity:      deps.Identity,
		validator:     deps.Validator,
		recorder:      deps.Recorder,
		logger:        deps.Logger,
		asm:           NewAssembler(deps.Clock, deps.IDs),
		camera:        deps.Camera.withDefaults(),
		lookupTimeout: deps.LookupTimeout,
	}
	if d.logger == nil {
		d.logger = noopLogger{}
	}
	if d.lookupTimeout <= 0 {
		d.lookupTimeout = DefaultLookupTimeout
	}

	d.routes = map[RouteKey]directiveHandler{
		{InterfacePowerController, "TurnOn"}:                         d.power("ON"),
		{InterfacePowerController, "TurnOff"}:                        d.power("OFF"),
		{"Alexa.Authorization", "AcceptGrant"}:                       d.acceptGrant,
		{InterfaceCameraStreamController, "InitializeCameraStreams"}: d.initializeCameraStreams,
		{InterfaceAlexa, "ReportState"}:                              d.reportState,
	}
	d.legacyRoutes = map[string]string{
		"TurnOnRequest":  "TurnOnConfirmation",
		"TurnOffRequest": "TurnOffConfirmation",
	}
	return d, nil
}

// Routes returns the version 3 route keys, sorted. Discover is matched by
// name alone and is not listed.
func (d *Dispatcher) Routes() []RouteKey {
	keys := make([]RouteKey, 0, len(d.routes))
	for k := range d.routes {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})
	return keys
}

// Catalog returns the catalog the dispatcher reads.
func (d *Dispatcher) Catalog() *device.Catalog {
	return d.catalog
}

// Dispatch handles one raw request and returns its response envelope.
//
// Returns:
//   - ErrMalformedRequest if a required field is missing
//   - ErrLookupFailed if the identity store fails (not for unknown tokens)
//   - ErrValidation if the validator rejects a version 3 response
//
// Unsupported directives and unknown tokens are answered with error
// envelopes, not errors.
func (d *Dispatcher) Dispatch(ctx context.Context, raw []byte) (Response, error) {
	start := time.Now()

	req, err := ParseRequest(raw)
	if err != nil {
		d.finish(ctx, start, Outcome{PayloadVersion: DetectVersion(raw)}, nil, err)
		return nil, err
	}

	d.logger.Info("directive received",
		"payload_version", req.PayloadVersion(),
		"namespace", req.Namespace(),
		"name", req.Name(),
	)

	outcome := Outcome{
		PayloadVersion: req.PayloadVersion(),
		Namespace:      req.Namespace(),
		Name:           req.Name(),
	}

	var resp Response
	switch r := req.(type) {
	case *DirectiveRequest:
		outcome.EndpointID = r.EndpointID()
		outcome.CorrelationToken = r.Directive.Header.CorrelationToken
		resp, err = d.dispatchDirective(ctx, r)
	case *LegacyRequest:
		resp = d.dispatchLegacy(r)
	default:
		err = fmt.Errorf("%w: unknown request type %T", ErrMalformedRequest, req)
	}

	if err != nil {
		d.finish(ctx, start, outcome, nil, err)
		return nil, err
	}
	d.finish(ctx, start, outcome, resp, nil)
	return resp, nil
}

func (d *Dispatcher) dispatchDirective(ctx context.Context, req *DirectiveRequest) (Response, error) {
	var (
		resp *EventResponse
		err  error
	)

	if req.Name() == "Discover" {
		resp = d.discover(req)
	} else if h, ok := d.routes[RouteKey{req.Namespace(), req.Name()}]; ok {
		resp, err = h(ctx, req)
	} else {
		d.logger.Warn("unsupported directive",
			"namespace", req.Namespace(),
			"name", req.Name(),
		)
		resp = d.asm.Error(req, ErrorInvalidDirective,
			fmt.Sprintf("unsupported directive %s.%s", req.Namespace(), req.Name()))
	}
	if err != nil {
		return nil, err
	}

	if d.validator != nil {
		if vErr := d.validator.Validate(req, resp); vErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrValidation, vErr)
		}
	}
	return resp, nil
}

func (d *Dispatcher) dispatchLegacy(req *LegacyRequest) Response {
	if req.Namespace() == LegacyDiscoveryNamespace {
		return d.asm.LegacyDiscovery(d.catalog.Records())
	}
	if confirmation, ok := d.legacyRoutes[req.Name()]; ok {
		return d.asm.Legacy(LegacyControlNamespace, confirmation, EmptyPayload{})
	}

	d.logger.Warn("unsupported legacy directive",
		"namespace", req.Namespace(),
		"name", req.Name(),
	)
	return d.asm.LegacyUnsupported()
}

// finish completes the outcome, logs it and hands it to the recorder.
func (d *Dispatcher) finish(ctx context.Context, start time.Time, o Outcome, resp Response, err error) {
	o.DurationMS = time.Since(start).Milliseconds()
	o.Timestamp = d.asm.Now()
	o.Result = ResultHandled

	switch {
	case err != nil:
		o.Result = ResultFailed
		o.Err = err
		o.ErrorType = failureType(err)
	case resp != nil:
		o.MessageID = resp.MessageID()
		o.ErrorType = envelopeErrorType(resp)
		if o.ErrorType != "" {
			o.Result = ResultRejected
			if o.ErrorType == string(ErrorInvalidDirective) || o.ErrorType == legacyUnsupportedResponse {
				o.Err = ErrUnsupportedDirective
			}
		}
	}

	if err != nil {
		d.logger.Error("directive failed",
			"payload_version", o.PayloadVersion,
			"namespace", o.Namespace,
			"name", o.Name,
			"error", err,
		)
	} else {
		d.logger.Info("directive handled",
			"payload_version", o.PayloadVersion,
			"namespace", o.Namespace,
			"name", o.Name,
			"result", o.Result,
			"duration_ms", o.DurationMS,
		)
	}

	if d.recorder != nil {
		d.recorder.Record(context.WithoutCancel(ctx), o)
	}
}

func failureType(err error) string {
	switch {
	case errors.Is(err, ErrMalformedRequest):
		return failureMalformed
	case errors.Is(err, ErrLookupFailed):
		return failureLookup
	case errors.Is(err, ErrValidation):
		return failureValidation
	default:
		return failureInternal
	}
}

// envelopeErrorType returns the error type carried by resp, or "".
func envelopeErrorType(resp Response) string {
	switch r := resp.(type) {
	case *EventResponse:
		if p, ok := r.Event.Payload.(ErrorPayload); ok {
			return string(p.Type)
		}
	case *LegacyResponse:
		if r.Header.Name == legacyUnsupportedResponse {
			return legacyUnsupportedResponse
		}
	}
	return ""
}
