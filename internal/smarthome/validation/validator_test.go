package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-voice/internal/device"
	"github.com/nerrad567/gray-logic-voice/internal/identity"
	"github.com/nerrad567/gray-logic-voice/internal/smarthome"
)

func newValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return v
}

func TestValidator_AcceptsDispatcherResponses(t *testing.T) {
	v := newValidator(t)

	catalog, err := device.NewCatalog([]device.Record{
		{
			ApplianceID: "endpoint-001", ManufacturerName: "exp0nge", ModelName: "Smart Camera",
			Version: "1", FriendlyName: "Smart Camera", FriendlyDescription: "Camera that tells you what's there",
			IsReachable: true, Actions: []string{"retrieveCameraStreamUri"},
		},
		{
			ApplianceID: "switch-1", ManufacturerName: "exp0nge", ModelName: "Smart Switch",
			Version: "1", FriendlyName: "Hall", IsReachable: false,
		},
	})
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	store := identity.NewMemoryStore()
	if err := store.Link("tok", identity.Association{UserID: "u", EndpointURL: "cam.local:554", Username: "u", Password: "p"}); err != nil {
		t.Fatalf("Link() error = %v", err)
	}

	d, err := smarthome.NewDispatcher(smarthome.Deps{
		Catalog:   catalog,
		Identity:  store,
		Validator: v,
		Clock:     smarthome.ClockFunc(func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }),
	})
	if err != nil {
		t.Fatalf("NewDispatcher() error = %v", err)
	}

	requests := map[string]string{
		"discover": `{"directive":{"header":{"namespace":"Alexa.Discovery","name":"Discover","payloadVersion":"3","messageId":"1"},
			"payload":{"scope":{"type":"BearerToken","token":"tok"}}}}`,
		"turn on": `{"directive":{"header":{"namespace":"Alexa.PowerController","name":"TurnOn","payloadVersion":"3",
			"messageId":"1","correlationToken":"abc123"},"endpoint":{"endpointId":"switch-1","scope":{"type":"BearerToken","token":"tok"}},"payload":{}}}`,
		"discover without namespace": `{"directive":{"header":{"name":"Discover","payloadVersion":"3"}}}`,
		"turn on partition scope": `{"directive":{"header":{"namespace":"Alexa.PowerController","name":"TurnOff","payloadVersion":"3",
			"messageId":"1","correlationToken":"abc123"},"endpoint":{"endpointId":"switch-1",
			"scope":{"type":"BearerTokenWithPartition","token":"tok","partition":"Room101","userId":"u"}},"payload":{}}}`,
		"accept grant": `{"directive":{"header":{"namespace":"Alexa.Authorization","name":"AcceptGrant","payloadVersion":"3","messageId":"1"},
			"payload":{"grant":{"type":"OAuth2.AuthorizationCode","code":"c"},"grantee":{"type":"BearerToken","token":"tok"}}}}`,
		"camera": `{"directive":{"header":{"namespace":"Alexa.CameraStreamController","name":"InitializeCameraStreams",
			"payloadVersion":"3","messageId":"1","correlationToken":"c"},"endpoint":{"endpointId":"endpoint-001",
			"scope":{"type":"BearerToken","token":"tok"}},"payload":{}}}`,
		"camera unknown token": `{"directive":{"header":{"namespace":"Alexa.CameraStreamController","name":"InitializeCameraStreams",
			"payloadVersion":"3","messageId":"1","correlationToken":"c"},"endpoint":{"endpointId":"endpoint-001",
			"scope":{"type":"BearerToken","token":"nope"}},"payload":{}}}`,
		"report state": `{"directive":{"header":{"namespace":"Alexa","name":"ReportState","payloadVersion":"3",
			"messageId":"1","correlationToken":"c"},"endpoint":{"endpointId":"switch-1","scope":{"type":"BearerToken","token":"tok"}},"payload":{}}}`,
		"unsupported": `{"directive":{"header":{"namespace":"Alexa.ColorController","name":"SetColor","payloadVersion":"3",
			"messageId":"1"},"endpoint":{"endpointId":"switch-1","scope":{"type":"BearerToken","token":"tok"}},"payload":{}}}`,
	}

	for name, raw := range requests {
		t.Run(name, func(t *testing.T) {
			if _, err := d.Dispatch(context.Background(), []byte(raw)); err != nil {
				t.Errorf("Dispatch() error = %v", err)
			}
		})
	}
}

func TestValidator_RejectsBadEvents(t *testing.T) {
	v := newValidator(t)
	asm := smarthome.NewAssembler(nil, nil)

	power := asm.Power(nil, "DIM")
	power.Event.Endpoint = &smarthome.EventEndpoint{EndpointID: "e-1"}

	noEndpoint := asm.Power(nil, "ON")

	discovery := asm.Discovery(nil, []smarthome.Endpoint{{
		EndpointID:        "bad id with spaces",
		ManufacturerName:  "m",
		FriendlyName:      "f",
		DisplayCategories: []smarthome.DisplayCategory{smarthome.CategoryOther},
		Capabilities:      smarthome.InferCapabilities("x"),
	}})

	badScope := asm.Power(nil, "ON")
	badScope.Event.Endpoint = &smarthome.EventEndpoint{
		EndpointID: "e-1",
		Scope:      &smarthome.Scope{Type: "OAuth", Token: "t"},
	}

	badVersion := asm.AcceptGrant(nil)
	badVersion.Event.Header.PayloadVersion = "2"

	tests := map[string]*smarthome.EventResponse{
		"bad power value":           power,
		"response without endpoint": noEndpoint,
		"bad endpoint id":           discovery,
		"wrong payload version":     badVersion,
		"unknown scope type":        badScope,
	}
	for name, resp := range tests {
		t.Run(name, func(t *testing.T) {
			if err := v.Validate(nil, resp); !errors.Is(err, ErrSchemaViolation) {
				t.Errorf("Validate() error = %v, want ErrSchemaViolation", err)
			}
		})
	}
}

func TestValidator_CorrelationMismatch(t *testing.T) {
	v := newValidator(t)
	asm := smarthome.NewAssembler(nil, nil)

	req := &smarthome.DirectiveRequest{Directive: smarthome.Directive{
		Header:   smarthome.DirectiveHeader{Namespace: "Alexa.PowerController", Name: "TurnOn", PayloadVersion: "3", CorrelationToken: "abc"},
		Endpoint: &smarthome.DirectiveEndpoint{EndpointID: "e-1"},
	}}
	resp := asm.Power(req, "ON")
	if err := v.Validate(req, resp); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	resp.Event.Header.CorrelationToken = "other"
	if err := v.Validate(req, resp); !errors.Is(err, ErrSchemaViolation) {
		t.Errorf("Validate() error = %v, want ErrSchemaViolation", err)
	}
}

func TestValidator_SkipsLegacy(t *testing.T) {
	v := newValidator(t)
	resp := smarthome.NewAssembler(nil, nil).LegacyUnsupported()

	if err := v.Validate(nil, resp); err != nil {
		t.Errorf("Validate() legacy error = %v, want nil", err)
	}
}
