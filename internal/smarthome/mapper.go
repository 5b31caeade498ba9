package smarthome

import "github.com/nerrad567/gray-logic-voice/internal/device"

// DisplayCategory is a version 3 display category tag.
type DisplayCategory string

// Display categories inferred from legacy model names.
const (
	CategorySwitch          DisplayCategory = "SWITCH"
	CategoryLight           DisplayCategory = "LIGHT"
	CategoryThermostat      DisplayCategory = "THERMOSTAT"
	CategorySmartLock       DisplayCategory = "SMARTLOCK"
	CategorySceneTrigger    DisplayCategory = "SCENE_TRIGGER"
	CategoryActivityTrigger DisplayCategory = "ACTIVITY_TRIGGER"
	CategoryCamera          DisplayCategory = "CAMERA"
	CategoryOther           DisplayCategory = "OTHER"
)

// Model names with a known display category.
const (
	ModelSmartSwitch     = "Smart Switch"
	ModelSmartLight      = "Smart Light"
	ModelSmartWhiteLight = "Smart White Light"
	ModelSmartThermostat = "Smart Thermostat"
	ModelSmartLock       = "Smart Lock"
	ModelSmartScene      = "Smart Scene"
	ModelSmartActivity   = "Smart Activity"
	ModelSmartCamera     = "Smart Camera"
)

// modelCategories maps a legacy model name to its display category.
// Anything not listed is OTHER.
var modelCategories = map[string]DisplayCategory{
	ModelSmartSwitch:     CategorySwitch,
	ModelSmartLight:      CategoryLight,
	ModelSmartWhiteLight: CategoryLight,
	ModelSmartThermostat: CategoryThermostat,
	ModelSmartLock:       CategorySmartLock,
	ModelSmartScene:      CategorySceneTrigger,
	ModelSmartActivity:   CategoryActivityTrigger,
	ModelSmartCamera:     CategoryCamera,
}

// Interface names.
const (
	InterfaceAlexa                  = "Alexa"
	InterfacePowerController        = "Alexa.PowerController"
	InterfaceCameraStreamController = "Alexa.CameraStreamController"
	InterfaceEndpointHealth         = "Alexa.EndpointHealth"

	capabilityType    = "AlexaInterface"
	capabilityVersion = "3"
)

// Endpoint is the version 3 view of a catalog record.
type Endpoint struct {
	EndpointID        string            `json:"endpointId"`
	ManufacturerName  string            `json:"manufacturerName"`
	FriendlyName      string            `json:"friendlyName"`
	Description       string            `json:"description"`
	DisplayCategories []DisplayCategory `json:"displayCategories"`
	Cookie            map[string]any    `json:"cookie"`
	Capabilities      []Capability      `json:"capabilities"`
}

// Capability describes one interface an endpoint supports.
type Capability struct {
	Type                       string                      `json:"type"`
	Interface                  string                      `json:"interface"`
	Version                    string                      `json:"version"`
	Properties                 *CapabilityProperties       `json:"properties,omitempty"`
	CameraStreamConfigurations []CameraStreamConfiguration `json:"cameraStreamConfigurations,omitempty"`
}

// CapabilityProperties lists the reportable properties of an interface.
type CapabilityProperties struct {
	Supported           []SupportedProperty `json:"supported"`
	ProactivelyReported bool                `json:"proactivelyReported"`
	Retrievable         bool                `json:"retrievable"`
}

// SupportedProperty names one reportable property.
type SupportedProperty struct {
	Name string `json:"name"`
}

// CameraStreamConfiguration is a stream format a camera can serve.
type CameraStreamConfiguration struct {
	Protocols          []string     `json:"protocols"`
	Resolutions        []Resolution `json:"resolutions"`
	AuthorizationTypes []string     `json:"authorizationTypes"`
	VideoCodecs        []string     `json:"videoCodecs"`
	AudioCodecs        []string     `json:"audioCodecs"`
}

// Resolution is a video frame size in pixels.
type Resolution struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ToEndpoint derives the version 3 endpoint for a catalog record.
// The result shares no memory with rec.
func ToEndpoint(rec device.Record) Endpoint {
	cookie := map[string]any(rec.AdditionalDetails.DeepCopy())
	if cookie == nil {
		cookie = map[string]any{}
	}

	return Endpoint{
		EndpointID:        rec.ApplianceID,
		ManufacturerName:  rec.ManufacturerName,
		FriendlyName:      rec.FriendlyName,
		Description:       rec.FriendlyDescription,
		DisplayCategories: InferDisplayCategories(rec.ModelName),
		Cookie:            cookie,
		Capabilities:      InferCapabilities(rec.ModelName),
	}
}

// ToEndpoints maps records in order.
func ToEndpoints(records []device.Record) []Endpoint {
	endpoints := make([]Endpoint, 0, len(records))
	for _, rec := range records {
		endpoints = append(endpoints, ToEndpoint(rec))
	}
	return endpoints
}

// InferDisplayCategories returns exactly one category for a model name.
func InferDisplayCategories(modelName string) []DisplayCategory {
	if cat, ok := modelCategories[modelName]; ok {
		return []DisplayCategory{cat}
	}
	return []DisplayCategory{CategoryOther}
}

// InferCapabilities returns the capability list for a model name:
// the model-specific interface, then EndpointHealth, then Alexa.
func InferCapabilities(modelName string) []Capability {
	caps := make([]Capability, 0, 3)

	if modelName == ModelSmartCamera {
		caps = append(caps, cameraStreamCapability())
	} else {
		caps = append(caps, reportable(InterfacePowerController, "powerState"))
	}

	return append(caps,
		reportable(InterfaceEndpointHealth, "connectivity"),
		Capability{Type: capabilityType, Interface: InterfaceAlexa, Version: capabilityVersion},
	)
}

func reportable(iface, property string) Capability {
	return Capability{
		Type:      capabilityType,
		Interface: iface,
		Version:   capabilityVersion,
		Properties: &CapabilityProperties{
			Supported:           []SupportedProperty{{Name: property}},
			ProactivelyReported: true,
			Retrievable:         true,
		},
	}
}

func cameraStreamCapability() Capability {
	return Capability{
		Type:      capabilityType,
		Interface: InterfaceCameraStreamController,
		Version:   capabilityVersion,
		CameraStreamConfigurations: []CameraStreamConfiguration{{
			Protocols:          []string{"RTSP"},
			Resolutions:        []Resolution{{Width: 640, Height: 480}},
			AuthorizationTypes: []string{"BEARER"},
			VideoCodecs:        []string{"H264"},
			AudioCodecs:        []string{"AAC"},
		}},
	}
}
