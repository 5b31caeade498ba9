package device

import (
	"encoding/json"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// Limits of the version 3 endpoint format.
const maxDisplayLength = 128

var applianceIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_\-=#;:?@&]{1,256}$`)

// Record is an appliance in the legacy (payload version 2) catalog shape.
//
// JSON tags are the legacy wire names: legacy discovery returns records
// verbatim inside discoveredAppliances. Records are immutable once loaded
// into a Catalog; every accessor hands out deep copies.
type Record struct {
	ApplianceID         string   `json:"applianceId" yaml:"appliance_id"`
	ManufacturerName    string   `json:"manufacturerName" yaml:"manufacturer_name"`
	ModelName           string   `json:"modelName" yaml:"model_name"`
	Version             string   `json:"version" yaml:"version"`
	FriendlyName        string   `json:"friendlyName" yaml:"friendly_name"`
	FriendlyDescription string   `json:"friendlyDescription" yaml:"friendly_description"`
	IsReachable         bool     `json:"isReachable" yaml:"is_reachable"`
	Actions             []string `json:"actions" yaml:"actions"`
	AdditionalDetails   Details  `json:"additionalApplianceDetails" yaml:"additional_details"`
}

// Details holds the opaque additionalApplianceDetails map.
// It is passed through untouched, and becomes the endpoint cookie.
type Details map[string]any

// Validate checks the fields the endpoint mapping depends on.
func (r *Record) Validate() error {
	if r.ApplianceID == "" {
		return fmt.Errorf("%w: appliance id is required", ErrInvalidRecord)
	}
	if r.ManufacturerName == "" {
		return fmt.Errorf("%w: %s: manufacturer name is required", ErrInvalidRecord, r.ApplianceID)
	}
	if r.ModelName == "" {
		return fmt.Errorf("%w: %s: model name is required", ErrInvalidRecord, r.ApplianceID)
	}
	if r.FriendlyName == "" {
		return fmt.Errorf("%w: %s: friendly name is required", ErrInvalidRecord, r.ApplianceID)
	}
	if !applianceIDPattern.MatchString(r.ApplianceID) {
		return fmt.Errorf("%w: %q: appliance id may only use letters, digits and _-=#;:?@& (max 256)",
			ErrInvalidRecord, r.ApplianceID)
	}
	for _, f := range []struct{ name, value string }{
		{"manufacturer name", r.ManufacturerName},
		{"friendly name", r.FriendlyName},
		{"friendly description", r.FriendlyDescription},
	} {
		if utf8.RuneCountInString(f.value) > maxDisplayLength {
			return fmt.Errorf("%w: %s: %s exceeds %d characters", ErrInvalidRecord, r.ApplianceID, f.name, maxDisplayLength)
		}
	}
	if err := r.AdditionalDetails.validate(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidRecord, r.ApplianceID, err)
	}
	return nil
}

// normalise fills the optional collections so they serialise as [] and {}.
func (r *Record) normalise() {
	if r.Actions == nil {
		r.Actions = []string{}
	}
	if r.AdditionalDetails == nil {
		r.AdditionalDetails = Details{}
	}
}

// DeepCopy creates a complete independent copy of the Record.
func (r *Record) DeepCopy() *Record {
	if r == nil {
		return nil
	}

	cpy := *r
	if r.Actions != nil {
		cpy.Actions = make([]string, len(r.Actions))
		copy(cpy.Actions, r.Actions)
	}
	cpy.AdditionalDetails = r.AdditionalDetails.DeepCopy()
	return &cpy
}

// validate checks the details survive the JSON round trip both
// discovery responses depend on.
func (d Details) validate() error {
	if _, err := json.Marshal(d); err != nil {
		return fmt.Errorf("additional details are not JSON-encodable: %w", err)
	}
	return nil
}

// DeepCopy clones the details map, recursing into nested maps and slices.
func (d Details) DeepCopy() Details {
	if d == nil {
		return nil
	}
	return Details(deepCopyMap(d))
}

// deepCopyMap creates a deep copy of a map[string]any.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	cpy := make(map[string]any, len(m))
	for k, v := range m {
		cpy[k] = deepCopyValue(v)
	}
	return cpy
}

// deepCopyValue recursively copies a value, handling nested maps and slices.
func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case Details:
		return deepCopyMap(val)
	case []any:
		cpy := make([]any, len(val))
		for i, elem := range val {
			cpy[i] = deepCopyValue(elem)
		}
		return cpy
	default:
		// Primitives (string, bool, int, float64) are safe to copy by value.
		return v
	}
}
