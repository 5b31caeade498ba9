package device

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// catalogFile is the top-level layout of a YAML appliance file:
//
//	appliances:
//	  - appliance_id: endpoint-001
//	    manufacturer_name: exp0nge
//	    model_name: Smart Camera
//	    friendly_name: Smart Camera
type catalogFile struct {
	Appliances []Record `yaml:"appliances"`
}

// FileSource reads appliance records from a YAML file.
type FileSource struct {
	Path string
}

// List parses the file on every call so a reload picks up edits.
func (f FileSource) List(_ context.Context) ([]Record, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing catalog file: %w", err)
	}
	for i := range file.Appliances {
		for k, v := range file.Appliances[i].AdditionalDetails {
			file.Appliances[i].AdditionalDetails[k] = stringKeys(v)
		}
	}
	return file.Appliances, nil
}

// stringKeys rewrites the map[any]any values yaml.v3 produces for
// non-string mapping keys into map[string]any.
func stringKeys(v any) any {
	switch val := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[fmt.Sprint(k)] = stringKeys(elem)
		}
		return out
	case map[string]any:
		for k, elem := range val {
			val[k] = stringKeys(elem)
		}
		return val
	case []any:
		for i, elem := range val {
			val[i] = stringKeys(elem)
		}
		return val
	default:
		return v
	}
}
