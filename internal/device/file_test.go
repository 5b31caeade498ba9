package device

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSource_List(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appliances.yaml")
	content := `
appliances:
  - appliance_id: endpoint-001
    manufacturer_name: exp0nge
    model_name: Smart Camera
    version: "1"
    friendly_name: Smart Camera
    friendly_description: Camera that tells you what's there
    is_reachable: true
    actions: [retrieveCameraStreamUri]
    additional_details:
      zone: front
  - appliance_id: endpoint-002
    manufacturer_name: exp0nge
    model_name: Smart Switch
    friendly_name: Hall Switch
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	catalog, err := LoadCatalog(context.Background(), FileSource{Path: path})
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	records := catalog.Records()
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	cam := records[0]
	if cam.ApplianceID != "endpoint-001" || !cam.IsReachable {
		t.Errorf("camera = %+v", cam)
	}
	if len(cam.Actions) != 1 || cam.Actions[0] != "retrieveCameraStreamUri" {
		t.Errorf("Actions = %v", cam.Actions)
	}
	if cam.AdditionalDetails["zone"] != "front" {
		t.Errorf("AdditionalDetails = %v", cam.AdditionalDetails)
	}
	if records[1].Actions == nil {
		t.Error("second record Actions should be normalised to empty")
	}
}

func TestFileSource_Errors(t *testing.T) {
	if _, err := (FileSource{Path: "/nonexistent/appliances.yaml"}).List(context.Background()); err == nil {
		t.Error("List() expected error for missing file")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("appliances: [unclosed"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := (FileSource{Path: path}).List(context.Background()); err == nil {
		t.Error("List() expected error for invalid YAML")
	}
}

func TestFileSource_NonStringDetailKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "appliances.yaml")
	content := `
appliances:
  - appliance_id: endpoint-001
    manufacturer_name: exp0nge
    model_name: Smart Light
    friendly_name: Hall Light
    additional_details:
      channels:
        1: dimmer
        2: relay
      zones:
        - {10: front}
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}

	catalog, err := LoadCatalog(context.Background(), FileSource{Path: path})
	if err != nil {
		t.Fatalf("LoadCatalog() error = %v", err)
	}

	details := catalog.Records()[0].AdditionalDetails
	channels, ok := details["channels"].(map[string]any)
	if !ok || channels["1"] != "dimmer" {
		t.Fatalf("channels = %#v, want map[string]any with key \"1\"", details["channels"])
	}
	zones, ok := details["zones"].([]any)
	if !ok || len(zones) != 1 {
		t.Fatalf("zones = %#v", details["zones"])
	}
	if zone, ok := zones[0].(map[string]any); !ok || zone["10"] != "front" {
		t.Errorf("zones[0] = %#v", zones[0])
	}
	if _, err := json.Marshal(details); err != nil {
		t.Errorf("details not JSON-encodable: %v", err)
	}
}
