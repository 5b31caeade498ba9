// Package validation checks version 3 responses against an embedded
// JSON schema of the event envelope.
package validation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/nerrad567/gray-logic-voice/internal/smarthome"
)

//go:embed schema.json
var eventSchema []byte

const schemaURL = "https://graylogic.local/schemas/smarthome-event-v3.json"

// ErrSchemaViolation is returned when a response does not match the schema.
var ErrSchemaViolation = errors.New("validation: schema violation")

// Validator validates responses against the compiled event schema.
//
// Thread Safety: a compiled schema is read-only; Validate is safe for
// concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// New compiles the embedded schema.
func New() (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	if err := compiler.AddResource(schemaURL, bytes.NewReader(eventSchema)); err != nil {
		return nil, fmt.Errorf("loading event schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling event schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// Validate checks resp against the schema. Legacy responses pass
// unchecked. When both carry one, the correlation token of resp must
// match the one in req.
func (v *Validator) Validate(req smarthome.Request, resp smarthome.Response) error {
	event, ok := resp.(*smarthome.EventResponse)
	if !ok {
		return nil
	}

	if d, ok := req.(*smarthome.DirectiveRequest); ok {
		want := d.Directive.Header.CorrelationToken
		got := event.Event.Header.CorrelationToken
		if want != "" && got != "" && got != want {
			return fmt.Errorf("%w: correlationToken %q does not match request %q", ErrSchemaViolation, got, want)
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshalling response: %w", err)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if err := v.schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}
	return nil
}
