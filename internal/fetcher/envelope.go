package fetcher

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hickst/qmtools/internal/model"
	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/envelope.schema.json
var envelopeSchemaJSON []byte

// Envelope is one page of results as returned by the MRIQC API.
type Envelope struct {
	// Items are the raw, possibly nested, records on the page.
	Items []map[string]any `json:"_items"`

	// Meta describes the page.
	Meta Meta `json:"_meta"`
}

// Meta is the pagination block of an Envelope.
type Meta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	MaxResults int `json:"max_results"`
}

// envelopeValidator checks response bodies against the embedded schema.
type envelopeValidator struct {
	schema *gojsonschema.Schema
}

func newEnvelopeValidator() (*envelopeValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(envelopeSchemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile envelope schema: %w", err)
	}
	return &envelopeValidator{schema: schema}, nil
}

// decode validates body and unmarshals it into an Envelope.
func (v *envelopeValidator) decode(body []byte) (*Envelope, error) {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: response is not JSON: %w", model.ErrMalformedInput, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: unexpected response envelope: %s",
			model.ErrMalformedInput, strings.Join(msgs, "; "))
	}

	var env Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %w", model.ErrMalformedInput, err)
	}
	return &env, nil
}
