package httpclient

import (
	"bytes"
	"encoding/xml"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Codec turns request models into body text and response text into models.
type Codec interface {
	// ContentType is the media type sent with encoded bodies.
	ContentType() string
	Marshal(v any, cfg MarshalConfig) ([]byte, error)
	Unmarshal(data []byte, v any, cfg MarshalConfig) error
}

// MarshalConfig configures request/response encoding for typed calls.
type MarshalConfig struct {
	// Codec defaults to JSONCodec.
	Codec Codec
	// Indent pretty-prints JSON bodies with the given indent.
	Indent string
	// DisallowUnknownFields rejects JSON responses with fields absent in the model.
	DisallowUnknownFields bool
}

func (m MarshalConfig) codec() Codec {
	if m.Codec == nil {
		return JSONCodec
	}
	return m.Codec
}

var (
	// JSONCodec encodes application/json bodies.
	JSONCodec Codec = jsonCodec{}
	// XMLCodec encodes application/xml bodies.
	XMLCodec Codec = xmlCodec{}
	// YAMLCodec encodes application/yaml bodies.
	YAMLCodec Codec = yamlCodec{}
)

type jsonCodec struct{}

func (jsonCodec) ContentType() string { return "application/json" }

func (jsonCodec) Marshal(v any, cfg MarshalConfig) ([]byte, error) {
	if cfg.Indent != "" {
		return json.MarshalIndent(v, "", cfg.Indent)
	}
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any, cfg MarshalConfig) error {
	if !cfg.DisallowUnknownFields {
		return json.Unmarshal(data, v)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("unexpected data after JSON value")
	}
	return nil
}

type xmlCodec struct{}

func (xmlCodec) ContentType() string { return "application/xml" }

func (xmlCodec) Marshal(v any, cfg MarshalConfig) ([]byte, error) {
	if cfg.Indent != "" {
		return xml.MarshalIndent(v, "", cfg.Indent)
	}
	return xml.Marshal(v)
}

func (xmlCodec) Unmarshal(data []byte, v any, _ MarshalConfig) error {
	return xml.Unmarshal(data, v)
}

type yamlCodec struct{}

func (yamlCodec) ContentType() string { return "application/yaml" }

func (yamlCodec) Marshal(v any, _ MarshalConfig) ([]byte, error) {
	return yaml.Marshal(v)
}

func (yamlCodec) Unmarshal(data []byte, v any, cfg MarshalConfig) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(cfg.DisallowUnknownFields)
	return dec.Decode(v)
}
