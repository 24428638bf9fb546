package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/queuestub/pkg/handler"
)

// Script is an ordered list of handlers loaded from a file.
type Script struct {
	Handlers []HandlerDefinition `json:"handlers" yaml:"handlers"`
}

// HandlerDefinition is the file form of one handler.
type HandlerDefinition struct {
	Path           string             `json:"path" yaml:"path"`
	Method         string             `json:"method,omitempty" yaml:"method,omitempty"`
	RequestHeaders map[string]string  `json:"requestHeaders,omitempty" yaml:"requestHeaders,omitempty"`
	Response       ResponseDefinition `json:"response" yaml:"response"`
}

// ResponseDefinition is the file form of a canned response.
// When JSON is set it is encoded as the body and Body is ignored.
type ResponseDefinition struct {
	StatusCode int               `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
	Headers    map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Body       string            `json:"body,omitempty" yaml:"body,omitempty"`
	JSON       any               `json:"json,omitempty" yaml:"json,omitempty"`
}

// LoadScript reads a handler script from path.
// The format is picked from the extension: .json for JSON, anything else YAML.
func LoadScript(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: read %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseScriptJSON(data)
	}
	return ParseScript(data)
}

// ParseScript decodes a YAML script. Unknown fields are rejected.
func ParseScript(data []byte) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("script: parse yaml: %w", err)
	}
	return &s, nil
}

// ParseScriptJSON decodes a JSON script. Unknown fields are rejected.
func ParseScriptJSON(data []byte) (*Script, error) {
	var s Script
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("script: parse json: %w", err)
	}
	return &s, nil
}

// Build turns every definition into a handler, in file order.
func (s *Script) Build() ([]*handler.Spec, error) {
	specs := make([]*handler.Spec, 0, len(s.Handlers))
	for i, def := range s.Handlers {
		spec, err := def.Build()
		if err != nil {
			return nil, fmt.Errorf("script: handler %d (%s): %w", i, def.Path, err)
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Build converts the definition into a handler. Omitted fields keep the
// builder defaults: GET and status 500.
func (d HandlerDefinition) Build() (*handler.Spec, error) {
	b := handler.New(d.Path).
		WithRequestHeaders(d.RequestHeaders).
		WithHeaders(d.Response.Headers)

	if d.Method != "" {
		b.WithMethod(strings.ToUpper(d.Method))
	}
	if d.Response.StatusCode != 0 {
		b.WithStatus(d.Response.StatusCode)
	}
	if d.Response.JSON != nil {
		b.WithJSON(d.Response.JSON)
	} else if d.Response.Body != "" {
		b.WithBodyString(d.Response.Body)
	}
	return b.Build()
}
