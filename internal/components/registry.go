package components

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/openconvo/convograph-backend/internal/data/graph"
	"github.com/openconvo/convograph-backend/internal/domain/convo"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

// FieldType is the expected primitive type of a configuration field.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldBool   FieldType = "bool"
)

// Schema lists the required fields of one component's configuration.
type Schema struct {
	Fields map[string]FieldType `yaml:"fields"`
}

// Registry maps component identifiers to configuration schemas. It is an
// explicit table populated at startup; component ids are never resolved by
// reflection or runtime class lookup.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
	log     *logger.Logger
}

// NewRegistry returns a registry seeded with the built-in interpreter
// schemas.
func NewRegistry(log *logger.Logger) *Registry {
	r := &Registry{
		schemas: map[string]Schema{},
		log:     log.With("component", "Registry"),
	}
	r.Register(convo.DefaultInterpreter, Schema{Fields: map[string]FieldType{
		"model":                FieldString,
		"endpoint":             FieldString,
		"confidence_threshold": FieldNumber,
	}})
	r.Register(convo.CallbackInterpreter, Schema{Fields: map[string]FieldType{
		"callback_id": FieldString,
	}})
	return r
}

func (r *Registry) Register(componentID string, schema Schema) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schemas[componentID] = schema
}

// Lookup resolves a schema by component id.
func (r *Registry) Lookup(componentID string) (Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[componentID]
	return s, ok
}

// ComponentIDs returns the registered ids, sorted.
func (r *Registry) ComponentIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := make([]string, 0, len(r.schemas))
	for id := range r.schemas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// LoadFile merges additional schemas from a YAML file:
//
//	components:
//	  interpreter.custom.luis:
//	    fields:
//	      app_id: string
//	      endpoint: string
func (r *Registry) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("components: read schema file: %w", err)
	}
	var doc struct {
		Components map[string]Schema `yaml:"components"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("components: parse schema file: %w", err)
	}
	for id, schema := range doc.Components {
		for field, ft := range schema.Fields {
			switch ft {
			case FieldString, FieldNumber, FieldBool:
			default:
				return fmt.Errorf("components: %s.%s: unknown field type %q", id, field, ft)
			}
		}
		r.Register(id, schema)
	}
	r.log.Info("loaded component schemas", "path", path, "count", len(doc.Components))
	return nil
}

// Validate checks a configuration against the schema registered for the
// component id. An unknown id is reported on the component_id field itself.
// All violations are collected, keyed by field name.
func (r *Registry) Validate(componentID string, config map[string]any) graph.FieldErrors {
	errs := graph.FieldErrors{}
	schema, ok := r.Lookup(componentID)
	if !ok {
		errs.Add("component_id", fmt.Sprintf("unknown component %q", componentID))
		return errs
	}
	fields := make([]string, 0, len(schema.Fields))
	for f := range schema.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, field := range fields {
		want := schema.Fields[field]
		val, present := config[field]
		if !present {
			errs.Add(field, "required field is missing")
			continue
		}
		if !typeMatches(want, val) {
			errs.Add(field, fmt.Sprintf("expected %s, got %T", want, val))
		}
	}
	return errs
}

func typeMatches(want FieldType, val any) bool {
	switch want {
	case FieldString:
		_, ok := val.(string)
		return ok
	case FieldNumber:
		switch val.(type) {
		case float64, float32, int, int32, int64:
			return true
		}
		return false
	case FieldBool:
		_, ok := val.(bool)
		return ok
	}
	return false
}
