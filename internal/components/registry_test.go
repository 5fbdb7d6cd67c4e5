package components

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openconvo/convograph-backend/internal/domain/convo"
	"github.com/openconvo/convograph-backend/internal/platform/logger"
)

func TestValidateUnknownComponentKeyedOnComponentID(t *testing.T) {
	t.Parallel()
	r := NewRegistry(logger.NewNop())

	errs := r.Validate("interpreter.custom.unknown", map[string]any{"anything": "x"})
	if errs.Empty() {
		t.Fatalf("expected errors for unknown component")
	}
	if _, ok := errs["component_id"]; !ok {
		t.Fatalf("unknown component must be reported on component_id: got=%v", errs)
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	t.Parallel()
	r := NewRegistry(logger.NewNop())

	errs := r.Validate(convo.DefaultInterpreter, map[string]any{
		"model":                42, // wrong type
		"confidence_threshold": "high",
		// endpoint missing entirely
	})
	if len(errs) != 3 {
		t.Fatalf("expected 3 violating fields: got=%v", errs)
	}
	for _, field := range []string{"model", "endpoint", "confidence_threshold"} {
		if _, ok := errs[field]; !ok {
			t.Fatalf("missing violation for %q: got=%v", field, errs)
		}
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	t.Parallel()
	r := NewRegistry(logger.NewNop())

	errs := r.Validate(convo.DefaultInterpreter, map[string]any{
		"model":                "base",
		"endpoint":             "http://nlp.internal",
		"confidence_threshold": 0.75,
	})
	if !errs.Empty() {
		t.Fatalf("unexpected violations: %v", errs)
	}

	errs = r.Validate(convo.CallbackInterpreter, map[string]any{"callback_id": "welcome"})
	if !errs.Empty() {
		t.Fatalf("unexpected violations: %v", errs)
	}
}

func TestLoadFileMergesSchemas(t *testing.T) {
	t.Parallel()
	r := NewRegistry(logger.NewNop())

	path := filepath.Join(t.TempDir(), "components.yaml")
	doc := `components:
  interpreter.custom.luis:
    fields:
      app_id: string
      endpoint: string
      verbose: bool
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write schema file: %v", err)
	}
	if err := r.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}

	errs := r.Validate("interpreter.custom.luis", map[string]any{
		"app_id":   "abc",
		"endpoint": "http://luis",
		"verbose":  true,
	})
	if !errs.Empty() {
		t.Fatalf("unexpected violations: %v", errs)
	}

	// Built-ins survive the merge.
	if _, ok := r.Lookup(convo.DefaultInterpreter); !ok {
		t.Fatalf("built-in schema lost after LoadFile")
	}
}

func TestLoadFileRejectsUnknownFieldType(t *testing.T) {
	t.Parallel()
	r := NewRegistry(logger.NewNop())

	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := `components:
  interpreter.custom.bad:
    fields:
      weights: tensor
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatalf("write schema file: %v", err)
	}
	if err := r.LoadFile(path); err == nil {
		t.Fatalf("expected error for unknown field type")
	}
}
