// Package schema checks decoded configuration documents against a JSON Schema.
package schema

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Problem is one failed constraint.
type Problem struct {
	// Location is a JSON pointer into the document, e.g. "/server/listen".
	Location string
	Message  string
}

func (p Problem) String() string {
	return fmt.Sprintf("%s: %s", p.Location, p.Message)
}

// ValidationError lists every problem found in a document.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	lines := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		lines[i] = "- " + p.String()
	}
	return "schema validation failed:\n" + strings.Join(lines, "\n")
}

// Validator holds a compiled schema.
type Validator struct {
	schema *jsonschema.Schema
}

// Compile compiles the schema document registered under url.
func Compile(url string, document []byte) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(url, bytes.NewReader(document)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	compiled, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate checks doc, which may be any value that marshals to JSON. YAML
// and TOML maps are normalized through a JSON round trip first. Failures are
// returned as *ValidationError.
func (v *Validator) Validate(doc interface{}) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document for validation: %w", err)
	}
	var normalized interface{}
	if err := json.Unmarshal(data, &normalized); err != nil {
		return fmt.Errorf("failed to decode document for validation: %w", err)
	}

	err = v.schema.Validate(normalized)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !stderrors.As(err, &verr) {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	out := &ValidationError{}
	flatten(verr, &out.Problems)
	if len(out.Problems) == 0 {
		out.Problems = append(out.Problems, Problem{Location: "/", Message: verr.Message})
	}
	return out
}

// flatten collects the leaf causes, which carry the specific messages.
func flatten(err *jsonschema.ValidationError, problems *[]Problem) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*problems = append(*problems, Problem{Location: loc, Message: err.Message})
		return
	}
	for _, cause := range err.Causes {
		flatten(cause, problems)
	}
}
