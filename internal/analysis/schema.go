package analysis

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Verdict is the result of checking a decoded completion against the contract.
type Verdict int

const (
	Valid Verdict = iota
	Malformed
)

func (v Verdict) String() string {
	if v == Valid {
		return "valid"
	}
	return "malformed"
}

// contractSchema only requires a top-level object. Missing or mistyped fields
// are handled by the defaulting rules in Parse.
var contractSchema = &jsonschema.Schema{
	Type:        "object",
	Description: "Workout analysis returned by the model.",
	Properties: map[string]*jsonschema.Schema{
		"workouts":      {Description: "Exercises in order of appearance."},
		"videoTitle":    {Description: "Title inferred by the model."},
		"totalDuration": {Description: "Estimated total duration in seconds."},
	},
}

var resolvedContract = mustResolve(contractSchema)

func mustResolve(s *jsonschema.Schema) *jsonschema.Resolved {
	resolved, err := s.Resolve(nil)
	if err != nil {
		panic(fmt.Sprintf("resolve response contract: %v", err))
	}
	return resolved
}

// Check validates a decoded JSON value against the response contract.
func Check(instance any) (Verdict, error) {
	if err := resolvedContract.Validate(instance); err != nil {
		return Malformed, err
	}
	return Valid, nil
}
