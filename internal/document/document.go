// Package document reads and writes automation sequences as JSON
// documents. Incoming documents are validated against an embedded CUE
// schema before decoding, so a malformed source is rejected with a
// diagnostic instead of half-decoding.
package document

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"

	"github.com/foxhoundv/wingmix/internal/automation"
)

//go:embed schema.cue
var schemaCUE string

// Load reads and validates the automation document at path.
func Load(path string) (*automation.Sequence, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Code: ErrCodeUnreadable, Message: err.Error(), Err: err}
	}
	seq, err := Decode(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.Path = path
		}
		return nil, err
	}
	return seq, nil
}

// Decode validates and decodes a raw automation document.
func Decode(data []byte) (*automation.Sequence, error) {
	if err := validateSchema(data); err != nil {
		return nil, err
	}

	var seq automation.Sequence
	if err := json.Unmarshal(data, &seq); err != nil {
		return nil, &LoadError{Code: ErrCodeSyntax, Message: err.Error(), Err: err}
	}
	if seq.InitialState == nil {
		seq.InitialState = automation.InitialState{}
	}
	if seq.Events == nil {
		seq.Events = []automation.Event{}
	}
	if err := seq.Validate(); err != nil {
		return nil, &LoadError{Code: ErrCodeInvalid, Message: err.Error(), Err: err}
	}
	return &seq, nil
}

// validateSchema unifies the document with the #Sequence definition and
// rejects anything that does not conform.
func validateSchema(data []byte) error {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile document schema: %w", err)
	}
	def := schema.LookupPath(cue.ParsePath("#Sequence"))
	if err := def.Err(); err != nil {
		return fmt.Errorf("lookup #Sequence: %w", err)
	}

	expr, err := cuejson.Extract("document.json", data)
	if err != nil {
		return &LoadError{Code: ErrCodeSyntax, Message: err.Error(), Err: err}
	}

	unified := def.Unify(ctx.BuildExpr(expr))
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeSchema, Message: cueerrors.Details(err, nil), Err: err}
	}
	return nil
}

// Marshal renders a sequence as the canonical document form: indented
// JSON with initial_state keys sorted, terminated by a newline. Byte
// output is deterministic for a given sequence.
func Marshal(seq *automation.Sequence) ([]byte, error) {
	out := *seq
	if out.InitialState == nil {
		out.InitialState = automation.InitialState{}
	}
	if out.Events == nil {
		out.Events = []automation.Event{}
	}
	data, err := json.MarshalIndent(&out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal sequence: %w", err)
	}
	return append(data, '\n'), nil
}

// Save writes the sequence to path in the canonical document form.
func Save(path string, seq *automation.Sequence) error {
	data, err := Marshal(seq)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
