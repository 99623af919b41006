package metaschema

import (
	_ "embed"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"

	"github.com/roach88/bindery/internal/model"
)

//go:embed schema.cue
var schemaSrc string

// Validator checks metadata against the embedded CUE schema.
//
// A Validator is immutable after construction and safe for concurrent use:
// every Validate call unifies against the same compiled schema value.
type Validator struct {
	schema cue.Value
}

// NewValidator compiles the embedded schema. Compilation failure means the
// binary shipped with a broken schema.cue, so errors here are not
// recoverable by the caller.
func NewValidator() (*Validator, error) {
	ctx := cuecontext.New()
	root := ctx.CompileString(schemaSrc, cue.Filename("schema.cue"))
	if err := root.Err(); err != nil {
		return nil, fmt.Errorf("compile metadata schema: %w", err)
	}
	schema := root.LookupPath(cue.ParsePath("#Metadata"))
	if err := schema.Err(); err != nil {
		return nil, fmt.Errorf("lookup #Metadata: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// MustValidator is NewValidator for callers that treat a broken embedded
// schema as a programming error.
func MustValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Validate unifies md with the metadata schema and reports the first
// constraint violation, with every violation's message folded into the
// returned error.
func (v *Validator) Validate(md model.Metadata) error {
	val := v.schema.Context().Encode(md)
	if err := val.Err(); err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}
	unified := v.schema.Unify(val)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("metadata does not conform to schema: %s", flatten(err))
	}
	return nil
}

// flatten renders all CUE errors in a single line, most specific first.
func flatten(err error) string {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err.Error()
	}
	msg := ""
	for i, e := range errs {
		if i > 0 {
			msg += "; "
		}
		msg += e.Error()
	}
	return msg
}
