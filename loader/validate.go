package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/actioncore/engine/actionmap"
	"github.com/nathoo/actioncore/engine/parser"
	"github.com/nathoo/actioncore/markup"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled document's action declarations.
// Malformed binding segments and bindings that name unknown targets are
// warnings, not errors: at runtime the parser drops malformed segments
// silently and unknown targets surface per-dispatch.
func validate(doc *markup.Document) error {
	ve := &ValidationError{}

	doc.Root().Walk(func(el *markup.Element) bool {
		raw, ok := el.Attr(actionmap.DefaultAttr)
		if !ok {
			return true
		}

		where := el.ID()
		if where == "" {
			where = "<anonymous " + el.Kind() + ">"
		}

		for _, seg := range strings.Split(raw, ";") {
			seg = strings.TrimSpace(seg)
			if seg == "" {
				continue
			}
			binding := parser.ParseAction(seg)
			if binding == nil {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"element %q: %q is not a valid binding (want event:target.method)",
					where, seg))
				continue
			}
			if _, ok := doc.ElementByID(binding.Target); !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"element %q: binding %q targets undeclared element %q",
					where, seg, binding.Target))
			}
		}
		return true
	})

	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
