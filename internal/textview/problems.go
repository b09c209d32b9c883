package textview

import (
	"errors"
	"fmt"

	"github.com/sajari/fuzzy"

	"github.com/bethropolis/modsed/internal/document"
	"github.com/bethropolis/modsed/internal/schema"
	"github.com/bethropolis/modsed/internal/selection"
)

// Severity orders entries of the problems panel.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Problem is one entry of the problems panel. Line and Column are 1-based;
// zero means unknown.
type Problem struct {
	Severity Severity
	Line     int
	Column   int
	Message  string
}

func (p Problem) String() string {
	if p.Line > 0 {
		return fmt.Sprintf("%s: %d:%d: %s", p.Severity, p.Line, p.Column, p.Message)
	}
	return fmt.Sprintf("%s: %s", p.Severity, p.Message)
}

// newSpeller trains a spelling model on the tag names of the catalog.
func newSpeller(c *schema.Catalog) *fuzzy.Model {
	model := fuzzy.NewModel()
	model.SetThreshold(1)
	model.SetDepth(2)
	model.Train(c.Tags())
	return model
}

func parseProblem(err error) Problem {
	p := Problem{Severity: SeverityError, Message: err.Error()}
	var pe *document.ParseError
	if errors.As(err, &pe) {
		p.Line, p.Column, p.Message = pe.Line, pe.Column, pe.Msg
	}
	return p
}

// schemaWarnings reports elements the catalog has no type for at their
// position, with a spelling suggestion where one is close.
func (v *View) schemaWarnings(text string, doc *document.Document) []Problem {
	var out []Problem
	doc.Walk(func(n *document.Node, _ int) bool {
		if _, ok := document.TypeIn(doc, v.catalog, n.ID); ok {
			return true
		}
		where := "as the root element"
		if p := doc.Node(n.Parent); p != nil {
			where = "under <" + p.Name.Local + ">"
		}
		msg := fmt.Sprintf("<%s> is not allowed %s", n.Name.Local, where)
		if s := v.speller.SpellCheck(n.Name.Local); s != "" && s != n.Name.Local {
			msg += fmt.Sprintf("; did you mean <%s>?", s)
		} else if n.Name.Space != v.namespace() {
			msg += fmt.Sprintf(" (namespace %q)", n.Name.Space)
		}
		p := Problem{Severity: SeverityWarning, Message: msg}
		if off, ok := selection.OffsetOf(text, doc, n.ID); ok {
			pos := v.buf.PositionAt(off)
			p.Line, p.Column = pos.Line+1, pos.Col+1
		}
		out = append(out, p)
		// Descendants of an unknown element cannot resolve either.
		return false
	})
	return out
}

func (v *View) namespace() string {
	if root := v.catalog.Root(); root != nil {
		return root.Tag.Space
	}
	return ""
}
