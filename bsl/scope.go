package bsl

import (
	"fmt"

	"github.com/gogpu/beans/ir"
)

// scopeStack tracks visible variables. Locals live in one arena and a
// scope is the arena length saved when it was opened, so leaving a scope
// truncates everything declared inside it.
type scopeStack struct {
	locals   *ir.Arena[*ir.Local]
	marks    []int
	maxDepth int
}

func newScopeStack(limits ir.Limits) *scopeStack {
	return &scopeStack{
		locals:   ir.NewArena[*ir.Local]("local variables", limits.Locals),
		maxDepth: limits.ScopeDepth,
	}
}

func (s *scopeStack) push() error {
	if len(s.marks)+1 > s.maxDepth {
		return &ir.LimitError{What: "nested scopes", Limit: s.maxDepth}
	}
	s.marks = append(s.marks, s.locals.Len())
	return nil
}

func (s *scopeStack) pop() error {
	if len(s.marks) == 0 {
		return fmt.Errorf("scope stack underflow")
	}
	mark := s.marks[len(s.marks)-1]
	if s.locals.Len() < mark {
		return fmt.Errorf("scope stack shrank below its marker (%d < %d)", s.locals.Len(), mark)
	}
	s.marks = s.marks[:len(s.marks)-1]
	s.locals.Truncate(mark)
	return nil
}

func (s *scopeStack) add(local *ir.Local) error {
	_, err := s.locals.Append(local)
	return err
}

// lookup finds the innermost visible variable called name.
func (s *scopeStack) lookup(name string) *ir.Local {
	locals := s.locals.Items()
	for i := len(locals) - 1; i >= 0; i-- {
		if l := *locals[i]; l.Name == name {
			return l
		}
	}
	return nil
}
