package js

import (
	"fmt"
	"io"
	"os"

	"linemate/pkg/linemate"

	"github.com/dop251/goja"
)

// Engine executes a document's scripts with `document`, `console` and
// `linemate` globals bound to one session.
type Engine struct {
	vm      *goja.Runtime
	session *linemate.Session
	dom     *domContext
}

// New creates a new JS engine with a fresh goja runtime. Console output
// goes to stdout and stderr.
func New(s *linemate.Session) *Engine {
	return NewWithOutput(s, os.Stdout, os.Stderr)
}

func NewWithOutput(s *linemate.Session, stdout, stderr io.Writer) *Engine {
	vm := goja.New()
	e := &Engine{vm: vm, session: s}

	c := &consoleAPI{out: stdout, errOut: stderr}
	c.register(vm)

	e.dom = registerDocument(vm, s.Document())
	registerLinemate(e.dom, s)
	return e
}

// Execute runs all scripts from the session's document in order. Any JS
// errors are returned but callers may choose to log and continue rather
// than fail.
func (e *Engine) Execute() error {
	for i, script := range e.session.Document().Scripts {
		if _, err := e.vm.RunString(script); err != nil {
			return fmt.Errorf("script %d: %w", i, err)
		}
	}
	return nil
}

// Run evaluates a single snippet.
func (e *Engine) Run(src string) (goja.Value, error) {
	return e.vm.RunString(src)
}
