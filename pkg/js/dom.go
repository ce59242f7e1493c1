package js

import (
	"strings"

	"linemate/pkg/css"
	"linemate/pkg/html"

	"github.com/dop251/goja"
)

// domContext holds shared state for DOM bindings. It keeps one proxy per
// node so that === holds between lookups of the same element.
type domContext struct {
	vm      *goja.Runtime
	doc     *html.Document
	proxies map[*html.Node]*goja.Object
	nodes   map[*goja.Object]*html.Node
}

func newDOMContext(vm *goja.Runtime, doc *html.Document) *domContext {
	return &domContext{
		vm:      vm,
		doc:     doc,
		proxies: make(map[*html.Node]*goja.Object),
		nodes:   make(map[*goja.Object]*html.Node),
	}
}

// registerDocument sets up the global `document` object.
func registerDocument(vm *goja.Runtime, doc *html.Document) *domContext {
	ctx := newDOMContext(vm, doc)

	docObj := vm.NewObject()
	docObj.Set("getElementById", func(call goja.FunctionCall) goja.Value {
		node := doc.ElementByID(call.Argument(0).String())
		if node == nil {
			return goja.Null()
		}
		return ctx.elementProxy(node)
	})
	docObj.Set("createElement", func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(vm.NewTypeError("Failed to execute 'createElement' on 'Document': 1 argument required"))
		}
		return ctx.elementProxy(html.NewElement(call.Arguments[0].String(), nil))
	})
	docObj.Set("querySelector", ctx.querySelectorFn(doc.Root))
	docObj.Set("querySelectorAll", ctx.querySelectorAllFn(doc.Root))
	docObj.Set("body", ctx.elementProxy(doc.Body()))

	vm.Set("document", docObj)
	return ctx
}

// elementArray creates a JS array of Element proxies.
func (ctx *domContext) elementArray(nodes []*html.Node) goja.Value {
	values := make([]any, len(nodes))
	for i, n := range nodes {
		values[i] = ctx.elementProxy(n)
	}
	return ctx.vm.NewArray(values...)
}

// elementProxy creates (or retrieves) a DynamicObject wrapping node.
func (ctx *domContext) elementProxy(node *html.Node) *goja.Object {
	if obj, ok := ctx.proxies[node]; ok {
		return obj
	}
	obj := ctx.vm.NewDynamicObject(&elementAccessor{ctx: ctx, node: node})
	ctx.proxies[node] = obj
	ctx.nodes[obj] = node
	return obj
}

// unwrapNode returns the node behind an element proxy, or nil.
func (ctx *domContext) unwrapNode(val goja.Value) *html.Node {
	if val == nil || goja.IsNull(val) || goja.IsUndefined(val) {
		return nil
	}
	obj, ok := val.(*goja.Object)
	if !ok {
		return nil
	}
	return ctx.nodes[obj]
}

func (ctx *domContext) querySelectorFn(root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelector': 1 argument required"))
		}
		n, err := css.Query(root, call.Arguments[0].String())
		if err != nil {
			panic(ctx.vm.NewTypeError(err.Error()))
		}
		if n == nil {
			return goja.Null()
		}
		return ctx.elementProxy(n)
	}
}

func (ctx *domContext) querySelectorAllFn(root *html.Node) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) == 0 {
			panic(ctx.vm.NewTypeError("Failed to execute 'querySelectorAll': 1 argument required"))
		}
		nodes, err := css.QueryAll(root, call.Arguments[0].String())
		if err != nil {
			panic(ctx.vm.NewTypeError(err.Error()))
		}
		return ctx.elementArray(nodes)
	}
}

// elementAccessor implements goja.DynamicObject for element proxies.
type elementAccessor struct {
	ctx  *domContext
	node *html.Node
}

var elementKeys = []string{
	"tagName", "id", "className", "textContent",
	"getAttribute", "setAttribute", "hasAttribute", "removeAttribute",
	"children", "parentElement", "style", "appendChild", "remove",
	"querySelector", "querySelectorAll",
}

func (e *elementAccessor) Get(key string) goja.Value {
	vm := e.ctx.vm

	switch key {
	case "tagName":
		return vm.ToValue(strings.ToUpper(e.node.TagName))
	case "id":
		id, _ := e.node.GetAttribute("id")
		return vm.ToValue(id)
	case "className":
		cls, _ := e.node.GetAttribute("class")
		return vm.ToValue(cls)
	case "textContent":
		return vm.ToValue(textContent(e.node))
	case "getAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			val, ok := e.node.GetAttribute(call.Argument(0).String())
			if !ok {
				return goja.Null()
			}
			return vm.ToValue(val)
		})
	case "setAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if len(call.Arguments) < 2 {
				panic(vm.NewTypeError("Failed to execute 'setAttribute': 2 arguments required"))
			}
			e.node.SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
			return goja.Undefined()
		})
	case "hasAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			_, ok := e.node.GetAttribute(call.Argument(0).String())
			return vm.ToValue(ok)
		})
	case "removeAttribute":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			e.node.RemoveAttribute(call.Argument(0).String())
			return goja.Undefined()
		})
	case "children":
		var elChildren []*html.Node
		for _, child := range e.node.Children {
			if child.Type == html.ElementNode {
				elChildren = append(elChildren, child)
			}
		}
		return e.ctx.elementArray(elChildren)
	case "parentElement":
		if p := e.node.Parent; p != nil && p.TagName != "document" {
			return e.ctx.elementProxy(p)
		}
		return goja.Null()
	case "style":
		return vm.NewDynamicObject(&styleAccessor{vm: vm, node: e.node})
	case "appendChild":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			child := e.ctx.unwrapNode(call.Argument(0))
			if child == nil {
				panic(vm.NewTypeError("Failed to execute 'appendChild': parameter 1 is not an element"))
			}
			e.node.AddChild(child)
			return call.Argument(0)
		})
	case "remove":
		return vm.ToValue(func(call goja.FunctionCall) goja.Value {
			if e.node.Parent != nil {
				e.node.Parent.RemoveChild(e.node)
			}
			return goja.Undefined()
		})
	case "querySelector":
		return vm.ToValue(e.ctx.querySelectorFn(e.node))
	case "querySelectorAll":
		return vm.ToValue(e.ctx.querySelectorAllFn(e.node))
	}
	// nil defers to the prototype chain.
	return nil
}

func (e *elementAccessor) Set(key string, val goja.Value) bool {
	switch key {
	case "id":
		e.node.SetAttribute("id", val.String())
		return true
	case "className":
		e.node.SetAttribute("class", val.String())
		return true
	}
	return false
}

func (e *elementAccessor) Has(key string) bool {
	for _, k := range elementKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (e *elementAccessor) Delete(key string) bool { return false }
func (e *elementAccessor) Keys() []string         { return elementKeys }

func textContent(node *html.Node) string {
	if node.Type == html.TextNode {
		return node.Text
	}
	var sb strings.Builder
	for _, child := range node.Children {
		sb.WriteString(textContent(child))
	}
	return sb.String()
}

// styleAccessor maps camelCase property access onto the inline style
// attribute, so scripts can move elements between connector calls.
type styleAccessor struct {
	vm   *goja.Runtime
	node *html.Node
}

func (s *styleAccessor) declarations() ([]string, map[string]string) {
	attr, _ := s.node.GetAttribute("style")
	var order []string
	values := make(map[string]string)
	for _, decl := range strings.Split(attr, ";") {
		prop, val, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.TrimSpace(prop)
		if _, seen := values[prop]; !seen {
			order = append(order, prop)
		}
		values[prop] = strings.TrimSpace(val)
	}
	return order, values
}

func (s *styleAccessor) write(order []string, values map[string]string) {
	parts := make([]string, 0, len(order))
	for _, prop := range order {
		if val, ok := values[prop]; ok {
			parts = append(parts, prop+": "+val)
		}
	}
	s.node.SetAttribute("style", strings.Join(parts, "; "))
}

func (s *styleAccessor) Get(key string) goja.Value {
	_, values := s.declarations()
	return s.vm.ToValue(values[camelToKebab(key)])
}

func (s *styleAccessor) Set(key string, val goja.Value) bool {
	prop := camelToKebab(key)
	order, values := s.declarations()
	if _, ok := values[prop]; !ok {
		order = append(order, prop)
	}
	values[prop] = val.String()
	s.write(order, values)
	return true
}

func (s *styleAccessor) Has(key string) bool { return true }

func (s *styleAccessor) Delete(key string) bool {
	order, values := s.declarations()
	delete(values, camelToKebab(key))
	s.write(order, values)
	return true
}

func (s *styleAccessor) Keys() []string {
	order, _ := s.declarations()
	return order
}

// camelToKebab converts a JS camelCase property name to CSS kebab-case.
func camelToKebab(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			sb.WriteByte('-')
			sb.WriteRune(r + ('a' - 'A'))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
