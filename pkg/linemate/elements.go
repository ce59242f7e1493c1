package linemate

import (
	"fmt"

	"linemate/pkg/css"
	"linemate/pkg/html"
)

// resolve turns the accepted element forms into nodes: a slice of nodes, a
// selector matched against the whole document, or a list of selectors
// each naming its first match.
func (s *Session) resolve(elements any) ([]*html.Node, error) {
	switch e := elements.(type) {
	case nil:
		return nil, ErrNoElements
	case []*html.Node:
		for i, n := range e {
			if n == nil {
				return nil, fmt.Errorf("%w: element %d is nil", ErrInvalidElements, i)
			}
		}
		return e, nil
	case *html.Node:
		return []*html.Node{e}, nil
	case string:
		nodes, err := css.QueryAll(s.doc.Root, e)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %w", ErrInvalidQuery, e, err)
		}
		if len(nodes) == 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidQuery, e)
		}
		return nodes, nil
	case []string:
		nodes := make([]*html.Node, 0, len(e))
		for _, sel := range e {
			n, err := css.Query(s.doc.Root, sel)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", ErrInvalidQuery, sel, err)
			}
			if n == nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidQuery, sel)
			}
			nodes = append(nodes, n)
		}
		return nodes, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrInvalidElements, elements)
}
