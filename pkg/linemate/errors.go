package linemate

import (
	"errors"

	"linemate/pkg/geom"
	"linemate/pkg/route"
)

var (
	ErrNoElements           = errors.New("no elements provided")
	ErrInsufficientElements = errors.New("at least two elements are required")
	ErrInvalidQuery         = errors.New("query matched no elements")
	ErrInvalidOptions       = errors.New("invalid options")
	ErrUnmeasured           = errors.New("element has no layout box")
	ErrInvalidElements      = errors.New("unsupported element list")

	ErrInvalidAnchor   = geom.ErrInvalidAnchor
	ErrInvalidStrategy = route.ErrInvalidStrategy
)
