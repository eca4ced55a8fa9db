package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound       = errors.New("catalog: document not found")
	ErrEmptyDocument      = fmt.Errorf("%w: empty document", ErrFileNotFound)
	ErrMalformedDocument  = errors.New("catalog: malformed document")
	ErrUnsupportedFormat  = errors.New("catalog: unsupported format")
	ErrUnknownFixtureType = errors.New("catalog: unknown fixture type")
	ErrInvalidGeometry    = errors.New("catalog: invalid geometry")
	ErrInvalidScale       = fmt.Errorf("%w: invalid scale factor", ErrInvalidGeometry)
	ErrInvalidMaterial    = errors.New("catalog: invalid material")
)
