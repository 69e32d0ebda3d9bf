package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/eugenenazirov/sizepack/internal/optimizer"
)

// ErrUnknownFormat is returned when no renderer is registered for the requested format.
var ErrUnknownFormat = errors.New("format must be one of text, json")

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Renderer converts a computed result into a displayable form.
type Renderer interface {
	Render(result optimizer.Result) (string, error)
}

// ForFormat returns the renderer registered for name.
func ForFormat(name string, prices optimizer.PriceSchedule) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatText:
		return NewTextRenderer(prices), nil
	case FormatJSON:
		return JSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}
