package color_preset

import (
	"errors"
	"regexp"

	"github.com/google/uuid"
)

var (
	ErrColorPresetNotFound = errors.New("color preset not found")
	ErrInvalidColorPreset  = errors.New("invalid color preset")
	ErrInvalidOrder        = errors.New("order must list every color preset exactly once")
)

// ColorPreset is a user-labelled color events can be tagged with.
type ColorPreset struct {
	ID         uuid.UUID
	Label      string
	Color      string
	OrderIndex int
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func (p ColorPreset) Validate() error {
	if !hexColor.MatchString(p.Color) {
		return ErrInvalidColorPreset
	}
	return nil
}
