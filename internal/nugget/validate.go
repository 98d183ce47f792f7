package nugget

import (
	"errors"
	"fmt"
)

// Validation errors.
var (
	ErrMissingID         = errors.New("episode id is required")
	ErrMissingContent    = errors.New("nugget needs content or a headline")
	ErrInvalidType       = errors.New("invalid nugget type")
	ErrInvalidStars      = errors.New("stars must be 1, 2 or 3")
	ErrInvalidImportance = errors.New("importance must be between 1 and 5")
)

const (
	MinStars      = 1
	MaxStars      = 3
	MinImportance = 1
	MaxImportance = 5
)

// ValidateStars checks a personal rating. Out-of-range values are rejected,
// never clamped.
func ValidateStars(stars int) error {
	if stars < MinStars || stars > MaxStars {
		return fmt.Errorf("%w: got %d", ErrInvalidStars, stars)
	}
	return nil
}

// ValidateImportance checks an AI-assigned importance score.
func ValidateImportance(importance int) error {
	if importance < MinImportance || importance > MaxImportance {
		return fmt.Errorf("%w: got %d", ErrInvalidImportance, importance)
	}
	return nil
}

// Validate checks the nugget invariants. An unknown type is tolerated and
// read as an insight; a missing importance means the default applies.
func (n *Nugget) Validate() error {
	if n.Content == "" && n.Headline == "" {
		return ErrMissingContent
	}
	if n.Stars != nil {
		if err := ValidateStars(*n.Stars); err != nil {
			return err
		}
	}
	if n.Importance != nil {
		if err := ValidateImportance(*n.Importance); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStrict is Validate plus a check that any explicit type is known.
// It guards records written for the first time.
func (n *Nugget) ValidateStrict() error {
	if err := n.Validate(); err != nil {
		return err
	}
	if n.Type != "" && !n.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, n.Type)
	}
	return nil
}

// Validate checks the episode and every nugget it holds.
func (e *Episode) Validate() error {
	if e.ID == "" {
		return ErrMissingID
	}
	for _, loc := range e.Flatten() {
		if err := loc.Nugget.Validate(); err != nil {
			return fmt.Errorf("nugget %d: %w", loc.Position, err)
		}
	}
	return nil
}

// ValidateStrict checks the episode like Validate and also rejects unknown
// nugget types.
func (e *Episode) ValidateStrict() error {
	if e.ID == "" {
		return ErrMissingID
	}
	for _, loc := range e.Flatten() {
		if err := loc.Nugget.ValidateStrict(); err != nil {
			return fmt.Errorf("nugget %d: %w", loc.Position, err)
		}
	}
	return nil
}

// SetStars sets the personal rating after validating it.
func (n *Nugget) SetStars(stars int) error {
	if err := ValidateStars(stars); err != nil {
		return err
	}
	n.Stars = &stars
	return nil
}
