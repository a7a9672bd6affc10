package funko

import (
	"math"
	"strings"
)

// ValidateUser checks that a user identifier can name a collection.
func ValidateUser(user string) error {
	switch {
	case strings.TrimSpace(user) == "":
		return validationError("user must not be empty")
	case user == "." || user == "..":
		return validationError("invalid user %q", user)
	case strings.ContainsAny(user, `/\`+"\x00"):
		return validationError("user %q must not contain path separators", user)
	}
	return nil
}

// ValidateID checks that id can address a funko.
func ValidateID(id int) error {
	if id <= 0 {
		return validationError("Funko ID must be a positive integer, got %d", id)
	}
	return nil
}

// ValidateMarketValue checks that a market value is a positive number.
func ValidateMarketValue(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return validationError("market value must be a positive number")
	}
	return nil
}

// ValidateType checks that t is one of the known product lines.
func ValidateType(t Type) error {
	if err := t.Validate(); err != nil {
		return &DomainError{Err: ErrValidation, Message: err.Error()}
	}
	return nil
}

// ValidateGenre checks that g is one of the known genres.
func ValidateGenre(g Genre) error {
	if err := g.Validate(); err != nil {
		return &DomainError{Err: ErrValidation, Message: err.Error()}
	}
	return nil
}

// ValidateNew runs the checks required before a funko is added.
func ValidateNew(f Funko) error {
	if err := ValidateID(f.ID); err != nil {
		return err
	}
	if err := ValidateMarketValue(f.MarketValue); err != nil {
		return err
	}
	if err := ValidateType(f.Type); err != nil {
		return err
	}
	return ValidateGenre(f.Genre)
}

// ValidatePatch runs the checks on the fields an update supplies.
func ValidatePatch(p Patch) error {
	if p.MarketValue != nil {
		if err := ValidateMarketValue(*p.MarketValue); err != nil {
			return err
		}
	}
	if p.Type != nil {
		if err := ValidateType(*p.Type); err != nil {
			return err
		}
	}
	if p.Genre != nil {
		if err := ValidateGenre(*p.Genre); err != nil {
			return err
		}
	}
	return nil
}
