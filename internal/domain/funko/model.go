package funko

// Funko is one collectible stored in a user's collection.
type Funko struct {
	ID              int     `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description"`
	Type            Type    `json:"type"`
	Genre           Genre   `json:"genre"`
	Franchise       string  `json:"franchise"`
	Number          int     `json:"number"`
	Exclusive       bool    `json:"exclusive"`
	SpecialFeatures string  `json:"specialFeatures"`
	MarketValue     float64 `json:"marketValue"`
}

// Patch carries the fields of an update request. Nil fields keep the stored value.
// The record id is addressed separately and can never be changed through a Patch.
type Patch struct {
	Name            *string
	Description     *string
	Type            *Type
	Genre           *Genre
	Franchise       *string
	Number          *int
	Exclusive       *bool
	SpecialFeatures *string
	MarketValue     *float64
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Type == nil && p.Genre == nil &&
		p.Franchise == nil && p.Number == nil && p.Exclusive == nil &&
		p.SpecialFeatures == nil && p.MarketValue == nil
}

// Apply returns a copy of f with the supplied fields overridden.
func (p Patch) Apply(f Funko) Funko {
	if p.Name != nil {
		f.Name = *p.Name
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.Type != nil {
		f.Type = *p.Type
	}
	if p.Genre != nil {
		f.Genre = *p.Genre
	}
	if p.Franchise != nil {
		f.Franchise = *p.Franchise
	}
	if p.Number != nil {
		f.Number = *p.Number
	}
	if p.Exclusive != nil {
		f.Exclusive = *p.Exclusive
	}
	if p.SpecialFeatures != nil {
		f.SpecialFeatures = *p.SpecialFeatures
	}
	if p.MarketValue != nil {
		f.MarketValue = *p.MarketValue
	}
	return f
}

// ListResult distinguishes an empty collection from a populated one.
// An absent collection is reported through ErrCollectionNotFound instead.
type ListResult struct {
	Funkos []Funko
	Empty  bool
}
