package protocol

import (
	"funkokeeper/internal/domain/funko"
)

// Kind is the operation a request asks for.
type Kind string

const (
	KindAdd    Kind = "add"
	KindRead   Kind = "read"
	KindUpdate Kind = "update"
	KindRemove Kind = "remove"
	KindList   Kind = "list"

	// KindUnknown is echoed when the operation of a malformed request cannot be recovered.
	KindUnknown Kind = "unknown"
)

// Valid reports whether k is one of the five operations.
func (k Kind) Valid() bool {
	switch k {
	case KindAdd, KindRead, KindUpdate, KindRemove, KindList:
		return true
	}
	return false
}

// Request is the envelope a client sends.
type Request struct {
	Type     Kind      `json:"type"`
	User     string    `json:"user"`
	FunkoPop []Payload `json:"funkoPop,omitempty"`
}

// Payload is a full or partial funko as it travels on the wire.
// A nil field was not supplied by the client.
type Payload struct {
	ID              *int         `json:"id,omitempty"`
	Name            *string      `json:"name,omitempty"`
	Description     *string      `json:"description,omitempty"`
	Type            *funko.Type  `json:"type,omitempty"`
	Genre           *funko.Genre `json:"genre,omitempty"`
	Franchise       *string      `json:"franchise,omitempty"`
	Number          *int         `json:"number,omitempty"`
	Exclusive       *bool        `json:"exclusive,omitempty"`
	SpecialFeatures *string      `json:"specialFeatures,omitempty"`
	MarketValue     *float64     `json:"marketValue,omitempty"`
}

// Response is the envelope the server answers with.
type Response struct {
	Type      Kind          `json:"type"`
	Success   bool          `json:"success"`
	Message   string        `json:"message,omitempty"`
	FunkoPops []funko.Funko `json:"funkoPops,omitempty"`
}

// NewPayload converts a stored funko into a full payload.
func NewPayload(f funko.Funko) Payload {
	return Payload{
		ID:              &f.ID,
		Name:            &f.Name,
		Description:     &f.Description,
		Type:            &f.Type,
		Genre:           &f.Genre,
		Franchise:       &f.Franchise,
		Number:          &f.Number,
		Exclusive:       &f.Exclusive,
		SpecialFeatures: &f.SpecialFeatures,
		MarketValue:     &f.MarketValue,
	}
}

// IDOrZero returns the addressed id, zero when absent.
func (p Payload) IDOrZero() int {
	if p.ID == nil {
		return 0
	}
	return *p.ID
}

// ToFunko builds a full record; missing fields take their zero value.
func (p Payload) ToFunko() funko.Funko {
	f := funko.Funko{ID: p.IDOrZero()}
	return p.ToPatch().Apply(f)
}

// ToPatch keeps only the supplied fields. The id is never part of the patch.
func (p Payload) ToPatch() funko.Patch {
	return funko.Patch{
		Name:            p.Name,
		Description:     p.Description,
		Type:            p.Type,
		Genre:           p.Genre,
		Franchise:       p.Franchise,
		Number:          p.Number,
		Exclusive:       p.Exclusive,
		SpecialFeatures: p.SpecialFeatures,
		MarketValue:     p.MarketValue,
	}
}
