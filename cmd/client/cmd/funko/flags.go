package funko

import (
	"errors"
	"fmt"

	"funkokeeper/internal/app/client"
	"funkokeeper/internal/domain/funko"
	"funkokeeper/internal/protocol"

	"github.com/spf13/cobra"
)

// fields holds the record flags shared by add and update.
type fields struct {
	name            string
	description     string
	typ             string
	genre           string
	franchise       string
	number          int
	exclusive       bool
	specialFeatures string
	marketValue     float64
}

func addUserFlag(cmd *cobra.Command, user *string) {
	cmd.Flags().StringVarP(user, "user", "u", "", "owner of the collection")
	_ = cmd.MarkFlagRequired("user")
}

func addIDFlag(cmd *cobra.Command, id *int) {
	cmd.Flags().IntVar(id, "id", 0, "Funko ID")
	_ = cmd.MarkFlagRequired("id")
}

func (f *fields) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "Funko name")
	cmd.Flags().StringVar(&f.description, "description", "", "Funko description")
	cmd.Flags().StringVar(&f.typ, "type", "", "Funko type, e.g. \"Pop! Star Wars\"")
	cmd.Flags().StringVar(&f.genre, "genre", "", "Funko genre, e.g. \"Star Wars\"")
	cmd.Flags().StringVar(&f.franchise, "franchise", "", "franchise the Funko belongs to")
	cmd.Flags().IntVar(&f.number, "number", 0, "number inside the franchise")
	cmd.Flags().BoolVar(&f.exclusive, "exclusive", false, "the Funko is an exclusive")
	cmd.Flags().StringVar(&f.specialFeatures, "special-features", "", "special features, e.g. glows in the dark")
	cmd.Flags().Float64Var(&f.marketValue, "market-value", 0, "market value in dollars")
}

// funko builds a full record from every flag.
func (f *fields) funko(id int) funko.Funko {
	return funko.Funko{
		ID:              id,
		Name:            f.name,
		Description:     f.description,
		Type:            funko.Type(f.typ),
		Genre:           funko.Genre(f.genre),
		Franchise:       f.franchise,
		Number:          f.number,
		Exclusive:       f.exclusive,
		SpecialFeatures: f.specialFeatures,
		MarketValue:     f.marketValue,
	}
}

// payload keeps only the flags the user actually set.
func (f *fields) payload(cmd *cobra.Command, id int) protocol.Payload {
	p := protocol.Payload{ID: &id}
	set := cmd.Flags().Changed

	if set("name") {
		p.Name = &f.name
	}
	if set("description") {
		p.Description = &f.description
	}
	if set("type") {
		t := funko.Type(f.typ)
		p.Type = &t
	}
	if set("genre") {
		g := funko.Genre(f.genre)
		p.Genre = &g
	}
	if set("franchise") {
		p.Franchise = &f.franchise
	}
	if set("number") {
		p.Number = &f.number
	}
	if set("exclusive") {
		p.Exclusive = &f.exclusive
	}
	if set("special-features") {
		p.SpecialFeatures = &f.specialFeatures
	}
	if set("market-value") {
		p.MarketValue = &f.marketValue
	}
	return p
}

func appFrom(cmd *cobra.Command) (*client.App, error) {
	app, ok := client.FromContext(cmd.Context())
	if !ok {
		return nil, errors.New("client is not initialized")
	}
	return app, nil
}

// report prints a response; a rejected request is returned as the command error.
func report(cmd *cobra.Command, resp protocol.Response, err error) error {
	if errors.Is(err, client.ErrRejected) {
		return fmt.Errorf("%s", resp.Message)
	}
	if err != nil {
		return err
	}
	client.NewPrinter(cmd.OutOrStdout()).Response(resp)
	return nil
}
