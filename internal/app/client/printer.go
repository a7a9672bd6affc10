package client

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"funkokeeper/internal/domain/funko"
	"funkokeeper/internal/protocol"
)

const separator = "--------------------------------"

// Printer renders responses for a terminal.
type Printer struct {
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Response prints the server message followed by any returned funkos.
func (p *Printer) Response(resp protocol.Response) {
	if resp.Message != "" {
		if resp.Success {
			fmt.Fprintln(p.out, color.GreenString(resp.Message))
		} else {
			fmt.Fprintln(p.out, color.RedString(resp.Message))
		}
	}

	if len(resp.FunkoPops) == 0 {
		return
	}
	fmt.Fprintln(p.out, color.BlueString(separator))
	for _, f := range resp.FunkoPops {
		p.Funko(f)
		fmt.Fprintln(p.out, color.BlueString(separator))
	}
}

// Funko prints every field of f, market value colored by its tier.
func (p *Printer) Funko(f funko.Funko) {
	exclusive := "No"
	if f.Exclusive {
		exclusive = "Yes"
	}
	features := f.SpecialFeatures
	if features == "" {
		features = "None"
	}

	rows := []struct{ label, value string }{
		{"ID", strconv.Itoa(f.ID)},
		{"Name", f.Name},
		{"Description", f.Description},
		{"Type", f.Type.String()},
		{"Genre", f.Genre.String()},
		{"Franchise", f.Franchise},
		{"Number", strconv.Itoa(f.Number)},
		{"Exclusive", exclusive},
		{"Special features", features},
	}
	for _, r := range rows {
		fmt.Fprintf(p.out, "  %s\n", color.GreenString("%s: %s", r.label, r.value))
	}
	fmt.Fprintf(p.out, "  %s %s\n", color.GreenString("Market value:"), MarketValueColor(f.MarketValue).Sprintf("$%g", f.MarketValue))
}

// MarketValueColor picks the tier color: green from 100, yellow from 50,
// magenta from 20, red below.
func MarketValueColor(v float64) *color.Color {
	switch {
	case v >= 100:
		return color.New(color.FgGreen)
	case v >= 50:
		return color.New(color.FgYellow)
	case v >= 20:
		return color.New(color.FgMagenta)
	default:
		return color.New(color.FgRed)
	}
}
