package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kingpin/v2"

	"github.com/eugenenazirov/sizepack/internal/config"
	"github.com/eugenenazirov/sizepack/internal/optimizer"
	"github.com/eugenenazirov/sizepack/internal/render"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "quote: %v\n", err)
		os.Exit(1)
	}
}

// run computes a single quote from size=quantity arguments and writes the rendered report to out.
func run(args []string, out io.Writer) error {
	kingpinApp := kingpin.New("sizepack-quote", "Quote a garment purchase and recommend completing packs")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	packPrice := kingpinApp.Flag("pack-price", "Price of one pack").String()
	unitPrice := kingpinApp.Flag("unit-price", "Price of one loose unit").String()
	unitsPerPack := kingpinApp.Flag("units-per-pack", "Number of units in a pack").Default("0").Int()
	format := kingpinApp.Flag("format", "Output format").Default(render.FormatText).Enum(render.FormatText, render.FormatJSON)
	items := kingpinApp.Arg("quantities", "Requested quantities as size=quantity, e.g. m=9 s=2").Strings()

	if _, err := kingpinApp.Parse(args); err != nil {
		return err
	}

	overrides := &config.CLIOverrides{ConfigFile: *configFile}
	if *packPrice != "" {
		overrides.PackPrice = packPrice
	}
	if *unitPrice != "" {
		overrides.UnitPrice = unitPrice
	}
	if *unitsPerPack > 0 {
		overrides.UnitsPerPack = unitsPerPack
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	quantities, err := parseQuantities(*items)
	if err != nil {
		return err
	}

	renderer, err := render.ForFormat(*format, cfg.Prices)
	if err != nil {
		return err
	}
	report, err := renderer.Render(optimizer.New().Compute(quantities, cfg.Prices))
	if err != nil {
		return err
	}

	_, err = io.WriteString(out, report)
	return err
}

// parseQuantities sums repeated sizes, so m=3 m=2 requests five units of M.
func parseQuantities(items []string) (optimizer.Quantities, error) {
	quantities := make(optimizer.Quantities, len(items))
	for _, item := range items {
		label, qty, ok := strings.Cut(item, "=")
		if !ok {
			return nil, fmt.Errorf("invalid quantity %q, expected size=quantity", item)
		}
		size, err := optimizer.ParseSize(label)
		if err != nil {
			return nil, err
		}
		if err := quantities.Add(size, optimizer.ParseQuantity(qty)); err != nil {
			return nil, err
		}
	}
	return quantities, nil
}
