package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/dzmeasure/internal/draw"
	"github.com/woozymasta/dzmeasure/internal/geo"
	"github.com/woozymasta/dzmeasure/internal/logger"
	"github.com/woozymasta/dzmeasure/internal/store"
	"github.com/woozymasta/dzmeasure/internal/surface"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Logger logger.Logger `group:"Logger options"`

	Input  string `short:"i" long:"in"     description:"Input GeoJSON file (Feature or Geometry). Reads from stdin if empty"`
	Output string `short:"o" long:"out"    description:"Output file path. Writes to stdout if empty"`
	Format string `short:"f" long:"format" description:"Output format" choice:"text" choice:"json" choice:"yaml" default:"text"`
}

// Result is the structured output.
type Result struct {
	Type    string  `json:"type" yaml:"type"`
	Kind    string  `json:"measurement" yaml:"measurement"`
	Value   float64 `json:"value" yaml:"value"`
	Unit    string  `json:"unit,omitempty" yaml:"unit,omitempty"`
	Display string  `json:"display" yaml:"display"`
}

func main() {
	var opts Options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	opts.Logger.Setup()

	// Read Input
	var inputData []byte
	var err error

	if opts.Input != "" {
		inputData, err = os.ReadFile(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
	} else {
		inputData, err = io.ReadAll(os.Stdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading stdin: %v\n", err)
			os.Exit(1)
		}
	}

	rec, err := geo.Decode(inputData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding GeoJSON: %v\n", err)
		os.Exit(1)
	}

	res, err := replay(rec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error measuring geometry: %v\n", err)
		os.Exit(1)
	}

	// marshal
	var outputData []byte
	switch opts.Format {
	case "yaml":
		outputData, err = yaml.Marshal(res)
	case "json":
		outputData, err = json.MarshalIndent(res, "", "  ")
	default:
		outputData = []byte(res.Display)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling data: %v\n", err)
		os.Exit(1)
	}

	if opts.Output != "" {
		err = os.WriteFile(opts.Output, outputData, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Measured %s to %s (format: %s)\n", rec.Type, opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

// replay drives the geometry through a full capture session on an
// in-memory surface, exactly as the web page would.
func replay(rec geo.Record) (Result, error) {
	mode, err := draw.ParseMode(string(rec.Type))
	if err != nil {
		return Result{}, err
	}

	mem := &surface.Memory{}
	display := &draw.TextDisplay{}
	ctrl := draw.NewController(mem, store.New(mem), display)

	if err := ctrl.SelectMode(mode); err != nil {
		return Result{}, err
	}
	if err := ctrl.AdapterReady(mem.Session()); err != nil {
		return Result{}, err
	}
	if err := ctrl.CaptureComplete(mem.Session(), rec); err != nil {
		return Result{}, err
	}

	m := display.Measurement()
	return Result{
		Type:    string(rec.Type),
		Kind:    m.KindName(),
		Value:   m.Value,
		Unit:    m.Unit(),
		Display: display.Text(),
	}, nil
}
