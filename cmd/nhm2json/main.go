package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/woozymasta/faultmap/internal/fault"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

type Options struct {
	Input    string   `short:"i" long:"in"        description:"Input NHM fault model file. Reads from stdin if empty"`
	Output   string   `short:"o" long:"out"       description:"Output file path. Writes to stdout if empty"`
	Format   string   `short:"f" long:"format"    description:"Output format" choice:"json" choice:"yaml" default:"json"`
	Video    string   `short:"v" long:"video"     description:"Simulation video URL assigned to every fault" default:"https://www.youtube.com/watch?v=qZkOTI4x_cc"`
	Only     []string `short:"n" long:"name"      description:"Only convert faults with this name (repeatable)"`
	SkipRows int      `short:"s" long:"skip-rows" description:"Header lines to skip" default:"15"`
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

	// Read Input
	var in io.Reader = os.Stdin
	if opts.Input != "" {
		f, err := os.Open(opts.Input)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input file: %v\n", err)
			os.Exit(1)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	faults, err := fault.ParseNHM(in, opts.SkipRows)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing NHM: %v\n", err)
		os.Exit(1)
	}

	records := selectRecords(faults, opts.Only, opts.Video)

	for _, r := range records {
		if len(r.Traces) < 2 {
			fmt.Fprintf(os.Stderr, "Warning: %s has %d trace points and will be skipped by the map\n", r.Name, len(r.Traces))
		}
	}

	// marshal
	var outputData []byte
	if opts.Format == "yaml" {
		outputData, err = yaml.Marshal(records)
	} else {
		outputData, err = json.MarshalIndent(records, "", "  ")
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
		fmt.Fprintf(os.Stderr, "Successfully converted %d faults to %s (format: %s)\n", len(records), opts.Output, opts.Format)
	} else {
		fmt.Println(string(outputData))
	}
}

// selectRecords converts faults to feed records, keeping file order.
// With a non-empty name list, only listed faults are kept, in list order.
func selectRecords(faults []fault.NHMFault, names []string, video string) []fault.Record {
	if len(names) == 0 {
		records := make([]fault.Record, 0, len(faults))
		for _, f := range faults {
			records = append(records, f.Record(video))
		}
		return records
	}

	byName := make(map[string]fault.NHMFault, len(faults))
	for _, f := range faults {
		byName[f.Name] = f
	}

	seen := make(map[string]bool)
	records := make([]fault.Record, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		f, ok := byName[name]
		if !ok {
			fmt.Fprintf(os.Stderr, "Warning: fault %q not found in model\n", name)
			continue
		}
		records = append(records, f.Record(video))
	}

	return records
}
