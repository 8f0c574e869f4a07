package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spf13/afero"

	"github.com/DarthMotzkus/fixchecksum-md-sfc/cli"
)

func main() {
	dryRun := flag.Bool("n", false, "report stale checksums without writing")
	recursive := flag.Bool("r", false, "descend into subdirectories")
	verbose := flag.Bool("v", false, "report files skipped by the extension filter")
	configPath := flag.String("config", "fixchecksum.ini", "path to optional config file")
	flag.Parse()

	fs := afero.NewOsFs()

	opts, err := cli.LoadOptions(fs, *configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	opts.DryRun = *dryRun
	opts.Verbose = *verbose
	if *recursive {
		opts.Recursive = true
	}

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	runner := cli.NewRunner(fs, os.Stdout, opts)
	sum := runner.Run(paths)

	fmt.Printf("%d scanned: %d fixed, %d correct, %d unrecognized, %d failed\n",
		sum.Scanned, sum.Fixed, sum.Correct, sum.Unrecognized, sum.Failed)

	if sum.Failed > 0 {
		os.Exit(1)
	}
}
