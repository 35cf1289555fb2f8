package main

import (
	"fmt"
	"log"
	"os"

	"github.com/woozymasta/dzmeasure/assets"

	"github.com/jessevdk/go-flags"
)

type Options struct {
	Output string `short:"o" long:"out"   description:"Output HTML file" default:"index.html"`
	Title  string `short:"t" long:"title" description:"Page title"       default:"Map measure"`
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

	page, err := assets.Build(opts.Title)
	if err != nil {
		log.Fatal("error build page:", err)
	}

	err = os.WriteFile(opts.Output, page.Index, 0644)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("minify done: %s (%d bytes)\n", opts.Output, len(page.Index))
}
