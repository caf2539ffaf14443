package main

import (
	"context"
	"flag"
	"os"

	"github.com/louisbranch/pageslots/internal/platform/config"
	"github.com/louisbranch/pageslots/internal/tools/slotimport"
)

func main() {
	cfg, err := slotimport.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("Error: %v", err)
	}

	if err := slotimport.Run(context.Background(), cfg, os.Stdout); err != nil {
		config.Exitf("Error: %v", err)
	}
}
