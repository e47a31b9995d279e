package main

import (
	"context"
	"os"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/sonnes/callscope/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	a := &app{
		cfg:   cfg,
		in:    os.Stdin,
		out:   os.Stdout,
		stdin: func() bool { return !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) },
	}

	if err := a.root().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
