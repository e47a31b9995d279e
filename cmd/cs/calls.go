package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func (a *app) callsCmd() *cli.Command {
	flags := append(a.inputFlags(),
		&cli.StringFlag{
			Name:  "name",
			Usage: "Show calls whose tool name contains this text",
		},
		&cli.StringFlag{
			Name:  "content",
			Usage: "Show calls whose turn mentions this text",
		},
		&cli.IntFlag{
			Name:  "select",
			Usage: "Index of the call to mark as selected",
		},
		&cli.BoolFlag{
			Name:  "group",
			Usage: "Always group calls under their turn",
		},
		&cli.BoolFlag{
			Name:  "args",
			Usage: "Print each call's arguments",
		},
		&cli.BoolFlag{
			Name:  "results",
			Usage: "Print each call's tool result",
		},
		&cli.IntFlag{
			Name:  "width",
			Usage: "Render width; 0 detects the terminal width",
			Value: a.cfg.Width,
		},
		&cli.StringFlag{
			Name:  "o",
			Usage: "Output format: terminal, json",
			Value: "terminal",
		},
	)

	return &cli.Command{
		Name:  "calls",
		Usage: "List the tool calls of a transcript",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			rnd, err := renderer(cmd)
			if err != nil {
				return err
			}

			s, err := a.loadSession(cmd)
			if err != nil {
				return err
			}
			s.SetNameFilter(cmd.String("name"))
			s.SetContentFilter(cmd.String("content"))
			if cmd.IsSet("select") {
				if err := s.Select(cmd.Int("select")); err != nil {
					return err
				}
			}

			if err := rnd.Render(a.out, s); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			return nil
		},
	}
}
