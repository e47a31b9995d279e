package main

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sonnes/callscope/tui"
	"github.com/urfave/cli/v3"
)

func (a *app) viewCmd() *cli.Command {
	return &cli.Command{
		Name:  "view",
		Usage: "Browse the tool calls of a transcript interactively",
		Flags: append(a.inputFlags(),
			&cli.StringFlag{
				Name:  "name",
				Usage: "Initial tool-name filter",
			},
			&cli.StringFlag{
				Name:  "content",
				Usage: "Initial content filter",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := a.loadSession(cmd)
			if err != nil {
				return err
			}
			s.SetNameFilter(cmd.String("name"))
			s.SetContentFilter(cmd.String("content"))
			if list := s.ActiveList(); len(list) > 0 {
				_ = s.Select(list[0])
			}

			var opts []tea.ProgramOption
			if cmd.String("file") == "" {
				// The transcript came in on stdin; read keys from the terminal.
				opts = append(opts, tea.WithInputTTY())
			}
			return tui.Run(s, opts...)
		},
	}
}
