package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func (a *app) detectCmd() *cli.Command {
	return &cli.Command{
		Name:  "detect",
		Usage: "Print the logging schema of a transcript with turn and call counts",
		Flags: a.inputFlags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := a.loadSession(cmd)
			if err != nil {
				return err
			}

			tools := 0
			for _, c := range s.Calls() {
				if c.HasFunction {
					tools++
				}
			}
			fmt.Fprintf(a.out, "%s\t%d turns\t%d calls\t%d tool calls\n", s.Format(), len(s.Turns()), s.Total(), tools)
			for _, w := range s.Warnings() {
				fmt.Fprintf(a.out, "warning: %v\n", w)
			}
			return nil
		},
	}
}
