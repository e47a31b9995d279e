package main

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/urfave/cli/v3"
)

func (a *app) resultsCmd() *cli.Command {
	return &cli.Command{
		Name:  "results",
		Usage: "Print the tool results recorded in a transcript",
		Flags: append(a.inputFlags(),
			&cli.StringFlag{
				Name:  "id",
				Usage: "Print only the full result of this invocation id",
			},
			&cli.StringFlag{
				Name:  "o",
				Usage: "Output format: terminal, json",
				Value: "terminal",
			},
		),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			s, err := a.loadSession(cmd)
			if err != nil {
				return err
			}

			if id := cmd.String("id"); id != "" {
				r, ok := s.ToolResult(id)
				if !ok {
					return fmt.Errorf("no tool result for id %q", id)
				}
				fmt.Fprintln(a.out, r.Text)
				return nil
			}

			results := s.ToolResults()
			switch o := cmd.String("o"); o {
			case "json":
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(results)
			case "terminal":
				for _, id := range slices.Sorted(maps.Keys(results)) {
					r := results[id]
					line, _, _ := strings.Cut(strings.TrimSpace(r.Text), "\n")
					fmt.Fprintf(a.out, "%s\t%s\t%s\n", id, r.RequestID, line)
				}
				return nil
			default:
				return fmt.Errorf("unknown output format %q", o)
			}
		},
	}
}
