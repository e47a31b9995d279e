package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/sonnes/callscope/compact"
	"github.com/sonnes/callscope/config"
	"github.com/sonnes/callscope/core"
	"github.com/sonnes/callscope/redact"
	"github.com/sonnes/callscope/render"
	jsonrender "github.com/sonnes/callscope/render/json"
	"github.com/sonnes/callscope/render/terminal"
	"github.com/sonnes/callscope/session"
	"github.com/urfave/cli/v3"
)

// errNoInput is returned when there is no --file and stdin is a terminal.
var errNoInput = errors.New("no transcript: pass --file or pipe one on stdin")

// app carries the environment defaults and I/O shared by every command.
type app struct {
	cfg   *config.Config
	in    io.Reader
	out   io.Writer
	stdin func() bool // reports whether stdin is piped
}

func (a *app) root() *cli.Command {
	return &cli.Command{
		Name:  "cs",
		Usage: "Inspect the tool calls in AI coding-agent request logs",
		Description: `Reads a transcript in one of the sim-requests, fetchlog or new-agent
logging schemas, flattens it into one entry per tool call and lets you
filter, color and browse the calls.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log",
				Usage: "Log level: debug, info, warn, error",
				Value: a.cfg.LogLevel,
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			level, err := log.ParseLevel(cmd.String("log"))
			if err != nil {
				return ctx, err
			}
			log.SetLevel(level)
			return ctx, nil
		},
		Commands: []*cli.Command{
			a.callsCmd(),
			a.detectCmd(),
			a.resultsCmd(),
			a.viewCmd(),
		},
	}
}

// inputFlags are shared by every command that loads a transcript.
func (a *app) inputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "file",
			Usage: "Path to a transcript; reads stdin when omitted",
		},
		&cli.BoolFlag{
			Name:  "no-redact",
			Usage: "Disable redaction of secrets and PII",
		},
		&cli.StringSliceFlag{
			Name:  "redact",
			Usage: "Rules to redact. Example: --redact=secrets,pii",
		},
		&cli.StringSliceFlag{
			Name:  "allow",
			Usage: "Regular expressions whose matches are never redacted",
		},
		&cli.BoolFlag{
			Name:  "compact",
			Usage: "Summarize tool output and bulky edit arguments in history",
			Value: a.cfg.Compact,
		},
		&cli.BoolFlag{
			Name:  "strip-tools",
			Usage: "With --compact, also drop tool definitions",
		},
	}
}

// readInput returns the transcript named by --file, or stdin when it is
// piped.
func (a *app) readInput(cmd *cli.Command) ([]byte, error) {
	if file := cmd.String("file"); file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("read transcript: %w", err)
		}
		return data, nil
	}
	if !a.stdin() {
		return nil, errNoInput
	}
	data, err := io.ReadAll(a.in)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	return data, nil
}

// loadSession reads the input and loads it into a session with the
// transformers the flags select.
func (a *app) loadSession(cmd *cli.Command) (*session.Session, error) {
	data, err := a.readInput(cmd)
	if err != nil {
		return nil, err
	}

	var ts []core.Transformer
	redactor, err := a.newRedactor(cmd)
	if err != nil {
		return nil, err
	}
	if redactor != nil {
		ts = append(ts, redactor)
	}
	if cmd.Bool("compact") {
		ts = append(ts, compact.New(compact.Config{StripToolDefinitions: cmd.Bool("strip-tools")}))
	}

	s := session.New(session.WithTransformers(ts...))
	if err := s.Load(data); err != nil {
		return nil, err
	}
	return s, nil
}

// newRedactor builds a Redactor from flags and environment defaults. Returns
// nil when redaction is disabled.
func (a *app) newRedactor(cmd *cli.Command) (*redact.Redactor, error) {
	cfg, ok, err := redactConfig(a.cfg, cmd.Bool("no-redact"), cmd.StringSlice("redact"), cmd.StringSlice("allow"))
	if err != nil || !ok {
		return nil, err
	}
	return redact.New(cfg), nil
}

// redactConfig resolves the redaction rules. Explicit --redact rules win
// over the environment; without them CS_REDACT enables secrets and CS_PII
// adds PII.
func redactConfig(env *config.Config, disabled bool, rules, allow []string) (redact.Config, bool, error) {
	if disabled {
		return redact.Config{}, false, nil
	}

	cfg := redact.Config{Allowlist: append(append([]string(nil), env.Allowlist...), allow...)}
	if len(rules) == 0 {
		cfg.Secrets = env.Redact
		cfg.PII = env.PII
		return cfg, cfg.Secrets || cfg.PII, nil
	}

	for _, r := range rules {
		switch r {
		case "secrets":
			cfg.Secrets = true
		case "pii":
			cfg.PII = true
		default:
			return redact.Config{}, false, fmt.Errorf("unknown redaction rule %q", r)
		}
	}
	return cfg, true, nil
}

var renderers = map[string]func(cmd *cli.Command) render.Renderer{
	"terminal": func(cmd *cli.Command) render.Renderer {
		return &terminal.Renderer{
			Width:   cmd.Int("width"),
			Args:    cmd.Bool("args"),
			Results: cmd.Bool("results"),
			Group:   cmd.Bool("group"),
		}
	},
	"json": func(cmd *cli.Command) render.Renderer {
		return &jsonrender.Renderer{Indent: true, Results: cmd.Bool("results")}
	},
}

func renderer(cmd *cli.Command) (render.Renderer, error) {
	name := cmd.String("o")
	fn, ok := renderers[name]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q", name)
	}
	return fn(cmd), nil
}
