// Command studio is a terminal front end for the material generator: sign
// in, generate tests and study materials, edit them and export them.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/edugen/studio/internal/auth"
	"github.com/edugen/studio/internal/client"
	"github.com/edugen/studio/internal/config"
	"github.com/edugen/studio/internal/logger"
	"github.com/edugen/studio/internal/material"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	// Logs go to stderr so they never mix with the prompt.
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	// ─── Initialize API Client ─────────────────────────────────────────
	api, err := client.New(client.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Logger:  log,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create API client")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM)
	defer stop()

	a := newApp(cfg, api, log, os.Stdin, os.Stdout)

	fmt.Fprintf(a.out, "Connected to %s. Type \"help\" for commands.\n", api.BaseURL())
	if err := a.session.Check(ctx); err == nil {
		if u, ok := a.session.Current(); ok {
			fmt.Fprintf(a.out, "Signed in as %s.\n", u.Email)
		}
	}

	a.run(ctx)
}

// app holds the state of one terminal session.
type app struct {
	cfg     *config.Config
	api     *client.Client
	session *auth.Provider
	doc     *material.Session
	log     zerolog.Logger

	in       *bufio.Reader
	stdin    *os.File
	out      io.Writer
	commands map[string]command
}

func newApp(cfg *config.Config, api *client.Client, log zerolog.Logger, stdin *os.File, out io.Writer) *app {
	a := &app{
		cfg:     cfg,
		api:     api,
		session: auth.NewProvider(api, log),
		log:     log,
		in:      bufio.NewReader(stdin),
		stdin:   stdin,
		out:     out,
	}
	a.commands = a.commandTable()
	return a
}

func (a *app) run(ctx context.Context) {
	for {
		fmt.Fprint(a.out, a.prompt())
		line, err := a.in.ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(a.out)
			return
		}

		args, perr := splitArgs(strings.TrimSpace(line))
		if perr != nil {
			fmt.Fprintln(a.out, "Error:", perr)
			continue
		}
		if len(args) == 0 {
			continue
		}
		if args[0] == "quit" || args[0] == "exit" {
			if a.doc != nil && a.doc.Dirty() && !a.confirm("Discard unsaved changes?") {
				continue
			}
			return
		}

		cmd, ok := a.commands[args[0]]
		if !ok {
			fmt.Fprintf(a.out, "Unknown command %q. Type \"help\".\n", args[0])
			continue
		}
		if len(args)-1 < cmd.minArgs {
			fmt.Fprintln(a.out, "Usage:", args[0], cmd.usage)
			continue
		}

		start := time.Now()
		cmd.run(ctx, args[1:])
		a.log.Debug().Str("command", args[0]).Dur("took", time.Since(start)).Msg("Command finished")
	}
}

func (a *app) prompt() string {
	if a.doc == nil {
		return "> "
	}
	mark := ""
	if a.doc.Dirty() {
		mark = "*"
	}
	return fmt.Sprintf("%s %d%s> ", a.doc.Kind(), a.doc.ID(), mark)
}

// ask prints label and reads one trimmed line.
func (a *app) ask(label string) string {
	fmt.Fprint(a.out, label)
	line, _ := a.in.ReadString('\n')
	return strings.TrimSpace(line)
}

// confirm asks a yes/no question; anything but y or yes is no.
func (a *app) confirm(prompt string) bool {
	switch strings.ToLower(a.ask(prompt + " [y/N]: ")) {
	case "y", "yes":
		return true
	}
	return false
}
