package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/claude/liftlog/internal/client"
	"github.com/claude/liftlog/internal/config"
	"github.com/claude/liftlog/internal/mirror"
	"github.com/joho/godotenv"
)

// Version is set at build time via -ldflags.
var Version = "dev"

const usage = `Usage: liftlog-cli <command> [args]

Commands:
  workouts                                list workout plans
  start <workout-id> [-notes s]           start a session
  status                                  show the active session
  pause | resume | abandon                change the active session
  complete -rating N [-mood s] [-energy N] [-notes s] [-public]
  ex-start | ex-complete | ex-skip <exercise-id>
  set-start <exercise-id> <set>
  set-complete <exercise-id> <set> [-reps N] [-weight kg] [-distance m]
               [-duration s] [-rest s] [-rpe N] [-notes s]
  history [-limit N] [-workout id]        list past sessions
  results [-limit N]                      list workout results
  version

Environment: LIFTLOG_SERVER (required), LIFTLOG_STATE_DIR, LIFTLOG_TIMEOUT.
A .env file in the working directory is loaded first when present.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if os.Args[1] == "version" {
		fmt.Println("liftlog-cli", Version)
		return
	}

	_ = godotenv.Load()
	cfg, err := config.LoadCLI()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m, err := mirror.Open(cfg.MirrorPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer m.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{
		client: client.New(cfg.Server, cfg.Timeout),
		mirror: m,
		out:    os.Stdout,
		now:    time.Now,
	}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		m.Close()
		os.Exit(1)
	}
}
