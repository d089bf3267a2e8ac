package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/fatih/color"
	"github.com/indigo-web/stress"
	"github.com/indigo-web/stress/config"
	"github.com/indigo-web/stress/errors"
	"github.com/indigo-web/stress/router/middleware"
	"github.com/indigo-web/stress/router/static"
)

var (
	addr    = flag.String("addr", "127.0.0.1:8080", "address to listen on")
	workers = flag.Int("workers", runtime.NumCPU(), "number of connection-processing workers")
	root    = flag.String("root", ".", "directory to serve files from")
	quiet   = flag.Bool("quiet", false, "disable request logging")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "stress: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	stat, err := os.Stat(*root)
	if err != nil {
		return err
	}

	if !stat.IsDir() {
		return fmt.Errorf("%s: not a directory", *root)
	}

	cfg := config.Default()
	cfg.Workers = *workers

	failure := color.New(color.FgRed).SprintFunc()
	app := stress.New(cfg, stress.WithErrorHandler(func(err error) {
		if errors.KindOf(err) == errors.KindParse {
			log.Printf("%s %s", color.YellowString("bad request:"), err)
			return
		}

		log.Printf("%s %s", failure("error:"), err)
	}))

	if !*quiet {
		app.Middleware("*", middleware.LogRequests())
	}

	app.Middleware("*", middleware.ServerHeader())
	app.Middleware("*", static.Serve(*root))

	go func() {
		signals := make(chan os.Signal, 1)
		signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
		<-signals

		if err := app.Stop(); err != nil {
			log.Printf("%s %s", failure("stop:"), err)
		}
	}()

	color.Green("serving %s on http://%s with %d workers", *root, *addr, cfg.Workers)

	if err = app.Listen(*addr); !errors.Is(err, errors.ErrShutdown) {
		return err
	}

	color.Cyan("bye")

	return nil
}
