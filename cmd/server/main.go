package main

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-clients-dashboard/actions"
	"github.com/jrsteele09/go-clients-dashboard/authorization"
	"github.com/jrsteele09/go-clients-dashboard/importer"
	"github.com/jrsteele09/go-clients-dashboard/internal/config"
	"github.com/jrsteele09/go-clients-dashboard/search"
	"github.com/jrsteele09/go-clients-dashboard/server"
	"github.com/jrsteele09/go-clients-dashboard/server/authflowrepo"
	"github.com/jrsteele09/go-clients-dashboard/sessions"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("Error running server")
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("Recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	handler, err := buildServer(context.Background(), c)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              c.GetPort(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Writes wait on the slowest outbound call, the search capability
		WriteTimeout: c.GetSearchTimeout() + 10*time.Second,
	}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(srv) }()

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(srv)
}

func buildServer(ctx context.Context, c config.Config) (*server.Server, error) {
	manager, err := authorization.NewGoogleManager(c)
	if err != nil {
		return nil, err
	}

	imp := importer.New(importer.GoogleSheetsSources(manager), c.GetSheetsReadRange(), c.GetSheetFetchTimeout())

	dispatcher, err := search.NewDispatcherFromConfig(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("search dispatcher: %w", err)
	}

	facade, err := actions.New(manager, imp, dispatcher)
	if err != nil {
		return nil, err
	}

	markers, err := sessions.NewMarkerIssuer(sessionSecret(c))
	if err != nil {
		return nil, err
	}

	components := server.Components{
		Actions:    facade,
		Authorizer: manager,
		Sessions:   sessions.NewInMemoryRepo(),
		Markers:    markers,
		AuthState:  authflowrepo.NewInMemoryRepo(),
	}

	discoveryCtx, cancel := context.WithTimeout(ctx, c.GetTokenExchangeTimeout())
	defer cancel()
	if profiles, err := authorization.NewProfileFetcher(discoveryCtx, c.GetGoogleIssuer()); err != nil {
		log.Warn().Err(err).Msg("Profile lookup disabled")
	} else {
		components.Profiles = profiles
	}

	return server.New(c, components)
}

// sessionSecret falls back to a random per-process secret, so sessions do not survive restarts
func sessionSecret(c config.Config) []byte {
	if secret := c.GetSessionSecret(); secret != "" {
		return []byte(secret)
	}
	log.Warn().Msg("SESSION_SECRET not set, using a random secret")
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return b
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
