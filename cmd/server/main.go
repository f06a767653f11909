package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jrsteele09/go-directory-auth/auth"
	"github.com/jrsteele09/go-directory-auth/directory"
	companiespg "github.com/jrsteele09/go-directory-auth/directory/postgresrepo"
	companiesfake "github.com/jrsteele09/go-directory-auth/directory/repofake"
	"github.com/jrsteele09/go-directory-auth/internal/config"
	"github.com/jrsteele09/go-directory-auth/principals"
	principalspg "github.com/jrsteele09/go-directory-auth/principals/postgresrepo"
	principalsfake "github.com/jrsteele09/go-directory-auth/principals/repofake"
	"github.com/jrsteele09/go-directory-auth/server"
	"github.com/jrsteele09/go-directory-auth/token"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	srv, cleanup, err := buildServer(c)
	if err != nil {
		return err
	}
	defer cleanup()

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

func buildServer(c config.Config) (*server.Server, func(), error) {
	secret := c.GetSigningSecret()
	if secret == "" {
		return nil, nil, errors.New("JWT_SECRET must be set")
	}

	codec, err := token.NewCodec([]byte(secret), c.GetTokenWindow())
	if err != nil {
		return nil, nil, fmt.Errorf("token.NewCodec: %w", err)
	}
	hasher := principals.NewHasher(c.GetBcryptCost())

	var (
		principalRepo principals.Repo
		companyRepo   directory.CompanyRepo
		cleanup       = func() {}
	)

	if dsn := c.GetDatabaseURL(); dsn != "" {
		pool, err := pgxpool.New(context.Background(), dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := pool.Ping(context.Background()); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("postgres ping: %w", err)
		}
		principalRepo = principalspg.New(pool)
		companyRepo = companiespg.New(pool)
		cleanup = pool.Close
	} else {
		log.Warn().Msg("DATABASE_URL not set, using in-memory stores (data is lost on restart)")
		principalRepo = principalsfake.NewFakePrincipalRepo()
		companyRepo = companiesfake.NewFakeCompanyRepo()
	}

	authenticator, err := auth.New(principalRepo, hasher, codec,
		auth.WithLogger(log.With().Str("component", "auth").Logger()))
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("auth.New: %w", err)
	}

	srv, err := server.New(c, server.Deps{Auth: authenticator, Companies: companyRepo})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("server.New: %w", err)
	}
	return srv, cleanup, nil
}

func setupLogging(c config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
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
