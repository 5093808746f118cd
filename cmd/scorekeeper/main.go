package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Black-And-White-Club/scorekeeper/app"
	"github.com/Black-And-White-Club/scorekeeper/config"
	"github.com/Black-And-White-Club/scorekeeper/pkg/jwt"
	"github.com/Black-And-White-Club/scorekeeper/pkg/observability"
	sharedtypes "github.com/Black-And-White-Club/scorekeeper/pkg/types/shared"
	"github.com/urfave/cli/v2"
)

var version = "dev"

func main() {
	cliApp := &cli.App{
		Name:    "scorekeeper",
		Usage:   "game leaderboards, score ledgers and achievements",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"SCOREKEEPER_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the API, the event handlers and the live feed",
				Action: serve,
			},
			{
				Name:      "token",
				Usage:     "issue a caller token",
				ArgsUsage: "<user-id>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "role", Value: string(jwt.RolePlayer), Usage: "player or operator"},
					&cli.DurationFlag{Name: "ttl", Usage: "token lifetime; defaults to jwt.default_ttl"},
				},
				Action: issueToken,
			},
		},
		DefaultCommand: "serve",
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func serve(c *cli.Context) error {
	ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceName:  "scorekeeper",
		Environment:  cfg.Observability.Environment,
		Version:      version,
		LogLevel:     cfg.Observability.LogLevel,
		LogFormat:    cfg.Observability.LogFormat,
		OTLPEndpoint: cfg.Observability.OTLPEndpoint,
		SampleRate:   cfg.Observability.SampleRate,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	logger := obs.Provider.Logger
	logger.Info("Starting scorekeeper")

	application, err := app.NewApp(ctx, cfg, obs)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}

	if err := application.Run(ctx); err != nil {
		return err
	}

	logger.Info("Scorekeeper stopped")
	return nil
}

func issueToken(c *cli.Context) error {
	userID := c.Args().First()
	if userID == "" {
		return cli.Exit("a user id is required", 2)
	}

	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	role := jwt.Role(c.String("role"))
	if role != jwt.RolePlayer && role != jwt.RoleOperator {
		return cli.Exit(fmt.Sprintf("unknown role %q", role), 2)
	}

	tokens := jwt.NewService(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.DefaultTTL)
	token, err := tokens.GenerateToken(sharedtypes.UserID(userID), role, c.Duration("ttl"))
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, token)
	return nil
}
