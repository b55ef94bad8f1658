// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/allisson/hrgate/cmd/app/commands"
	"github.com/allisson/hrgate/internal/app"
	"github.com/allisson/hrgate/internal/config"
)

const version = "1.0.0"

// withContainer loads configuration, builds the DI container and hands it to
// the command body, shutting the container down afterwards.
func withContainer(fn func(container *app.Container, logger *slog.Logger) error) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer func() {
		if err := container.Shutdown(context.Background()); err != nil {
			logger.Error("failed to shutdown container", slog.Any("error", err))
		}
	}()

	return fn(container, logger)
}

func main() {
	cmd := &cli.Command{
		Name:    "hrgate",
		Usage:   "Employee self-service gateway for HR backends",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "create-tenant",
				Usage: "Create a new tenant",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable tenant name",
					},
					&cli.BoolFlag{
						Name:    "active",
						Aliases: []string{"a"},
						Value:   true,
						Usage:   "Whether the tenant is active immediately",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						tenantRepo, err := container.TenantRepository()
						if err != nil {
							return err
						}
						return commands.RunCreateTenant(
							ctx,
							tenantRepo,
							logger,
							os.Stdout,
							cmd.String("name"),
							cmd.Bool("active"),
							cmd.String("format"),
						)
					})
				},
			},
			{
				Name:  "create-user",
				Usage: "Create a new portal user",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "tenant-id",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "Tenant ID (UUID)",
					},
					&cli.StringFlag{
						Name:     "email",
						Aliases:  []string{"e"},
						Required: true,
						Usage:    "User email address",
					},
					&cli.StringFlag{
						Name:     "full-name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "User full name",
					},
					&cli.StringFlag{
						Name:     "password",
						Aliases:  []string{"p"},
						Required: true,
						Usage:    "Initial password",
					},
					&cli.BoolFlag{
						Name:  "admin",
						Value: false,
						Usage: "Grant tenant admin privileges",
					},
					&cli.IntFlag{
						Name:  "employee-id",
						Value: 0,
						Usage: "HR employee ID to link (0 leaves the user unlinked)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						authUC, err := container.AuthUseCase()
						if err != nil {
							return err
						}
						return commands.RunCreateUser(
							ctx,
							authUC,
							logger,
							os.Stdout,
							cmd.String("tenant-id"),
							cmd.String("email"),
							cmd.String("full-name"),
							cmd.String("password"),
							cmd.Bool("admin"),
							int64(cmd.Int("employee-id")),
							cmd.String("format"),
						)
					})
				},
			},
			{
				Name:  "create-service-token",
				Usage: "Create a new inbound service token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Required: true,
						Usage:    "Human-readable token name",
					},
					&cli.IntFlag{
						Name:     "account-id",
						Aliases:  []string{"a"},
						Required: true,
						Usage:    "HR backend account ID the token acts for",
					},
					&cli.StringFlag{
						Name:    "scope",
						Aliases: []string{"s"},
						Usage:   "Comma-separated resource kinds (empty grants unrestricted access)",
					},
					&cli.StringFlag{
						Name:  "note",
						Usage: "Operator note",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						tokenUC, err := container.ServiceTokenUseCase()
						if err != nil {
							return err
						}
						return commands.RunCreateServiceToken(
							ctx,
							tokenUC,
							logger,
							os.Stdout,
							cmd.String("name"),
							int64(cmd.Int("account-id")),
							cmd.String("scope"),
							cmd.String("note"),
							cmd.String("format"),
						)
					})
				},
			},
			{
				Name:  "rotate-service-token",
				Usage: "Rotate the value of an existing service token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Service token ID (UUID)",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						tokenUC, err := container.ServiceTokenUseCase()
						if err != nil {
							return err
						}
						return commands.RunRotateServiceToken(
							ctx,
							tokenUC,
							logger,
							os.Stdout,
							cmd.String("id"),
							cmd.String("format"),
						)
					})
				},
			},
			{
				Name:  "set-service-token-active",
				Usage: "Enable or disable a service token",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "id",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Service token ID (UUID)",
					},
					&cli.BoolFlag{
						Name:     "active",
						Aliases:  []string{"a"},
						Required: true,
						Usage:    "Whether the token can authenticate",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						tokenUC, err := container.ServiceTokenUseCase()
						if err != nil {
							return err
						}
						return commands.RunSetServiceTokenActive(
							ctx,
							tokenUC,
							logger,
							os.Stdout,
							cmd.String("id"),
							cmd.Bool("active"),
						)
					})
				},
			},
			{
				Name:  "clean-audit-logs",
				Usage: "Delete audit logs older than specified days",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "days",
						Aliases:  []string{"d"},
						Required: true,
						Usage:    "Delete audit logs older than this many days",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Value:   "text",
						Usage:   "Output format: 'text' or 'json'",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return withContainer(func(container *app.Container, logger *slog.Logger) error {
						auditUC, err := container.AuditLogUseCase()
						if err != nil {
							return err
						}
						return commands.RunCleanAuditLogs(
							ctx,
							auditUC,
							logger,
							os.Stdout,
							int(cmd.Int("days")),
							cmd.String("format"),
						)
					})
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
