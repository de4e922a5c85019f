package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/careerai/careerai/internal/company"
	"github.com/careerai/careerai/internal/config"
	"github.com/careerai/careerai/internal/store"
	"github.com/careerai/careerai/pkg/models"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("12")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("10")).
			Bold(true)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("11"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9")).
			Bold(true)
)

// cliStore is what the database-backed commands need.
type cliStore interface {
	company.Store
	UpsertUser(ctx context.Context, email string) (*models.User, error)
	CreateAccessToken(ctx context.Context, token *models.AccessToken) error
}

// app carries the collaborators commands reach for. Tests swap them out.
type app struct {
	v         *viper.Viper
	openStore func(ctx context.Context, databaseURL string) (cliStore, func(), error)
	migrate   func(databaseURL, dir string) error
}

func newApp() *app {
	return &app{
		v:         viper.New(),
		openStore: openPostgres,
		migrate:   store.RunMigrations,
	}
}

func openPostgres(ctx context.Context, databaseURL string) (cliStore, func(), error) {
	pool, err := store.Connect(ctx, config.DatabaseConfig{
		URL:             databaseURL,
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	})
	if err != nil {
		return nil, nil, err
	}
	return store.NewPostgresStore(pool), pool.Close, nil
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "careerctl",
		Short: "Operator tooling for the CareerAI API",
		Long: `careerctl runs database migrations, issues access tokens and exercises
company resolution and analysis normalization outside the HTTP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.LoadDotEnv(".env"); err != nil {
				return err
			}
			if file := a.v.GetString("config"); file != "" {
				a.v.SetConfigFile(file)
				if err := a.v.ReadInConfig(); err != nil {
					return fmt.Errorf("reading config %s: %w", file, err)
				}
			}

			level := slog.LevelWarn
			if a.v.GetBool("verbose") {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	flags := root.PersistentFlags()
	flags.String("config", "", "YAML file with flag defaults")
	flags.String("database-url", "", "Postgres connection URL (env DATABASE_URL)")
	flags.BoolP("verbose", "v", false, "log debug output to stderr")
	bindFlags(a.v, flags.Lookup("config"), flags.Lookup("database-url"), flags.Lookup("verbose"))

	root.AddCommand(
		newMigrateCmd(a),
		newTokenCmd(a),
		newResolveCmd(a),
		newNormalizeCmd(),
	)
	return root
}

// databaseURL returns the configured URL or an error naming both sources.
func (a *app) databaseURL() (string, error) {
	url := a.v.GetString("database_url")
	if url == "" {
		return "", fmt.Errorf("database URL is required: pass --database-url or set DATABASE_URL")
	}
	return url, nil
}

func printField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}
