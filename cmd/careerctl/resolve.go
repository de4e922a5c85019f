package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/careerai/careerai/internal/brand"
	"github.com/careerai/careerai/internal/company"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newResolveCmd(a *app) *cobra.Command {
	var (
		jobURL string
		jobID  string
	)
	cmd := &cobra.Command{
		Use:   "resolve <company name>",
		Short: "Resolve a company name to its canonical record, fetching brand data on first sight",
		Example: `  careerctl resolve "Stripe" --url https://stripe.com/jobs/123
  careerctl resolve Acme --job 3f6b0b1e-7d0c-4a4e-9c1e-6f1f2a9d8c11`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return fmt.Errorf("company name must not be blank")
			}

			var link *uuid.UUID
			if jobID != "" {
				id, err := uuid.Parse(jobID)
				if err != nil {
					return fmt.Errorf("--job must be a UUID: %w", err)
				}
				link = &id
			}

			url, err := a.databaseURL()
			if err != nil {
				return err
			}
			st, closeStore, err := a.openStore(cmd.Context(), url)
			if err != nil {
				return fmt.Errorf("connecting to database: %w", err)
			}
			defer closeStore()

			bc := brand.NewHTTPClient(
				a.v.GetString("brandfetch_base_url"),
				a.v.GetString("brandfetch_api_key"),
				a.v.GetDuration("brandfetch_timeout"),
				a.v.GetFloat64("brandfetch_rate_per_sec"),
			)
			resolver := company.NewResolver(st, bc)

			c, err := resolver.ResolveAndLink(cmd.Context(), link, name, jobURL)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render(c.Name))
			printField(out, "ID", c.ID.String())
			printField(out, "Domain", orDash(c.Domain))
			printField(out, "Logo", orDash(c.LogoURL))
			if link != nil {
				printField(out, "Linked job", link.String())
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&jobURL, "url", "", "job posting URL used to derive the company domain")
	flags.StringVar(&jobID, "job", "", "job application ID to link the company to")
	flags.String("brandfetch-base-url", "https://api.brandfetch.io", "Brandfetch API base URL")
	flags.String("brandfetch-api-key", "", "Brandfetch API key (env BRANDFETCH_API_KEY)")
	flags.Duration("brandfetch-timeout", 10*time.Second, "Brandfetch request timeout")
	flags.Float64("brandfetch-rate-per-sec", 5, "Brandfetch request rate limit")
	bindFlags(a.v,
		flags.Lookup("brandfetch-base-url"),
		flags.Lookup("brandfetch-api-key"),
		flags.Lookup("brandfetch-timeout"),
		flags.Lookup("brandfetch-rate-per-sec"),
	)
	return cmd
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}
