package main

import (
	"fmt"
	"strings"

	"github.com/careerai/careerai/internal/token"
	"github.com/spf13/cobra"
)

func newTokenCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API access tokens",
	}
	cmd.AddCommand(newTokenCreateCmd(a))
	return cmd
}

func newTokenCreateCmd(a *app) *cobra.Command {
	var (
		email  string
		name   string
		scopes []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user if needed and issue an access token for it",
		Example: `  careerctl token create --email dev@example.com --name laptop
  careerctl token create --email ops@example.com --scopes read,write,admin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			email = strings.TrimSpace(email)
			if email == "" || !strings.Contains(email, "@") {
				return fmt.Errorf("a valid --email is required")
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

			user, err := st.UpsertUser(cmd.Context(), email)
			if err != nil {
				return fmt.Errorf("upserting user: %w", err)
			}
			raw, tok, err := token.Issue(user.ID, name, scopes)
			if err != nil {
				return err
			}
			if err := st.CreateAccessToken(cmd.Context(), tok); err != nil {
				return fmt.Errorf("storing token: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, titleStyle.Render("Access token created"))
			printField(out, "User", user.Email+" ("+user.ID.String()+")")
			printField(out, "Name", tok.Name)
			printField(out, "Scopes", strings.Join(tok.Scopes, ","))
			printField(out, "Token", raw)
			fmt.Fprintln(out, warnStyle.Render("The token is shown once. Store it now."))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email of the user that owns the token")
	cmd.Flags().StringVar(&name, "name", "cli", "label for the token")
	cmd.Flags().StringSliceVar(&scopes, "scopes", token.DefaultScopes, "comma-separated scopes (read, write, admin)")
	return cmd
}
