package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Issue a bearer token for a user",
	Long: `Issue a signed bearer token for a user. Send it as
"Authorization: Bearer <token>" or as the "token" query parameter.

The token carries only the user ID. Role flags are looked up on every
request, so changing a user takes effect without reissuing tokens.`,
	Args: cobra.ExactArgs(1),
	RunE: runToken,
}

var tokenTTL time.Duration

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default: auth.token_ttl)")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	userID := args[0]

	tokens, err := newTokenManager(cfg)
	if err != nil {
		return err
	}

	warnUnknownUser(cmd, cfg, userID)

	raw, claims, err := tokens.Issue(ctx, userID, tokenTTL)
	if err != nil {
		return err
	}

	slog.Info("issued token", "user", claims.UserID, "id", claims.TokenID, "expires", claims.ExpiresAt)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), raw)
	return nil
}

// warnUnknownUser logs when userID would resolve to anonymous at serve time.
// Credentials are still issued, the user may be added later.
func warnUnknownUser(cmd *cobra.Command, cfg *config.Config, userID string) {
	ctx := cmd.Context()

	users, closeUsers, err := openUsers(ctx, cfg)
	if err != nil {
		slog.Warn("could not check user", "user", userID, "err", err)
		return
	}
	defer closeUsers()

	u, err := users.Get(ctx, userID)
	switch {
	case errors.Is(err, privmedia.ErrNotFound):
		slog.Warn("user does not exist, credential resolves to anonymous", "user", userID)
	case err != nil:
		slog.Warn("could not check user", "user", userID, "err", err)
	case !u.Active:
		slog.Warn("user is inactive, credential resolves to anonymous", "user", userID)
	}
}
