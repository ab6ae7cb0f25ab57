package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/auth"
	"github.com/sagarc03/privmedia/config"
	privhttp "github.com/sagarc03/privmedia/http"
)

var signCmd = &cobra.Command{
	Use:   "sign <path>",
	Short: "Create a presigned link to a private file",
	Long: `Create a link that reads one private file as the given user until it
expires. The link never grants more than the user's own access.

Examples:
  privmedia sign cars/42/photo.jpg --user 42
  privmedia sign reports/q3.csv --user 7 --ttl 15m --base-url https://media.example.com`,
	Args: cobra.ExactArgs(1),
	RunE: runSign,
}

var (
	signUser    string
	signTTL     time.Duration
	signBaseURL string
)

func init() {
	signCmd.Flags().StringVarP(&signUser, "user", "u", "", "user the link acts as")
	signCmd.Flags().DurationVar(&signTTL, "ttl", time.Hour, "link lifetime (max 168h)")
	signCmd.Flags().StringVar(&signBaseURL, "base-url", "", "scheme and host to prepend, e.g. https://media.example.com")
	_ = signCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(signCmd)
}

func runSign(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	p := args[0]
	if !privmedia.IsValidPath(p) {
		return fmt.Errorf("sign %q: %w", p, privmedia.ErrInvalidInput)
	}

	presigner, err := auth.NewPresigner(cfg.Auth.Secret)
	if err != nil {
		return err
	}

	warnUnknownUser(cmd, cfg, signUser)

	urlPath := privhttp.NormalizePrefix(cfg.Server.URLPrefix) + p

	link, err := presigner.Sign(http.MethodGet, urlPath, signUser, signTTL)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSuffix(signBaseURL, "/")+link)
	return nil
}
