package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/config"
)

var urlCmd = &cobra.Command{
	Use:   "url <path> [path] ...",
	Short: "Print the URL of stored files",
	Long: `Print the URL each stored file is served at.

With --all every file under the storage directory is listed. Paths that do
not exist are reported and skipped.`,
	RunE: runURL,
}

var urlAll bool

func init() {
	urlCmd.Flags().BoolVarP(&urlAll, "all", "a", false, "list every stored file")
	rootCmd.AddCommand(urlCmd)
}

func runURL(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	if !urlAll && len(args) == 0 {
		return errors.New("pass at least one path or --all")
	}

	ctx := cmd.Context()

	store, closeStore, err := openStore(cfg, false)
	if err != nil {
		return err
	}
	defer closeStore()

	out := cmd.OutOrStdout()

	if urlAll {
		entries, listErr := store.List(ctx)
		if listErr != nil {
			return listErr
		}
		for _, e := range entries {
			_, _ = fmt.Fprintf(out, "%s\t%d\t%s\n", store.URL(e.Path), e.Size, e.ContentType)
		}
		return nil
	}

	for _, p := range args {
		exists, existsErr := store.Exists(ctx, p)
		if existsErr != nil && !errors.Is(existsErr, privmedia.ErrInvalidInput) {
			return fmt.Errorf("stat %s: %w", p, existsErr)
		}
		if !exists {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "%s: not found\n", p)
			continue
		}
		_, _ = fmt.Fprintln(out, store.URL(p))
	}

	return nil
}
