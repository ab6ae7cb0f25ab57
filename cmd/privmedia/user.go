package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/sagarc03/privmedia"
	"github.com/sagarc03/privmedia/config"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users in the database",
	Long: `Add, remove and list the users privmedia resolves credentials to.

Users are stored in the configured database. serve reads them when
users.backend is "database".`,
}

var userAddCmd = &cobra.Command{
	Use:   "add <id>",
	Short: "Create or update a user",
	Long: `Create a user, or update the role flags of an existing one.

Examples:
  privmedia user add 42 --name alice
  privmedia user add 7 --staff
  privmedia user add 9 --inactive`,
	Args: cobra.ExactArgs(1),
	RunE: runUserAdd,
}

var userRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserRemove,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	Args:  cobra.NoArgs,
	RunE:  runUserList,
}

var (
	userName      string
	userStaff     bool
	userSuperuser bool
	userInactive  bool
	userYes       bool
)

func init() {
	userAddCmd.Flags().StringVar(&userName, "name", "", "display name")
	userAddCmd.Flags().BoolVar(&userStaff, "staff", false, "grant staff access")
	userAddCmd.Flags().BoolVar(&userSuperuser, "superuser", false, "grant superuser access")
	userAddCmd.Flags().BoolVar(&userInactive, "inactive", false, "create the user as inactive")

	userRemoveCmd.Flags().BoolVarP(&userYes, "yes", "y", false, "skip confirmation")

	userCmd.AddCommand(userAddCmd, userRemoveCmd, userListCmd)
	rootCmd.AddCommand(userCmd)
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	repo, closeDB, err := openUserRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	u, created, err := repo.Upsert(ctx, privmedia.User{
		ID:        args[0],
		Name:      userName,
		Active:    !userInactive,
		Staff:     userStaff,
		Superuser: userSuperuser,
	})
	if err != nil {
		return fmt.Errorf("add user %s: %w", args[0], err)
	}

	verb := "updated"
	if created {
		verb = "created"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "User '%s' %s (active=%t staff=%t superuser=%t).\n",
		u.ID, verb, u.Active, u.Staff, u.Superuser)
	return nil
}

func runUserRemove(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	id := args[0]

	repo, closeDB, err := openUserRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	if _, err = repo.Get(ctx, id); err != nil {
		return fmt.Errorf("remove user %s: %w", id, err)
	}

	if !userYes {
		prompt := promptui.Prompt{
			Label:     fmt.Sprintf("Remove user '%s'", id),
			IsConfirm: true,
		}
		if _, promptErr := prompt.Run(); promptErr != nil {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
			return nil //nolint:nilerr // User cancelled, not an error
		}
	}

	if err = repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove user %s: %w", id, err)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "User '%s' removed.\n", id)
	return nil
}

func runUserList(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromContext(cmd.Context())
	if err != nil {
		return err
	}

	ctx := cmd.Context()

	repo, closeDB, err := openUserRepo(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	users, err := repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tNAME\tACTIVE\tSTAFF\tSUPERUSER")
	for _, u := range users {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%t\t%t\t%t\n", u.ID, u.Name, u.Active, u.Staff, u.Superuser)
	}
	return tw.Flush()
}
