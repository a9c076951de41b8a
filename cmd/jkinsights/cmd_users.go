package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kavya1280/JK-Insights/internal/auth"
)

func newUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage dashboard accounts in the users file",
	}
	cmd.AddCommand(newUsersListCmd(), newUsersAddCmd())
	return cmd
}

func openStore() (*auth.Store, error) {
	cfg, paths, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}
	return auth.Open(auth.StoreConfig{
		Path:            paths.UsersFile,
		BcryptCost:      cfg.Auth.BcryptCost,
		Seed:            cfg.Auth.SeedDefaultUsers,
		DefaultPassword: cfg.Auth.DefaultPassword,
	}, logger)
}

func newUsersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tUSERNAME\tROLE\tSTATUS")
			for _, u := range store.List() {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", u.ID, u.Username, u.Role, u.Status)
			}
			return tw.Flush()
		},
	}
}

func newUsersAddCmd() *cobra.Command {
	var in auth.NewUser
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStore()
			if err != nil {
				return err
			}
			u, err := store.Add(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s) with id %s\n", u.Username, u.Role, u.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "", "login name")
	cmd.Flags().StringVar(&in.Password, "password", "", "initial password")
	cmd.Flags().StringVar(&in.Role, "role", "viewer", "admin, uploader, reviewer or viewer")
	cmd.Flags().StringVar(&in.Status, "status", "Active", "Active or Inactive")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
