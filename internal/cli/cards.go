package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/postcard/pkg/storage"
)

func (c *CLI) cardsCommand() *cobra.Command {
	var user string
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "Manage rendered cards",
	}
	cmd.PersistentFlags().StringVarP(&user, "user", "u", defaultUser, "user id owning the cards")

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List a user's cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			paths, err := store.Images(user)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				printInfo("No cards for %s", user)
				return nil
			}
			printInfo("%d cards for %s", len(paths), user)
			for _, p := range paths {
				printFile(p)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Delete a user's cards and keep the directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			paths, err := store.Images(user)
			if err != nil {
				return err
			}
			if err := store.Clear(user); err != nil {
				return err
			}
			printSuccess("Cleared %d cards", len(paths))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove",
		Short: "Delete a user's card directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			if err := store.Remove(user); err != nil {
				return err
			}
			printSuccess("Removed cards of %s", user)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path <name>",
		Short: "Print the path of a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := c.openStore()
			if err != nil {
				return err
			}
			p, err := store.Path(user, args[0])
			if err != nil {
				return err
			}
			fmt.Println(p)
			return nil
		},
	})

	return cmd
}

func (c *CLI) openStore() (*storage.Store, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	return storage.NewStore(cfg.OutputDir)
}
