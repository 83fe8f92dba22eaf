package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adfharrison1/go-baas/pkg/actions"
)

var usersFromTree bool

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users",
	Long: `List every user record of the users collection as JSON.

With --from-tree the users subtree of the tree store is printed instead.

Example:
  go-baas users
  go-baas users --from-tree --tree bolt`,
	Args: cobra.NoArgs,
	RunE: runUsers,
}

func init() {
	usersCmd.Flags().BoolVar(&usersFromTree, "from-tree", false, "read users from the tree store")
}

func runUsers(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	p, err := openPlatform(ctx)
	if err != nil {
		return err
	}
	defer p.Close(ctx)

	users := actions.NewUsers(p.Docs, p.Trees)

	var result interface{}
	if usersFromTree {
		result, err = users.GetAllUsersFromTree(ctx)
	} else {
		result, err = users.GetAllUsers(ctx)
	}
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal users: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), string(output))
	return nil
}
