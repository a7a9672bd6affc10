package funko

import (
	"github.com/spf13/cobra"
)

var (
	removeUser string
	removeID   int
)

var RemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove a Funko from a collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		resp, err := app.Remove(cmd.Context(), removeUser, removeID)
		return report(cmd, resp, err)
	},
}

func init() {
	addUserFlag(RemoveCmd, &removeUser)
	addIDFlag(RemoveCmd, &removeID)
}
