package funko

import (
	"github.com/spf13/cobra"
)

var listUser string

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every Funko of a collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		resp, err := app.List(cmd.Context(), listUser)
		return report(cmd, resp, err)
	},
}

func init() {
	addUserFlag(ListCmd, &listUser)
}
