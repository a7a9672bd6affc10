package funko

import (
	"github.com/spf13/cobra"
)

var (
	readUser string
	readID   int
)

var ReadCmd = &cobra.Command{
	Use:   "read",
	Short: "Show one Funko of a collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		resp, err := app.Read(cmd.Context(), readUser, readID)
		return report(cmd, resp, err)
	},
}

func init() {
	addUserFlag(ReadCmd, &readUser)
	addIDFlag(ReadCmd, &readID)
}
