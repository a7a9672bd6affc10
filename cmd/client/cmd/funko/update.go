package funko

import (
	"github.com/spf13/cobra"
)

var (
	updateUser   string
	updateID     int
	updateFields fields
)

var UpdateCmd = &cobra.Command{
	Use:     "update",
	Aliases: []string{"modify"},
	Short:   "Change fields of a stored Funko",
	Long: `update sends only the flags given on the command line; every other
field keeps its stored value. The ID selects the Funko and cannot be changed.`,
	Example: `  funko update --user alice --id 1 --market-value 75 --exclusive`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		resp, err := app.Update(cmd.Context(), updateUser, updateFields.payload(cmd, updateID))
		return report(cmd, resp, err)
	},
}

func init() {
	addUserFlag(UpdateCmd, &updateUser)
	addIDFlag(UpdateCmd, &updateID)
	updateFields.register(UpdateCmd)
}
