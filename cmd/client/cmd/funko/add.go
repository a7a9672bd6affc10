package funko

import (
	"github.com/spf13/cobra"
)

var (
	addUser   string
	addID     int
	addFields fields
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a Funko to a collection",
	Example: `  funko add --user alice --id 1 --name "Darth Vader" --description "Sith lord" \
    --type "Pop! Star Wars" --genre "Star Wars" --franchise "Star Wars" --number 1 --market-value 50`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := appFrom(cmd)
		if err != nil {
			return err
		}
		resp, err := app.Add(cmd.Context(), addUser, addFields.funko(addID))
		return report(cmd, resp, err)
	},
}

func init() {
	addUserFlag(AddCmd, &addUser)
	addIDFlag(AddCmd, &addID)
	addFields.register(AddCmd)
	for _, name := range []string{"name", "description", "type", "genre", "franchise", "number", "market-value"} {
		_ = AddCmd.MarkFlagRequired(name)
	}
}
