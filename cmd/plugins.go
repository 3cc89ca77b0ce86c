package cmd

import (
	"github.com/spf13/cobra"

	"github.com/hydroseq/penstock/app/plugins"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "List registered plugin identifiers per capability",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("reservoirs:")
		for _, n := range plugins.Reservoirs.Names() {
			cmd.Println("  " + n)
		}
		cmd.Println("outlets:")
		for _, n := range plugins.Outlets.Names() {
			cmd.Println("  " + n)
		}
		cmd.Println("operations:")
		for _, n := range plugins.Operations.Names() {
			cmd.Println("  " + n)
		}
	},
}

func init() {
	rootCmd.AddCommand(pluginsCmd)
}
