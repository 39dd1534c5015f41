package cmd

import (
	"fmt"

	"github.com/3218923350/ai4s-enum/internal/config"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List config YAML files in ~/.config/enumctl/",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		files, err := config.ListConfigs()
		if err != nil {
			fatal(err)
		}
		if len(files) == 0 {
			fmt.Println("No config files found in ~/.config/enumctl/")
			return
		}
		fmt.Println("Config YAML Files:")
		for _, f := range files {
			fmt.Printf("  - %s\n", f)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
