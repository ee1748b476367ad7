package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var typesCmd = &cobra.Command{
	Use:   "types <package-dir>",
	Short: "List all types in a package directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runTypes,
}

func runTypes(cmd *cobra.Command, args []string) error {
	world, _, err := openRegistry(args[0])
	if err != nil {
		return err
	}

	count := 0
	for s := range world.All() {
		origin := "script"
		if s.IsNative() {
			origin = "native"
		}
		fmt.Fprintf(output, "%-24s %-10s %-7s size=%-6d props=%d funcs=%d\n",
			s.RegistryName(), s.Kind().String(), origin, s.Size(),
			len(s.DirectProperties()), len(s.DirectFunctions()))
		count++
	}

	fmt.Fprintf(output, "\n%d type(s)\n", count)
	return nil
}
