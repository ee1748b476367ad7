package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scriptbind/scriptbind/host"
)

var infoCmd = &cobra.Command{
	Use:   "info <package-dir>",
	Short: "Show summary information about a package directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	world, _, err := openRegistry(args[0])
	if err != nil {
		return err
	}

	var classes, structs, interfaces, native, script int
	for s := range world.All() {
		switch s.Kind() {
		case host.KindClass:
			classes++
		case host.KindScriptStruct:
			structs++
		case host.KindInterface:
			interfaces++
		}
		if s.IsNative() {
			native++
		} else {
			script++
		}
	}

	fmt.Fprintf(output, "Package: %s\n", args[0])
	fmt.Fprintf(output, "  Classes:    %d\n", classes)
	fmt.Fprintf(output, "  Structs:    %d\n", structs)
	fmt.Fprintf(output, "  Interfaces: %d\n", interfaces)
	fmt.Fprintf(output, "  Native:     %d\n", native)
	fmt.Fprintf(output, "  Script:     %d\n", script)
	return nil
}
