package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain <package-dir> <type>",
	Short: "Print the inheritance chain of a type",
	Args:  cobra.ExactArgs(2),
	RunE:  runChain,
}

func runChain(cmd *cobra.Command, args []string) error {
	_, registry, err := openRegistry(args[0])
	if err != nil {
		return err
	}

	cd := registry.RegisterByName(args[1])
	if cd == nil {
		return fmt.Errorf("type not found: %s", args[1])
	}

	for i, c := range cd.InheritanceChain() {
		marker := ""
		if c.IsInterface() {
			marker = " (interface)"
		}
		fmt.Fprintf(output, "%*s%s%s\n", i*2, "", c.Name(), marker)
	}
	return nil
}
