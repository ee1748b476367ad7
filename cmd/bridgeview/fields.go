package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scriptbind/scriptbind/desc"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields <package-dir> <type> <field>...",
	Short: "Resolve fields of a type to their declaring class",
	Long: `Resolve one or more member names against a type and print where
each member is actually declared, its kind and its field index.`,
	Args: cobra.MinimumNArgs(3),
	RunE: runFields,
}

func runFields(cmd *cobra.Command, args []string) error {
	_, registry, err := openRegistry(args[0])
	if err != nil {
		return err
	}

	cd := registry.RegisterByName(args[1])
	if cd == nil {
		return fmt.Errorf("type not found: %s", args[1])
	}

	for _, name := range args[2:] {
		fd := cd.RegisterField(name, cd)
		if fd == nil {
			fmt.Fprintf(output, "%-24s (no such field)\n", name)
			continue
		}
		printFieldDetail(name, fd)
	}
	return nil
}

func printFieldDetail(name string, fd *desc.FieldDesc) {
	fmt.Fprintf(output, "%s:\n", name)
	fmt.Fprintf(output, "  DeclaringClass: %s\n", fd.OuterClass.Name())
	fmt.Fprintf(output, "  QueryClass: %s\n", fd.QueryClass.Name())
	fmt.Fprintf(output, "  FieldIndex: %d\n", fd.FieldIndex)

	switch {
	case fd.IsProperty():
		p := fd.Property()
		fmt.Fprintf(output, "  Kind: property\n")
		fmt.Fprintf(output, "  Type: %s\n", p.TypeName())
		fmt.Fprintf(output, "  Offset: %d\n", p.Offset())
	case fd.IsFunction():
		f := fd.Function()
		fmt.Fprintf(output, "  Kind: function\n")
		fmt.Fprintf(output, "  Params: %d\n", len(f.Params()))
		for _, p := range f.Params() {
			if def, ok := f.DefaultFor(p.Name); ok {
				fmt.Fprintf(output, "    %s %s = %s\n", p.Name, p.Type, def)
			} else {
				fmt.Fprintf(output, "    %s %s\n", p.Name, p.Type)
			}
		}
	}

	fmt.Fprintln(output)
}
