package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scriptbind/scriptbind/desc"
	"github.com/scriptbind/scriptbind/host"
)

var (
	outputFile string
	verbose    bool
	output     io.Writer
)

var rootCmd = &cobra.Command{
	Use:   "bridgeview",
	Short: "Script type package viewer and analyzer",
	Long: `bridgeview is a command-line tool for inspecting script type
packages: the YAML type definitions a scripting bridge loads to
reflect over host classes, structs and interfaces.

It can list types, resolve fields to their declaring class, print
inheritance chains and watch a package directory for hot reloads.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}

		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return fmt.Errorf("failed to create output file: %w", err)
			}
			output = f
		} else {
			output = os.Stdout
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if f, ok := output.(*os.File); ok && f != os.Stdout {
			f.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "write output to file instead of stdout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(chainCmd)
	rootCmd.AddCommand(watchCmd)
}

// openRegistry loads a package directory and builds a descriptor
// registry over it.
func openRegistry(dir string) (*host.World, *desc.Registry, error) {
	if st, err := os.Stat(dir); err != nil {
		return nil, nil, fmt.Errorf("failed to open package dir: %w", err)
	} else if !st.IsDir() {
		return nil, nil, fmt.Errorf("%s is not a directory", dir)
	}

	world := host.NewWorld()
	world.AttachPackageDir(dir)
	if err := world.LoadAll(); err != nil {
		return nil, nil, fmt.Errorf("failed to load package: %w", err)
	}

	return world, desc.NewRegistry(world), nil
}
