// Package commands defines the campusctl command tree.
package commands

import (
	"github.com/spf13/cobra"
)

// Root builds the campusctl command tree.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "campusctl",
		Short:         "Operations CLI for the campus platform",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(seedCmd())
	return root
}
