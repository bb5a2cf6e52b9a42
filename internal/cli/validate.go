package cli

import (
	"github.com/spf13/cobra"

	"github.com/rpavlik/kanboard-documentation/internal/validator"
)

func newValidateCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [document]",
		Short: "Check the structure of a generated OpenRPC document",
		Long: `Validate reads a JSON or YAML OpenRPC document and checks it for
structural errors. Without an argument the configured output document is
checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				cfg, err := root.loadConfig()
				if err != nil {
					return err
				}
				path = cfg.Output.Document
			}
			return validator.ValidateFile(path, cmd.OutOrStdout())
		},
	}
}
