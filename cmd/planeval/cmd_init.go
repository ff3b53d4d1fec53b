package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/viki-bench/planeval/internal/wizard"
)

var initOutput string

func newInitCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [eval-file]",
		Short: "Create a run configuration interactively",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initCommandE,
	}

	cmd.Flags().StringVarP(&initOutput, "output", "o", "planeval.yaml", "Path for the generated configuration")

	return cmd
}

func initCommandE(cmd *cobra.Command, args []string) error {
	initialDataset := ""
	if len(args) == 1 {
		initialDataset = args[0]
	}

	if _, err := os.Stat(initOutput); err == nil {
		return fmt.Errorf("%s already exists, refusing to overwrite", initOutput)
	}

	cfg, err := wizard.RunConfigWizard(cmd.InOrStdin(), cmd.OutOrStdout(), initialDataset)
	if err != nil {
		return err
	}

	if err := cfg.Save(initOutput); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", initOutput)
	fmt.Fprintf(cmd.OutOrStdout(), "Run it with: planeval score --config %s\n", initOutput)
	return nil
}
