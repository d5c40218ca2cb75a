package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"candy/internal/diagfmt"
	"candy/internal/driver"
	"candy/internal/hir"
)

var hirCmd = &cobra.Command{
	Use:   "hir [flags] <file.candy|directory>",
	Short: "Lower candy sources and dump the HIR",
	Long:  `Lower every function body under the given path and print the resulting HIR expressions with their ids and types`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHir,
}

func runHir(cmd *cobra.Command, args []string) error {
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
	fileSet, results, err := driver.CheckPaths(cmd.Context(), args, driver.Options{MaxDiagnostics: maxDiags})
	if err != nil {
		return err
	}

	hadErrors := false
	for _, r := range results {
		if r.Bag.HasErrors() {
			hadErrors = true
			diagfmt.Pretty(os.Stderr, r.Bag, fileSet, diagfmt.PrettyOpts{Color: useColor(cmd)})
		}
		if r.Engine == nil {
			continue
		}
		for _, fn := range r.Engine.Functions() {
			body, _, ok := r.Engine.LowerBody(fn)
			if !ok {
				continue
			}
			if err := hir.Dump(os.Stdout, r.Engine.Decls().Path(fn), body, r.Engine.Types()); err != nil {
				return err
			}
			fmt.Println()
		}
	}
	if hadErrors {
		os.Exit(1)
	}
	return nil
}
