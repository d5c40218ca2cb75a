package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"candy/internal/diag"
	"candy/internal/diagfmt"
	"candy/internal/driver"
	"candy/internal/project"
	"candy/internal/ui"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [path...]",
	Short: "Check candy source files",
	Long:  `Check parses and lowers every *.candy file under the given paths (default: the project root) and reports diagnostics`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("disk-cache", false, "skip re-checking unchanged files via the disk cache")
	checkCmd.Flags().Bool("ui", false, "show interactive progress")
}

func runCheck(cmd *cobra.Command, args []string) error {
	paths := args
	if len(paths) == 0 {
		// Default to the enclosing project's root, or the working directory.
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		paths = []string{wd}
		if manifestPath, ok := project.Find(wd); ok {
			if m, err := project.Load(manifestPath); err == nil {
				paths = []string{m.Root}
			}
		}
	}

	jobs, _ := cmd.Flags().GetInt("jobs")
	maxDiags, _ := cmd.Flags().GetInt("max-diagnostics")
	format, _ := cmd.Flags().GetString("format")
	withNotes, _ := cmd.Flags().GetBool("with-notes")
	useCache, _ := cmd.Flags().GetBool("disk-cache")
	withUI, _ := cmd.Flags().GetBool("ui")

	opts := driver.Options{Jobs: jobs, MaxDiagnostics: maxDiags}
	if useCache {
		cache, err := driver.OpenDiskCache("candy")
		if err != nil {
			return fmt.Errorf("open disk cache: %w", err)
		}
		opts.Cache = cache
	}

	var events chan driver.Event
	uiDone := make(chan error, 1)
	if withUI && isTerminal(os.Stdout) {
		files, err := driver.ListFiles(paths)
		if err != nil {
			return err
		}
		events = make(chan driver.Event, 64)
		opts.Events = events
		prog := tea.NewProgram(ui.NewProgressModel("checking", files, events))
		go func() {
			_, err := prog.Run()
			uiDone <- err
		}()
	}

	fileSet, results, err := driver.CheckPaths(cmd.Context(), paths, opts)
	if events != nil {
		close(events)
		<-uiDone
	}
	if err != nil {
		return err
	}

	merged := diag.NewBag(maxDiags)
	for _, r := range results {
		merged.Merge(r.Bag)
	}
	merged.Sort()

	switch format {
	case "json":
		if err := diagfmt.JSON(os.Stdout, merged, fileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     withNotes,
		}); err != nil {
			return err
		}
	default:
		diagfmt.Pretty(os.Stdout, merged, fileSet, diagfmt.PrettyOpts{
			Color:     useColor(cmd),
			ShowNotes: withNotes,
		})
	}

	if merged.HasErrors() {
		os.Exit(1)
	}
	return nil
}
