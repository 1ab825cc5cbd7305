package commands

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/agentcore/agentcore/internal/builtintool"
)

var toolsDir string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List the built-in tool catalog, grouped by category",
	RunE:  runTools,
}

func init() {
	toolsCmd.Flags().StringVar(&toolsDir, "directory", "", "Working directory the bash/file tools operate relative to")
}

func runTools(cmd *cobra.Command, args []string) error {
	dir, err := workDir(toolsDir)
	if err != nil {
		return err
	}

	reg := builtintool.DefaultRegistry(dir)
	valid, warnings := reg.ValidateGraceful()
	for _, w := range warnings {
		fmt.Printf("warning: %s\n", w.Error())
	}

	byCategory := map[string][]builtintool.CLIMetadata{}
	for _, t := range valid {
		meta := builtintool.DeriveCLIMetadata(t)
		if meta.Hidden {
			continue
		}
		byCategory[meta.Category] = append(byCategory[meta.Category], meta)
	}

	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)

	for _, c := range categories {
		fmt.Println(c + ":")
		entries := byCategory[c]
		sort.Slice(entries, func(i, j int) bool { return entries[i].SubName < entries[j].SubName })
		for _, e := range entries {
			fmt.Printf("  %-20s %s\n", e.SubName, e.Summary)
		}
	}

	stats := reg.Stats()
	fmt.Printf("\n%d total, %d valid, %d invalid\n", stats.Total, stats.Valid, stats.Invalid)
	return nil
}
