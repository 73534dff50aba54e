package commands

import (
	"fmt"
	"sort"

	"github.com/docstage/docstage/internal/theme"
)

// ListCmd implements the 'list' command.
type ListCmd struct{}

func (l *ListCmd) Run(_ *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}

	reg, err := BuildTargets(cfg, ResolveOutputDir("", cfg), nil)
	if err != nil {
		return err
	}

	for _, t := range reg.All() {
		marker := " "
		if t.Optional {
			marker = "*"
		}
		fmt.Printf("%s %-12s %s\n", marker, t.Name, t.Description)
	}
	fmt.Println("\n* optional: run explicitly, excluded from 'docstage build'")

	fmt.Println("\nThemes:")
	for _, line := range themeLines(cfg.Docs.Theme) {
		fmt.Println(line)
	}
	return nil
}

// themeLines formats the registered themes, marking the configured one.
func themeLines(active string) []string {
	names := theme.Names()
	sort.Strings(names)
	lines := make([]string, 0, len(names)+1)
	seen := false
	for _, n := range names {
		marker := " "
		if n == active {
			marker = ">"
			seen = true
		}
		lines = append(lines, fmt.Sprintf("%s %-12s %s", marker, n, theme.DisplayName(n)))
	}
	if active != "" && !seen {
		lines = append(lines, fmt.Sprintf("> %-12s %s (unregistered)", active, theme.DisplayName(active)))
	}
	return lines
}
