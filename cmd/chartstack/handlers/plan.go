package handlers

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/imamik/chartstack/internal/release"
	"github.com/imamik/chartstack/internal/stack"
)

var (
	planColorBlue  = lipgloss.Color("#3b82f6")
	planColorDim   = lipgloss.Color("#6b7280")
	planColorWhite = lipgloss.Color("#f9fafb")
)

var (
	planTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(planColorWhite)

	planSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(planColorBlue)

	planDimStyle = lipgloss.NewStyle().
			Foreground(planColorDim)
)

// Plan prints the stack grouped into apply levels.
func Plan(_ context.Context, configPath string) error {
	loaded, err := loadStack(configPath, false)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, renderPlan(loaded.stack))
	return err
}

// renderPlan produces a lipgloss-styled listing of the apply levels.
func renderPlan(s *stack.Stack) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(planTitleStyle.Render(fmt.Sprintf("  chartstack plan: %s", s.Name())))
	b.WriteString("\n")
	b.WriteString(planDimStyle.Render("  " + strings.Repeat("═", 30)))
	b.WriteString("\n")

	if s.Len() == 0 {
		b.WriteString("\n")
		b.WriteString(planDimStyle.Render("  No add-ons enabled."))
		b.WriteString("\n")
		return b.String()
	}

	for i, level := range s.Levels() {
		b.WriteString("\n")
		b.WriteString(planSectionStyle.Render(fmt.Sprintf("  Level %d", i)))
		b.WriteString("\n")
		for _, res := range level {
			fmt.Fprintf(&b, "    %-30s %-12s %s\n", res.ResourceName(), res.ResourceKind(), chartLabel(res))
			if deps := dependencyNames(res); len(deps) > 0 {
				b.WriteString(planDimStyle.Render("      after " + strings.Join(deps, ", ")))
				b.WriteString("\n")
			}
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "  %d releases in %d levels\n", s.Len(), len(s.Levels()))

	return b.String()
}

func chartLabel(res release.Resource) string {
	switch r := res.(type) {
	case *release.Release:
		return fmt.Sprintf("%s@%s", r.Args.Chart, r.Args.Version)
	case *release.ChartRender:
		return fmt.Sprintf("%s@%s", r.Config.Chart, r.Config.Version)
	default:
		return ""
	}
}

func dependencyNames(res release.Resource) []string {
	deps := make([]string, 0, len(res.Dependencies()))
	for _, dep := range res.Dependencies() {
		deps = append(deps, dep.ResourceName())
	}
	return deps
}
