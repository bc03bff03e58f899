package browse

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/lakshaymaurya-felt/cachemole/internal/core"
	"github.com/lakshaymaurya-felt/cachemole/internal/scan"
	"github.com/lakshaymaurya-felt/cachemole/internal/selection"
	"github.com/lakshaymaurya-felt/cachemole/internal/ui"
)

// ─── Color tokens ────────────────────────────────────────────────────────────

var (
	clrDim     = ui.ColorMuted
	clrName    = ui.ColorText
	clrProject = ui.ColorCoral
	clrFailed  = ui.ColorError
	clrCursor  = ui.ColorPrimary
)

// ─── Top-level view ──────────────────────────────────────────────────────────

func (m Model) renderView() string {
	if m.quitting {
		return ""
	}
	w := max(m.width, 40)

	var s strings.Builder
	s.WriteString(m.renderHeader(w))
	s.WriteString("\n")
	s.WriteString(m.renderBody(w))
	s.WriteString("\n")
	if panel := m.renderPanel(w); panel != "" {
		s.WriteString(panel)
		s.WriteString("\n")
	}
	s.WriteString(m.renderFooter())
	return s.String()
}

// ─── Header ──────────────────────────────────────────────────────────────────

func (m Model) renderHeader(w int) string {
	title := ui.TitleStyle().Render("  " + ui.IconDiamond + " cachemole")
	if m.dryRun {
		title += "  " + ui.TagWarningStyle().Render(" DRY RUN ")
	}

	totals := lipgloss.NewStyle().
		Foreground(ui.ColorTextDim).
		Render(fmt.Sprintf("  %d items    %s reclaimable    %s freed",
			len(m.ctl.Visible()),
			ui.FormatSize(m.ctl.Remaining()),
			ui.FormatSize(m.ctl.Freed())))

	inner := lipgloss.JoinVertical(lipgloss.Left, title, totals)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorCoral).
		Width(w - 2).
		Render(inner)
}

// ─── Body (candidate list) ───────────────────────────────────────────────────

func (m Model) renderBody(w int) string {
	items := m.ctl.Visible()
	if len(items) == 0 {
		msg := "  Nothing left to clean."
		if m.ctl.DeletedCount() > 0 {
			msg = fmt.Sprintf("  %s All cleaned! %s freed.", ui.IconCheck, ui.FormatSize(m.ctl.Freed()))
			return ui.SuccessStyle().Render(msg)
		}
		return lipgloss.NewStyle().Foreground(ui.ColorMuted).Italic(true).Render(msg)
	}

	vh := m.viewportHeight()
	barWidth := 12
	if w > 110 {
		barWidth = 20
	}
	total := m.ctl.Remaining()

	var lines []string
	for i := m.offset; i < len(items) && i < m.offset+vh; i++ {
		lines = append(lines, m.renderEntry(i+1, items[i], total, barWidth, w, i == m.ctl.Cursor()))
	}

	if len(items) > vh {
		lines = append(lines, lipgloss.NewStyle().
			Foreground(ui.ColorMuted).
			Italic(true).
			Render(fmt.Sprintf("  ── %d/%d items ──", min(m.offset+vh, len(items)), len(items))))
	}

	return strings.Join(lines, "\n")
}

func (m Model) renderEntry(num int, c *scan.Candidate, total int64, barWidth, w int, selected bool) string {
	pct := ui.Percentage(c.Size, total)
	bar := ui.GradientBar(pct, barWidth)

	nameColor := clrName
	if c.IsProject() {
		nameColor = clrProject
	}
	if c.State == scan.StateFailed {
		nameColor = clrFailed
	}

	maxPath := max(w-barWidth-40, 16)
	path := ui.TruncateLeft(ui.DisplayPath(c.Path, m.home), maxPath)
	pathStr := lipgloss.NewStyle().Foreground(nameColor).Render(path)

	numStr := lipgloss.NewStyle().Foreground(clrDim).Render(fmt.Sprintf("%3d.", num))
	sizeStr := fmt.Sprintf("%10s", ui.FormatSize(c.Size))
	catStr := lipgloss.NewStyle().Foreground(ui.ColorTextDim).Render(fmt.Sprintf("%-8s", c.Category))

	tag := ""
	switch {
	case c.State == scan.StateFailed:
		tag = " " + ui.TagErrorStyle().Render(" "+core.ReasonOf(c.Err)+" ")
	case c.Partial:
		tag = " " + ui.TagWarningStyle().Render(" partial ")
	}

	line := fmt.Sprintf("  %s %s %s  %s  %s%s", numStr, bar, sizeStr, catStr, pathStr, tag)

	if selected {
		cursor := lipgloss.NewStyle().Foreground(clrCursor).Bold(true).Render(ui.IconBlock)
		line = " " + cursor + line[2:]
	}
	return line
}

// ─── Details / confirmation panel ────────────────────────────────────────────

func (m Model) renderPanel(w int) string {
	switch m.ctl.Mode() {
	case selection.ModeConfirming:
		c := m.ctl.Pending()
		verb := "Delete"
		if m.dryRun {
			verb = "Simulate deleting"
		}
		return lipgloss.NewStyle().
			Foreground(ui.ColorError).
			Bold(true).
			Render(fmt.Sprintf("  %s %s %s (%s)? y to confirm, any other key to cancel",
				ui.IconWarning, verb, ui.DisplayPath(c.Path, m.home), ui.FormatSize(c.Size)))

	case selection.ModeDeleting:
		msg := "  Deleting " + ui.DisplayPath(m.ctl.Pending().Path, m.home) + "…"
		if m.quitAfterDelete {
			msg += " will quit when done"
		}
		return ui.MutedStyle().Italic(true).Render(msg)
	}

	if !m.ctl.DetailsOpen() {
		return ""
	}
	c := m.ctl.Current()
	if c == nil {
		return ""
	}

	rows := []string{
		"Path:      " + c.Path,
		"Size:      " + ui.FormatSize(c.Size) + " (" + core.FormatCount(c.Size) + " bytes)",
		"Category:  " + string(c.Category),
		"Source:    " + c.Source,
		"Modified:  " + ui.FormatAge(c.LastModified),
		"State:     " + c.State.String(),
	}
	if c.IsProject() {
		rows = append(rows, "Project:   "+ui.DisplayPath(filepath.Dir(c.Path), m.home))
	}
	if !ui.InsideHome(c.Path, m.home) {
		rows = append(rows, "Note:      outside your home directory")
	}
	if c.Partial {
		rows = append(rows, "Note:      some entries could not be read; size is a lower bound")
	}
	if c.Err != nil {
		rows = append(rows, "Error:     "+c.Err.Error())
	}

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ui.ColorSecondary).
		Width(w - 2).
		Render(strings.Join(rows, "\n"))
}

// ─── Footer ──────────────────────────────────────────────────────────────────

func (m Model) renderFooter() string {
	var parts []string

	if err := m.ctl.LastError(); err != nil {
		parts = append(parts, ui.ErrorStyle().Render(
			fmt.Sprintf("  %s %s: %s", ui.IconError, core.ReasonOf(err), err.Error())))
	}

	parts = append(parts, ui.HintBarStyle().Render("  "+m.help.View(m.keys)))
	return strings.Join(parts, "\n")
}
