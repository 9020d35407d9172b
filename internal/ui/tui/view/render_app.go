package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	zone "github.com/lrstanley/bubblezone"

	"logscope/internal/ui/tui/render"
	"logscope/internal/ui/tui/theme"
)

const (
	titleRows       = 1
	filterRows      = 2
	helpRows        = 1
	frameRows       = 2
	frameCols       = 2
	filesPercent    = 20
	minFilesWidth   = 12
	minBodyRows     = 3
	detailMinHeight = 18
	detailMinRows   = 4
	detailMaxRows   = 10
	popupMinWidth   = 24
	popupMaxVisible = 16
	popupFrameInset = 4
)

func RenderApp(state *State) string {
	if state.Width == 0 {
		return "initializing..."
	}

	detailHeight := 0
	if state.Height >= detailMinHeight {
		detailHeight = min(max(state.Height/4, detailMinRows), detailMaxRows)
	}
	bodyHeight := max(state.Height-titleRows-filterRows-helpRows-detailHeight, minBodyRows)
	filesWidth := max(state.Width*filesPercent/100, minFilesWidth)
	entriesWidth := max(state.Width-filesWidth, minFilesWidth)

	sections := []string{
		renderTitle(state),
		zone.Mark(zoneFilter, renderFilterBar(state)),
		lipgloss.JoinHorizontal(lipgloss.Top,
			zone.Mark(zoneFiles, renderFilesPane(state, filesWidth, bodyHeight)),
			zone.Mark(zoneEntries, renderEntriesPane(state, entriesWidth, bodyHeight)),
		),
	}
	if detailHeight > 0 {
		sections = append(sections, zone.Mark(zoneDetail, renderDetailPane(state, state.Width, detailHeight)))
	}
	sections = append(sections, renderHelp(state))
	base := strings.Join(sections, "\n")

	if state.Popup.Open {
		return render.Overlay(base, renderLevelPopup(state), state.Width, state.Height)
	}
	return base
}

func renderTitle(state *State) string {
	title := theme.TitleStyle.Render("logscope")
	summary := theme.HelpStyle.Render(fmt.Sprintf(" %d files", len(state.Logs)))
	line := title + summary
	if state.Notice != "" {
		room := state.Width - ansi.StringWidth(line) - 2
		if room > 8 {
			line += "  " + theme.WarnStyle.Render(render.TruncateDisplayWidth(state.Notice, room))
		}
	}
	return ansi.Truncate(line, state.Width, "")
}

func renderFilterBar(state *State) string {
	label := "Filter "
	if state.Input == EditingFilter {
		label = theme.FocusStyle.Render("Filter ")
	}
	top := label + RenderModeSegments(state.Filter.Mode())
	if state.Filter.Invalid() {
		top += " " + theme.ErrorStyle.Render("invalid: "+state.Filter.CompileError().Error())
	}
	if n := state.Filter.ExcludedCount(); n > 0 {
		top += " " + theme.WarnStyle.Render(fmt.Sprintf("%d level(s) hidden", n))
	}
	state.Query.Width = max(state.Width-ansi.StringWidth(state.Query.Prompt)-1, 1)
	return ansi.Truncate(top, state.Width, "") + "\n" + ansi.Truncate(state.Query.View(), state.Width, "")
}

func paneColor(focused bool) lipgloss.TerminalColor {
	if focused {
		return theme.FocusColor
	}
	return theme.BorderColor
}

func renderFilesPane(state *State, width int, height int) string {
	innerWidth := max(width-frameCols, 1)
	innerHeight := max(height-frameRows, 1)
	focused := state.Focus == PaneFiles && state.Input == Browsing

	state.cache.fileOffset = windowStart(state.cache.fileOffset, state.File, innerHeight, len(state.Logs))
	lines := make([]string, 0, innerHeight)
	for i := state.cache.fileOffset; i < len(state.Logs) && len(lines) < innerHeight; i++ {
		log := state.Logs[i]
		row, known := state.Health[log.Path()]
		lines = append(lines, renderFileLine(log.Name(), state.Statuses[log.Path()], row, known, innerWidth, i == state.File, focused))
	}
	return render.Frame("Files", strings.Join(lines, "\n"), width, height, paneColor(focused))
}

func renderEntriesPane(state *State, width int, height int) string {
	innerWidth := max(width-frameCols, 1)
	innerHeight := max(height-frameRows, 1)
	focused := state.Focus == PaneEntries && state.Input == Browsing

	log := state.SelectedLog()
	if log == nil {
		return render.Frame("Entries", theme.HelpStyle.Render("no files"), width, height, paneColor(focused))
	}
	snap, indices := state.Visible(log)
	selected := log.Selected()
	title := fmt.Sprintf("%s (%d/%d)", log.Name(), len(indices), snap.Len())
	if dropped := snap.Dropped; dropped > 0 {
		title += fmt.Sprintf(" %d skipped", dropped)
	}

	view := state.cache.logs[log]
	view.offset = windowStart(view.offset, selected, innerHeight, len(indices))
	lines := make([]string, 0, innerHeight)
	for i := view.offset; i < len(indices) && len(lines) < innerHeight; i++ {
		entry := snap.At(indices[i])
		highlights := state.Filter.Highlights(entry.Message)
		lines = append(lines, renderEntryLine(entry, highlights, innerWidth, i == selected, focused))
	}
	if len(indices) == 0 {
		placeholder := "waiting for entries"
		if snap.Len() > 0 {
			placeholder = "no entries match the filter"
		}
		lines = append(lines, theme.HelpStyle.Render(placeholder))
	}
	return render.Frame(title, strings.Join(lines, "\n"), width, height, paneColor(focused))
}

func renderDetailPane(state *State, width int, height int) string {
	innerWidth := max(width-frameCols, 1)
	innerHeight := max(height-frameRows, 1)
	state.Detail.Width = innerWidth
	state.Detail.Height = innerHeight

	log := state.SelectedLog()
	content := ""
	at := -1
	if log != nil {
		snap, indices := state.Visible(log)
		if selected := log.Selected(); selected < len(indices) {
			at = indices[selected]
			content = renderDetail(snap.At(at), innerWidth)
		}
	}
	if log != state.cache.detailLog || at != state.cache.detailAt {
		state.cache.detailLog = log
		state.cache.detailAt = at
		state.Detail.SetContent(content)
		state.Detail.GotoTop()
	} else {
		state.Detail.SetContent(content)
	}
	return render.Frame("Detail", state.Detail.View(), width, height, theme.BorderColor)
}

func renderHelp(state *State) string {
	if state.Input == EditingFilter {
		return theme.HelpStyle.Render(state.HelpView.View(state.Keys.Editing()))
	}
	return theme.HelpStyle.Render(state.HelpView.View(state.Keys.Browsing()))
}

func renderLevelPopup(state *State) string {
	levels := state.Levels.All()
	lines := make([]string, 0, len(levels)+2)
	lines = append(lines, theme.TitleStyle.Render("Levels"))
	if len(levels) == 0 {
		lines = append(lines, theme.HelpStyle.Render("no levels seen yet"))
	}

	width := popupMinWidth
	for _, lvl := range levels {
		width = max(width, ansi.StringWidth(lvl.Name())+popupFrameInset)
	}
	width = min(width, max(state.Width-popupFrameInset, popupMinWidth))

	start := windowStart(0, state.Popup.Selected, popupMaxVisible, len(levels))
	for i := start; i < len(levels) && i < start+popupMaxVisible; i++ {
		mark := "[x] "
		if state.Filter.IsExcluded(levels[i]) {
			mark = "[ ] "
		}
		line := render.PadRight(mark+render.TruncateDisplayWidth(levels[i].Name(), width-popupFrameInset), width)
		if i == state.Popup.Selected {
			line = theme.SelectedFocused.Render(line)
		} else {
			line = theme.LevelStyle(levels[i].Name()).Render(line)
		}
		lines = append(lines, zone.Mark(zonePopupLevel(i), line))
	}
	lines = append(lines, theme.HelpStyle.Render("enter toggle • F/esc close"))
	return theme.ModalStyle.Render(strings.Join(lines, "\n"))
}
