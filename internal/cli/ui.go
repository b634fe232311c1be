package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives user-facing results; logs and the spinner go to stderr.
var stdout io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleLink    = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// badge is a colored status marker in front of a message.
type badge struct {
	glyph string
	style lipgloss.Style
}

func (b badge) String() string { return b.style.Render(b.glyph) }

var (
	badgeSuccess = badge{"✓", lipgloss.NewStyle().Foreground(colorGreen)}
	badgeError   = badge{"✗", lipgloss.NewStyle().Foreground(colorRed)}
	badgeWarning = badge{"!", lipgloss.NewStyle().Foreground(colorYellow)}
	badgeInfo    = badge{"›", lipgloss.NewStyle().Foreground(colorGray)}
)

// Map freshness markers used by statsLine.
var (
	markFresh   = badge{"fresh", lipgloss.NewStyle().Foreground(colorGray)}
	markCached  = badge{"cached", lipgloss.NewStyle().Foreground(colorGreen)}
	markPartial = badge{"partial", lipgloss.NewStyle().Foreground(colorYellow)}
)

func say(b badge, msg string) {
	fmt.Fprintln(stdout, b.String()+" "+msg)
}

func printSuccess(format string, args ...any) { say(badgeSuccess, fmt.Sprintf(format, args...)) }
func printError(format string, args ...any)   { say(badgeError, fmt.Sprintf(format, args...)) }
func printInfo(format string, args ...any)    { say(badgeInfo, fmt.Sprintf(format, args...)) }

func printWarning(format string, args ...any) {
	say(badgeWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

func printStats(nodes, pages int, cached, truncated bool) {
	fmt.Fprintln(stdout, statsLine(nodes, pages, cached, truncated))
}

// statsLine summarises a generated map, e.g. "12 nodes · 3 pages · fresh".
func statsLine(nodes, pages int, cached, truncated bool) string {
	parts := []string{StyleDim.Render(fmt.Sprintf("%d nodes", nodes))}
	if pages > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d pages", pages)))
	}

	mark := markFresh
	switch {
	case truncated:
		mark = markPartial
	case cached:
		mark = markCached
	}
	parts = append(parts, mark.String())
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}
