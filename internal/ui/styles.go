package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Design System Colors - Adaptive based on terminal background
var (
	ColorPrimary   lipgloss.Color
	ColorSecondary lipgloss.Color
	ColorAccent    lipgloss.Color

	ColorSuccess lipgloss.Color
	ColorWarning lipgloss.Color
	ColorError   lipgloss.Color
	ColorInfo    lipgloss.Color

	ColorText      lipgloss.Color
	ColorTextMuted lipgloss.Color
	ColorTextDim   lipgloss.Color
	ColorBorder    lipgloss.Color
)

// initializeColors picks the palette from GLAMOUR_STYLE or the terminal
// background, then rebuilds the component styles
func initializeColors() {
	switch os.Getenv("GLAMOUR_STYLE") {
	case "light":
		setLightThemeColors()
	case "dark":
		setDarkThemeColors()
	default:
		if lipgloss.HasDarkBackground() {
			setDarkThemeColors()
		} else {
			setLightThemeColors()
		}
	}
	buildStyles()
}

func setDarkThemeColors() {
	ColorPrimary = lipgloss.Color("205")   // Bright magenta/pink
	ColorSecondary = lipgloss.Color("33")  // Bright cyan/blue
	ColorAccent = lipgloss.Color("214")    // Bright orange/yellow
	ColorSuccess = lipgloss.Color("10")
	ColorWarning = lipgloss.Color("11")
	ColorError = lipgloss.Color("9")
	ColorInfo = lipgloss.Color("12")
	ColorText = lipgloss.Color("252")
	ColorTextMuted = lipgloss.Color("244")
	ColorTextDim = lipgloss.Color("240")
	ColorBorder = lipgloss.Color("238")
}

func setLightThemeColors() {
	ColorPrimary = lipgloss.Color("125")
	ColorSecondary = lipgloss.Color("24")
	ColorAccent = lipgloss.Color("130")
	ColorSuccess = lipgloss.Color("22")
	ColorWarning = lipgloss.Color("136")
	ColorError = lipgloss.Color("160")
	ColorInfo = lipgloss.Color("24")
	ColorText = lipgloss.Color("232")
	ColorTextMuted = lipgloss.Color("240")
	ColorTextDim = lipgloss.Color("244")
	ColorBorder = lipgloss.Color("248")
}

// Component Styles
var (
	StyleTitle            lipgloss.Style
	StyleText             lipgloss.Style
	StyleTextMuted        lipgloss.Style
	StyleTextDim          lipgloss.Style
	StyleFocused          lipgloss.Style
	StyleUnselected       lipgloss.Style
	StyleSuccess          lipgloss.Style
	StyleWarning          lipgloss.Style
	StyleError            lipgloss.Style
	StyleInfo             lipgloss.Style
	StyleModal            lipgloss.Style
	StyleContentContainer lipgloss.Style
	StyleFormLabel        lipgloss.Style
	StyleMetadata         lipgloss.Style
	StyleScore            lipgloss.Style
	StyleScoreBest        lipgloss.Style

	StyleScrollIndicator       lipgloss.Style
	StyleScrollIndicatorActive lipgloss.Style
)

func buildStyles() {
	StyleTitle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true).
		Padding(0, 1)

	StyleText = lipgloss.NewStyle().Foreground(ColorText)
	StyleTextMuted = lipgloss.NewStyle().Foreground(ColorTextMuted)
	StyleTextDim = lipgloss.NewStyle().Foreground(ColorTextDim)

	StyleFocused = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)

	StyleUnselected = lipgloss.NewStyle().Foreground(ColorTextMuted)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleInfo = lipgloss.NewStyle().Foreground(ColorInfo)

	StyleModal = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)

	StyleContentContainer = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(ColorBorder).
		PaddingLeft(1)

	StyleFormLabel = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true)

	StyleMetadata = lipgloss.NewStyle().
		Foreground(ColorTextMuted).
		Italic(true).
		Padding(0, 1)

	StyleScore = lipgloss.NewStyle().Foreground(ColorTextMuted)
	StyleScoreBest = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)

	StyleScrollIndicator = lipgloss.NewStyle().
		Foreground(ColorBorder).
		Align(lipgloss.Center)

	StyleScrollIndicatorActive = lipgloss.NewStyle().
		Foreground(ColorSecondary).
		Bold(true).
		Align(lipgloss.Center)
}

func init() {
	setDarkThemeColors()
	buildStyles()
}

// CreateHeader renders a page title
func CreateHeader(titleText string) string {
	return StyleTitle.Render(titleText)
}

func CreateMetadata(text string) string {
	return StyleMetadata.Render(text)
}

// CreateContextualHelp shows the essential key row, plus the additional rows
// when expanded
func CreateContextualHelp(essential []string, additional []string, showExpanded bool, width int) string {
	firstRow := essential
	if len(additional) > 0 && !showExpanded {
		firstRow = append(append([]string{}, essential...), "? more")
	}

	lines := []string{clip(strings.Join(firstRow, " • "), width)}
	if showExpanded {
		for _, row := range additional {
			lines = append(lines, clip(row, width))
		}
	}
	return StyleTextDim.Render(strings.Join(lines, "\n"))
}

func clip(text string, width int) string {
	if width > 7 && len(text) > width-4 {
		return text[:width-7] + "..."
	}
	return text
}

func CreateStatus(text string, statusType string) string {
	switch statusType {
	case "success":
		return StyleSuccess.Render(text)
	case "warning":
		return StyleWarning.Render(text)
	case "error":
		return StyleError.Render(text)
	case "info":
		return StyleInfo.Render(text)
	default:
		return StyleText.Render(text)
	}
}

// CreateOption renders one row of a picker
func CreateOption(label, value string, isSelected bool) string {
	if isSelected {
		return StyleFocused.Render("▶ "+label) + "  " + StyleText.Render(value)
	}
	return StyleUnselected.Render("  "+label) + "  " + StyleTextMuted.Render(value)
}

// CreateScoreLine renders one classifier score with a bar
func CreateScoreLine(name string, score int, best bool) string {
	line := fmt.Sprintf("%-10s %2d %s", name, score, strings.Repeat("■", score))
	if best {
		return StyleScoreBest.Render(line + "  ◀ recommended")
	}
	return StyleScore.Render(line)
}

// AddMainPadding adds the left gutter used by every view
func AddMainPadding(content string) string {
	return lipgloss.NewStyle().PaddingLeft(2).Render(content)
}

// CreateScrollIndicators returns the rules drawn above and below a viewport
func CreateScrollIndicators(canScrollUp, canScrollDown bool, width int) (string, string) {
	indicator := func(active bool) string {
		if active {
			return StyleScrollIndicatorActive.Width(width).Render("...")
		}
		return StyleScrollIndicator.Width(width).Render("─────────")
	}
	return indicator(canScrollUp), indicator(canScrollDown)
}
