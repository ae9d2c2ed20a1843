package cli

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/postcard/pkg/errors"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconSwatch  = "■"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints an output file line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(20)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Card Output
// =============================================================================

// printSwatch prints a style as two coloured squares followed by its id and
// stroke widths.
func printSwatch(id, fill, stroke string, titleStroke, bodyStroke int) {
	fillBox := lipgloss.NewStyle().Foreground(lipgloss.Color(fill)).Render(iconSwatch)
	strokeBox := lipgloss.NewStyle().Foreground(lipgloss.Color(stroke)).Render(iconSwatch)
	idStyle := lipgloss.NewStyle().Foreground(colorWhite).Width(20)
	fmt.Println("  " + fillBox + strokeBox + " " + idStyle.Render(id) +
		StyleDim.Render(fmt.Sprintf("stroke %d/%d", titleStroke, bodyStroke)))
}

// printCardStats prints a one-line render summary.
func printCardStats(cards, cacheHits int, titleSize int, elapsed time.Duration) {
	parts := []string{
		fmt.Sprintf("%d cards", cards),
		fmt.Sprintf("title %dpx", titleSize),
		elapsed.String(),
	}
	status := styleComputed.Render("fresh")
	if cacheHits > 0 {
		status = styleCached.Render(fmt.Sprintf("%d cached", cacheHits))
	}

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line + StyleDim.Render(" · ") + status)
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// FormatError renders err for the terminal: the message with its code,
// then the cause indented below it, one line per joined error.
func FormatError(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return styleIconError.Render(iconError) + " " + err.Error()
	}
	out := styleIconError.Render(iconError) + " " + e.Message + " " + StyleDim.Render("["+string(e.Code)+"]")
	if e.Cause != nil {
		for _, l := range strings.Split(e.Cause.Error(), "\n") {
			out += "\n  " + StyleDim.Render(l)
		}
	}
	return out
}
