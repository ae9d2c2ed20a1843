package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/postcard/pkg/catalog"
	"github.com/matzehuels/postcard/pkg/errors"
)

var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	carouselFrame     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorDim).Padding(0, 2)
)

// =============================================================================
// carouselModel - browse backgrounds one at a time
// =============================================================================

// carouselModel pages through backgrounds with left/right; both ends wrap.
type carouselModel struct {
	names    []string
	cursor   int
	selected int // -1 until enter
}

func newCarouselModel(names []string) carouselModel {
	return carouselModel{names: names, selected: -1}
}

func (m carouselModel) Init() tea.Cmd { return nil }

func (m carouselModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.names) == 0 {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h", "up", "k":
		m.cursor = (m.cursor - 1 + len(m.names)) % len(m.names)
	case "right", "l", "down", "j", " ":
		m.cursor = (m.cursor + 1) % len(m.names)
	case "enter":
		m.selected = m.cursor
		return m, tea.Quit
	}
	return m, nil
}

func (m carouselModel) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render("Choose a background"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("←/→ browse  ⏎ select  q quit"))
	b.WriteString("\n\n")
	if len(m.names) == 0 {
		return b.String() + listDimStyle.Render("no backgrounds")
	}

	name := listSelectedStyle.Render(m.names[m.cursor])
	b.WriteString(carouselFrame.Render(listDimStyle.Render("‹ ") + name + listDimStyle.Render(" ›")))
	b.WriteString("\n")

	dots := make([]string, len(m.names))
	for i := range m.names {
		if i == m.cursor {
			dots[i] = listSelectedStyle.Render("●")
		} else {
			dots[i] = listDimStyle.Render("○")
		}
	}
	b.WriteString("  " + strings.Join(dots, " "))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.names))))
	return b.String()
}

// =============================================================================
// occasionListModel - pick an occasion and one of its stock texts
// =============================================================================

// occasionListModel lists occasions; enter on an occasion with stock texts
// moves on to picking a text, enter on a text (or on an occasion without
// texts) finishes.
type occasionListModel struct {
	occasions []catalog.Occasion
	cursor    int
	textMode  bool
	text      int
	done      bool
}

func newOccasionListModel(occasions []catalog.Occasion) occasionListModel {
	return occasionListModel{occasions: occasions}
}

func (m occasionListModel) Init() tea.Cmd { return nil }

func (m occasionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.occasions) == 0 {
		return m, nil
	}
	texts := m.occasions[m.cursor].Texts
	switch key.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "backspace":
		if !m.textMode {
			return m, tea.Quit
		}
		m.textMode = false
	case "up", "k":
		if m.textMode {
			m.text = (m.text - 1 + len(texts)) % len(texts)
		} else if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.textMode {
			m.text = (m.text + 1) % len(texts)
		} else if m.cursor < len(m.occasions)-1 {
			m.cursor++
		}
	case "enter":
		if !m.textMode && len(texts) > 0 {
			m.textMode = true
			m.text = 0
			return m, nil
		}
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

// selection returns the chosen occasion key and text index (-1 for none).
func (m occasionListModel) selection() (key string, text int, ok bool) {
	if !m.done {
		return "", -1, false
	}
	if !m.textMode {
		return m.occasions[m.cursor].Key, -1, true
	}
	return m.occasions[m.cursor].Key, m.text, true
}

func (m occasionListModel) View() string {
	var b strings.Builder
	if m.textMode {
		oc := m.occasions[m.cursor]
		b.WriteString(StyleTitle.Render(oc.Title))
		b.WriteString("\n")
		b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  esc back"))
		b.WriteString("\n\n")
		for i, text := range oc.Texts {
			line := firstLine(text)
			if i == m.text {
				b.WriteString(listSelectedStyle.Render("▸ " + line))
			} else {
				b.WriteString(listNormalStyle.Render("  " + line))
			}
			b.WriteString("\n")
		}
		return b.String()
	}

	b.WriteString(StyleTitle.Render("Choose an occasion"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")
	for i, oc := range m.occasions {
		label := fmt.Sprintf("%-14s %s", oc.Key, oc.Title)
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("▸ " + label))
		} else {
			b.WriteString(listNormalStyle.Render("  " + label))
		}
		if n := len(oc.Texts); n > 0 {
			b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d texts", n)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}

// =============================================================================
// Runners
// =============================================================================

// pickBackground runs the carousel and returns the chosen name.
func pickBackground(bgs *catalog.Backgrounds) (string, error) {
	if bgs.Len() == 0 {
		return "", errors.New(errors.ErrCodeNotFound, "no backgrounds in %s", bgs.Dir())
	}
	final, err := tea.NewProgram(newCarouselModel(bgs.Names())).Run()
	if err != nil {
		return "", err
	}
	m := final.(carouselModel)
	if m.selected < 0 {
		return "", errors.New(errors.ErrCodeInvalidInput, "no background selected")
	}
	return m.names[m.selected], nil
}

// pickOccasion runs the occasion list and fills opts.occasion and
// opts.textIndex.
func pickOccasion(occasions *catalog.Occasions, opts *renderOpts) error {
	final, err := tea.NewProgram(newOccasionListModel(occasions.All())).Run()
	if err != nil {
		return err
	}
	key, text, ok := final.(occasionListModel).selection()
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "no occasion selected")
	}
	opts.occasion = key
	if opts.message == "" {
		opts.textIndex = text
	}
	return nil
}
