package client

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/tomz197/gonuts/internal/object"
	"github.com/tomz197/gonuts/internal/round"
)

// styles are the lipgloss styles for one session's terminal.
type styles struct {
	title    lipgloss.Style
	subtitle lipgloss.Style
	hint     lipgloss.Style
	prompt   lipgloss.Style
	hud      lipgloss.Style
	hurry    lipgloss.Style
	banner   lipgloss.Style
	focus    lipgloss.Style
	blur     lipgloss.Style
	err      lipgloss.Style
	good     lipgloss.Style
	mine     lipgloss.Style
	category [4]lipgloss.Style // Indexed by round.Category
}

func newStyles(r *lipgloss.Renderer) styles {
	s := styles{
		title:    r.NewStyle().Foreground(lipgloss.Color(object.ColorCommon)).Bold(true),
		subtitle: r.NewStyle().Foreground(lipgloss.Color(object.ColorDough)).Italic(true),
		hint:     r.NewStyle().Faint(true),
		prompt:   r.NewStyle().Bold(true),
		hud:      r.NewStyle().Bold(true),
		hurry:    r.NewStyle().Foreground(lipgloss.Color("#FF4040")).Bold(true),
		banner:   r.NewStyle().Foreground(lipgloss.Color(object.ColorJackpot)).Bold(true).Blink(true),
		focus:    r.NewStyle().Foreground(lipgloss.Color(object.ColorCommon)).Underline(true),
		blur:     r.NewStyle().Underline(true),
		err:      r.NewStyle().Foreground(lipgloss.Color("#FF4040")),
		good:     r.NewStyle().Foreground(lipgloss.Color("#7CFC00")).Bold(true),
		mine:     r.NewStyle().Foreground(lipgloss.Color(object.ColorJackpot)).Bold(true),
	}
	for _, cat := range []round.Category{round.Common, round.Uncommon, round.Rare, round.Jackpot} {
		s.category[cat] = r.NewStyle().Foreground(lipgloss.Color(object.CategoryColor(cat))).Bold(true)
	}
	return s
}
