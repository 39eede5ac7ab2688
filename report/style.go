package report

import "github.com/charmbracelet/lipgloss"

var (
	colorBright = lipgloss.AdaptiveColor{Light: "#0f172a", Dark: "#f1f5f9"}
	colorDim    = lipgloss.AdaptiveColor{Light: "#94a3b8", Dark: "#64748b"}
	colorAdd    = lipgloss.AdaptiveColor{Light: "#059669", Dark: "#34d399"}
	colorDrop   = lipgloss.AdaptiveColor{Light: "#dc2626", Dark: "#f87171"}
	colorFlag   = lipgloss.AdaptiveColor{Light: "#d97706", Dark: "#fbbf24"}
)

var (
	styleSection = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
	styleLine    = lipgloss.NewStyle().Foreground(colorDim)
	styleAdded   = lipgloss.NewStyle().Foreground(colorAdd)
	styleRemoved = lipgloss.NewStyle().Foreground(colorDrop)
	styleAged    = lipgloss.NewStyle().Foreground(colorFlag)
	styleStat    = lipgloss.NewStyle().Foreground(colorBright).Bold(true)
)
