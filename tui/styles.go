package tui

import (
	"github.com/Itish41/InnovationTracker/lifecycle"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#5B8DEF"))
	subtleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))

	columnStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1)
	activeColumnStyle = columnStyle.
				BorderForeground(lipgloss.Color("#5B8DEF"))

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#555555")).
			Padding(0, 1)
	selectedCardStyle = cardStyle.
				Bold(true).
				BorderForeground(lipgloss.Color("#F7B801"))

	bannerStyle = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#FF6B6B")).
			Padding(0, 1)
	errorTextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	okTextStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#4CAF50"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5B8DEF")).
			Padding(1, 2)
	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F7B801")).
			Bold(true)
	noteStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
)

// stageDescriptions are the column subtitles.
var stageDescriptions = map[lifecycle.Stage]string{
	lifecycle.StageIdea:        "Initial submission",
	lifecycle.StageConcept:     "Being evaluated",
	lifecycle.StageDevelopment: "Being built",
	lifecycle.StageDeployed:    "Live in production",
}
