package main

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5555")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFAA00"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#50FA7B"))
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5DADE2"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
)

func errorText(s string) string   { return errorStyle.Render("Error: " + s) }
func warningText(s string) string { return warningStyle.Render(s) }
func successText(s string) string { return successStyle.Render(s) }
func infoText(s string) string    { return infoStyle.Render(s) }
