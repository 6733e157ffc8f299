package ui

import "github.com/charmbracelet/lipgloss"

// ComposeLayout joins the room panel and beacon list horizontally, with
// menu bar on top and status bar on bottom.
func ComposeLayout(menuBar, roomPanel, beaconList, statusBar string, width int) string {
	middle := lipgloss.JoinHorizontal(lipgloss.Top, roomPanel, beaconList)
	return lipgloss.JoinVertical(lipgloss.Left, menuBar, middle, statusBar)
}

// RenderRoomPanel wraps the rendered floor plan with a styled border.
// The plan itself is rendered externally to avoid import cycles.
func RenderRoomPanel(width, height int, planContent, legend string) string {
	content := planContent + "\n" + legend
	return StylePanelBorder.Width(width - 2).Height(height - 2).Render(content)
}
