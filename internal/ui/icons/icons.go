package icons

const (
	// Connection status
	IconIdle      = "○"
	IconResolving = "◌"
	IconConnected = "●"
	IconFailed    = "✗"

	// Utility Icons
	IconSuccess   = "✓"
	IconError     = "⚠"
	IconSelect    = "▸"
	IconBullet    = "•"
	IconTag       = "#"
	IconRecent    = "↺"
)

// ForPhase returns the status chip icon for a connection phase name
func ForPhase(phase string) string {
	switch phase {
	case "resolving":
		return IconResolving
	case "resolved":
		return IconConnected
	case "failed":
		return IconFailed
	default:
		return IconIdle
	}
}
