package player

// Mode is the player's input state machine. Viewport and Free are
// mutually exclusive; entering one exits the other.
type Mode int

const (
	ModeNormal Mode = iota
	ModeHelp
	ModeViewport
	ModeFree
	ModeConfirmQuit
)

func (m Mode) String() string {
	switch m {
	case ModeHelp:
		return "Help"
	case ModeViewport:
		return "Viewport"
	case ModeFree:
		return "Free"
	case ModeConfirmQuit:
		return "Quit?"
	default:
		return "Normal"
	}
}
