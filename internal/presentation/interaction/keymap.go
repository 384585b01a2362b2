package interaction

// Action is what a key asks the live dashboard to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionRefresh
	ActionCycleSort
	ActionToggleMode
	ActionTogglePause
	ActionToggleHelp
	// ActionBack closes the help overlay, or quits when none is open.
	ActionBack
)

var charActions = map[rune]Action{
	'q':      ActionQuit,
	KeyCtrlC: ActionQuit,
	'r':      ActionRefresh,
	's':      ActionCycleSort,
	'm':      ActionToggleMode,
	'p':      ActionTogglePause,
	'h':      ActionToggleHelp,
	'?':      ActionToggleHelp,
}

// ActionFor maps a key press to an action. Letters match either case.
func ActionFor(event KeyEvent) Action {
	if event.Type == KeyEscape {
		return ActionBack
	}
	key := event.Key
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}
	return charActions[key]
}
