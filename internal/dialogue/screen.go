package dialogue

// Option is one tappable choice on a screen. Action feeds back into
// Engine.Command when the user picks it.
type Option struct {
	Label  string `json:"label"`
	Action string `json:"action"`
}

// ExportFile is a document attachment for the transport to deliver.
type ExportFile struct {
	Name    string `json:"name"`
	MIME    string `json:"mime"`
	Content []byte `json:"content"`
}

// Screen describes the next thing the chat transport should render. The
// engine always ends a step by producing one.
type Screen struct {
	Text    string      `json:"text"`
	Options []Option    `json:"options,omitempty"`
	Poster  string      `json:"poster,omitempty"`
	File    *ExportFile `json:"file,omitempty"`
}

const (
	// ActionMenu returns to the main menu from any state, discarding the
	// session.
	ActionMenu = "menu"
)

var backToMenu = Option{Label: "Back to menu", Action: ActionMenu}

// notice is a plain message (success or failure) with only the menu to go to.
func notice(text string) *Screen {
	return &Screen{Text: text, Options: []Option{backToMenu}}
}

// prompt asks for free-text input; the menu option doubles as the way out.
func prompt(text string) *Screen {
	return &Screen{Text: text, Options: []Option{backToMenu}}
}
