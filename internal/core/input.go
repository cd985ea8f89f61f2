package core

// Button identifies a controller button. The order matches the state
// string sent by networked controllers, one character per button.
type Button int

const (
	ButtonUp Button = iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonB
	ButtonX
	ButtonY
	ButtonStart
	ButtonSelect
	ButtonL1
	ButtonR1
	ButtonL2
	ButtonR2
)

// ButtonCount is the number of buttons in a controller state string.
const ButtonCount = 14

var buttonNames = [ButtonCount]string{
	"Up", "Down", "Left", "Right", "A", "B", "X", "Y",
	"Start", "Select", "L1", "R1", "L2", "R2",
}

// String returns a human-readable name for the button.
func (b Button) String() string {
	if b < 0 || int(b) >= ButtonCount {
		return "Unknown"
	}
	return buttonNames[b]
}

// Direction maps the four d-pad buttons to movement directions.
// ok is false for any other button.
func (b Button) Direction() (d Direction, ok bool) {
	switch b {
	case ButtonUp:
		return DirUp, true
	case ButtonDown:
		return DirDown, true
	case ButtonLeft:
		return DirLeft, true
	case ButtonRight:
		return DirRight, true
	}
	return 0, false
}

// EventKind classifies controller events.
type EventKind int

const (
	EventConnected    EventKind = iota // a controller joined and got a uid
	EventDisconnected                  // a controller said goodbye
	EventKeyDown                       // a button was pressed
	EventKeyUp                         // a button was released
	EventPing                          // keep-alive
)

func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventKeyDown:
		return "keydown"
	case EventKeyUp:
		return "keyup"
	case EventPing:
		return "ping"
	default:
		return "unknown"
	}
}

// Event is a discrete input event from one controller.
// Button is only meaningful for EventKeyDown and EventKeyUp.
type Event struct {
	Kind   EventKind
	UID    string
	Button Button
}

// KeyDown is a convenience constructor for a button press.
func KeyDown(uid string, b Button) Event {
	return Event{Kind: EventKeyDown, UID: uid, Button: b}
}

// TurnDirection returns the direction requested by this event.
// ok is true only for key-down events on a d-pad button.
func (e Event) TurnDirection() (d Direction, ok bool) {
	if e.Kind != EventKeyDown {
		return 0, false
	}
	return e.Button.Direction()
}
