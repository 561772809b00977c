package railroad

type (
	// Event is the event type shared by every machine of a crossing.
	Event string

	ControllerState string
	GateState       string
	LightState      string

	// Command is what a gate or light action asks its device to do.
	Command string
)

const (
	// EventSeen and EventNotSeen come from the track sensor.
	EventSeen    Event = "seen"
	EventNotSeen Event = "¬seen"

	// EventApproaching and EventLeaving are raised by the controller.
	EventApproaching Event = "approaching"
	EventLeaving     Event = "leaving"
)

const (
	ControllerAway     ControllerState = "away"
	ControllerApproach ControllerState = "approach"
	ControllerClose    ControllerState = "close"
	ControllerPresent  ControllerState = "present"
	ControllerLeaving  ControllerState = "leaving"
	ControllerLeft     ControllerState = "left"
)

const (
	GateUp   GateState = "up"
	GateDown GateState = "down"
)

const (
	LightOff LightState = "off"
	LightOn  LightState = "on"
)

const (
	CmdLowerGate Command = "lower gate"
	CmdRaiseGate Command = "raise gate"
	CmdLightOn   Command = "light on"
	CmdLightOff  Command = "light off"
)

// Snapshot is the state of every machine of a crossing at one moment.
type Snapshot struct {
	Controller ControllerState `json:"controller"`
	Gate       GateState       `json:"gate"`
	Light      LightState      `json:"light"`
}
