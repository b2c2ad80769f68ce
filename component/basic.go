package component

const (
	BasicBooleanID  = "basic_boolean_test_component"
	BasicNumberID   = "basic_number_test_component"
	BasicTextID     = "basic_text_test_component"
	BasicVectorID   = "basic_vector_test_component"
	BasicMapID      = "basic_map_test_component"
	PositionID      = "position"
	PlayerControlID = "player_control"
)

type BasicBooleanComponent struct {
	Boolean bool `json:"boolean"`
}

func (BasicBooleanComponent) LoadID() string { return BasicBooleanID }

type BasicNumberComponent struct {
	Number uint32 `json:"number"`
}

func (BasicNumberComponent) LoadID() string { return BasicNumberID }

type BasicTextComponent struct {
	Text string `json:"text"`
}

func (BasicTextComponent) LoadID() string { return BasicTextID }

type BasicVectorComponent struct {
	Vector []uint32 `json:"vector"`
}

func (BasicVectorComponent) LoadID() string { return BasicVectorID }

type BasicMapComponent struct {
	Map map[string]string `json:"map"`
}

func (BasicMapComponent) LoadID() string { return BasicMapID }

// PositionComponent is an entity's cell on screen
type PositionComponent struct {
	X uint16 `json:"x"`
	Y uint16 `json:"y"`
}

func (PositionComponent) LoadID() string { return PositionID }

// PlayerControlComponent marks entities driven by keyboard input
type PlayerControlComponent struct{}

func (PlayerControlComponent) LoadID() string { return PlayerControlID }
