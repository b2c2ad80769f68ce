package scene

// TransitionKind selects how the stack changes after a tick
type TransitionKind uint8

const (
	None TransitionKind = iota
	Push
	Pop
	Replace
	Clear
)

func (k TransitionKind) String() string {
	switch k {
	case None:
		return "none"
	case Push:
		return "push"
	case Pop:
		return "pop"
	case Replace:
		return "replace"
	case Clear:
		return "clear"
	}
	return "unknown"
}

// Transition is returned by Scene.Update; Scene is set for Push and Replace
type Transition struct {
	Kind  TransitionKind
	Scene Scene
}

func NoTransition() Transition { return Transition{Kind: None} }

func PushScene(s Scene) Transition { return Transition{Kind: Push, Scene: s} }

func PopScene() Transition { return Transition{Kind: Pop} }

func ReplaceScene(s Scene) Transition { return Transition{Kind: Replace, Scene: s} }

func ClearStack() Transition { return Transition{Kind: Clear} }
