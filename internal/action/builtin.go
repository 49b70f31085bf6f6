package action

// BuiltinActions returns the default action set installed by
// DefaultConfig. Cycles follow the stock layout: a directional keybind
// first resolves to the most common layout, and repeated presses walk
// the remaining members.
func BuiltinActions() []Action {
	return []Action{
		{
			Name:      "Maximize",
			Direction: Maximize,
			Keybind:   NewKeySet("return"),
		},
		{
			Name:      "Center",
			Direction: Center,
			Keybind:   NewKeySet("c"),
		},
		{
			Name:      "Left Cycle",
			Direction: Cycle,
			Keybind:   NewKeySet("left"),
			Cycle: []Action{
				{Direction: LeftHalf},
				{Direction: LeftThird},
				{Direction: LeftTwoThirds},
			},
		},
		{
			Name:      "Right Cycle",
			Direction: Cycle,
			Keybind:   NewKeySet("right"),
			Cycle: []Action{
				{Direction: RightHalf},
				{Direction: RightThird},
				{Direction: RightTwoThirds},
			},
		},
		{
			Name:      "Top Cycle",
			Direction: Cycle,
			Keybind:   NewKeySet("up"),
			Cycle: []Action{
				{Direction: TopHalf},
				{Direction: TopThird},
				{Direction: TopTwoThirds},
			},
		},
		{
			Name:      "Bottom Cycle",
			Direction: Cycle,
			Keybind:   NewKeySet("down"),
			Cycle: []Action{
				{Direction: BottomHalf},
				{Direction: BottomThird},
				{Direction: BottomTwoThirds},
			},
		},
		{
			Name:      "Top Left Quarter",
			Direction: TopLeftQuarter,
			Keybind:   NewKeySet("u"),
		},
		{
			Name:      "Top Right Quarter",
			Direction: TopRightQuarter,
			Keybind:   NewKeySet("i"),
		},
		{
			Name:      "Bottom Left Quarter",
			Direction: BottomLeftQuarter,
			Keybind:   NewKeySet("j"),
		},
		{
			Name:      "Bottom Right Quarter",
			Direction: BottomRightQuarter,
			Keybind:   NewKeySet("k"),
		},
		{
			Name:      "Larger",
			Direction: Larger,
			Keybind:   NewKeySet("equal"),
		},
		{
			Name:      "Smaller",
			Direction: Smaller,
			Keybind:   NewKeySet("minus"),
		},
		{
			Name:      "Next Screen",
			Direction: NextScreen,
			Keybind:   NewKeySet("tab"),
		},
		{
			Name:      "Undo",
			Direction: Undo,
			Keybind:   NewKeySet("z"),
		},
		{
			Name:      "Initial Frame",
			Direction: InitialFrame,
			Keybind:   NewKeySet("backspace"),
		},
		{
			Name:      "Stash Left",
			Direction: Stash,
			Keybind:   NewKeySet("h"),
			Custom:    &CustomFields{Anchor: AnchorLeft},
		},
		{
			Name:      "Stash Right",
			Direction: Stash,
			Keybind:   NewKeySet("l"),
			Custom:    &CustomFields{Anchor: AnchorRight},
		},
	}
}
