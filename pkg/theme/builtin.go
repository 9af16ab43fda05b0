package theme

// thRegisterBuiltins registers all built-in themes in the registry.
func thRegisterBuiltins() {
	for _, t := range []Theme{
		thDarkTheme(),
		thLightTheme(),
		thNordTheme(),
		thGruvboxTheme(),
		thDraculaTheme(),
	} {
		Register(t)
	}
}

// thDarkTheme is the default: neutral dark with a violet accent.
func thDarkTheme() Theme {
	return Theme{
		Name:       "dark",
		Dark:       true,
		Background: "#1e1e1e",
		Foreground: "#d4d4d4",
		Dim:        "#6b6b6b",
		Accent:     "#7c3aed",

		Border:      "#3e3e3e",
		BorderFocus: "#7c3aed",
		Title:       "#f5f5f5",

		Cultural:  "#e879f9",
		Technical: "#38bdf8",
		Sports:    "#4ade80",
		Academic:  "#facc15",

		ProgressFull:  "#7c3aed",
		ProgressEmpty: "#3e3e3e",

		Featured:        "#f59e0b",
		Error:           "#e06c75",
		SearchHighlight: "#f9e2af",
		HelpKey:         "#7c3aed",
		HelpDesc:        "#6b6b6b",
	}
}

// thLightTheme mirrors dark for light backgrounds.
func thLightTheme() Theme {
	return Theme{
		Name:       "light",
		Background: "#fafafa",
		Foreground: "#27272a",
		Dim:        "#8e8e93",
		Accent:     "#6d28d9",

		Border:      "#d4d4d8",
		BorderFocus: "#6d28d9",
		Title:       "#18181b",

		Cultural:  "#a21caf",
		Technical: "#0369a1",
		Sports:    "#15803d",
		Academic:  "#a16207",

		ProgressFull:  "#6d28d9",
		ProgressEmpty: "#e4e4e7",

		Featured:        "#b45309",
		Error:           "#b91c1c",
		SearchHighlight: "#ca8a04",
		HelpKey:         "#6d28d9",
		HelpDesc:        "#8e8e93",
	}
}

// thNordTheme returns the arctic Nord palette.
func thNordTheme() Theme {
	return Theme{
		Name:       "nord",
		Dark:       true,
		Background: "#2e3440",
		Foreground: "#d8dee9",
		Dim:        "#4c566a",
		Accent:     "#88c0d0",

		Border:      "#3b4252",
		BorderFocus: "#88c0d0",
		Title:       "#eceff4",

		Cultural:  "#b48ead",
		Technical: "#81a1c1",
		Sports:    "#a3be8c",
		Academic:  "#ebcb8b",

		ProgressFull:  "#88c0d0",
		ProgressEmpty: "#3b4252",

		Featured:        "#d08770",
		Error:           "#bf616a",
		SearchHighlight: "#ebcb8b",
		HelpKey:         "#88c0d0",
		HelpDesc:        "#4c566a",
	}
}

// thGruvboxTheme returns the warm retro Gruvbox palette.
func thGruvboxTheme() Theme {
	return Theme{
		Name:       "gruvbox",
		Dark:       true,
		Background: "#282828",
		Foreground: "#ebdbb2",
		Dim:        "#928374",
		Accent:     "#fe8019",

		Border:      "#504945",
		BorderFocus: "#fe8019",
		Title:       "#fbf1c7",

		Cultural:  "#d3869b",
		Technical: "#83a598",
		Sports:    "#b8bb26",
		Academic:  "#fabd2f",

		ProgressFull:  "#fe8019",
		ProgressEmpty: "#504945",

		Featured:        "#fabd2f",
		Error:           "#fb4934",
		SearchHighlight: "#fabd2f",
		HelpKey:         "#fe8019",
		HelpDesc:        "#928374",
	}
}

// thDraculaTheme returns the Dracula palette.
func thDraculaTheme() Theme {
	return Theme{
		Name:       "dracula",
		Dark:       true,
		Background: "#282a36",
		Foreground: "#f8f8f2",
		Dim:        "#6272a4",
		Accent:     "#bd93f9",

		Border:      "#44475a",
		BorderFocus: "#bd93f9",
		Title:       "#f8f8f2",

		Cultural:  "#ff79c6",
		Technical: "#8be9fd",
		Sports:    "#50fa7b",
		Academic:  "#f1fa8c",

		ProgressFull:  "#bd93f9",
		ProgressEmpty: "#44475a",

		Featured:        "#ffb86c",
		Error:           "#ff5555",
		SearchHighlight: "#f1fa8c",
		HelpKey:         "#bd93f9",
		HelpDesc:        "#6272a4",
	}
}
