package domain

type MenuItem struct {
	Type    string     `json:"type"`
	Module  string     `json:"module,omitempty"`
	Title   string     `json:"title"`
	Icon    string     `json:"icon,omitempty"`
	Tooltip string     `json:"tooltip,omitempty"`
	Href    string     `json:"href,omitempty"`
	Active  []string   `json:"active,omitempty"`
	Submenu []MenuItem `json:"submenu,omitempty"`
}

// Menu maps a menu type ("default", "company", ...) to positioned entries.
type Menu map[string]map[int]MenuItem

func DefaultMenu() Menu {
	return Menu{
		"default": {
			10: {Type: "submenu", Title: "menu.administration"},
		},
	}
}
