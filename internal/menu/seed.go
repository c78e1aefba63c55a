package menu

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/GriffinCanCode/appshell/internal/shared/errcode"
)

// Seed describes the menus installed before the content loads.
type Seed struct {
	Menus []SeedMenu `yaml:"menus"`
}

// SeedMenu is a top-level menu in a seed file.
type SeedMenu struct {
	ID    string     `yaml:"id"`
	Title string     `yaml:"title"`
	Items []SeedItem `yaml:"items"`
}

// SeedItem is an item or separator in a seed file.
type SeedItem struct {
	ID        string `yaml:"id"`
	Title     string `yaml:"title"`
	Shortcut  string `yaml:"shortcut"`
	Display   string `yaml:"display"`
	Separator bool   `yaml:"separator"`
	Disabled  bool   `yaml:"disabled"`
}

// ParseSeed decodes a YAML seed.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("failed to parse menu seed: %w", err)
	}
	for _, m := range seed.Menus {
		if m.ID == "" {
			return Seed{}, fmt.Errorf("menu %q has no id", m.Title)
		}
	}
	return seed, nil
}

// LoadSeedFile reads and decodes a YAML seed file.
func LoadSeedFile(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("failed to read menu seed: %w", err)
	}
	return ParseSeed(data)
}

// Apply adds the seeded menus to the tree, in order. Separators without an
// id get "<menu>.separator.<n>".
func (t *Tree) Apply(seed Seed) error {
	for _, m := range seed.Menus {
		if code := t.AddMenu(m.Title, m.ID, PositionLast, ""); code != errcode.NoError {
			return fmt.Errorf("add menu %s: %s", m.ID, code)
		}

		seps := 0
		for _, item := range m.Items {
			id, title := item.ID, item.Title
			if item.Separator {
				title = SeparatorTitle
				if id == "" {
					seps++
					id = fmt.Sprintf("%s.separator.%d", m.ID, seps)
				}
			}

			code := t.AddMenuItem(m.ID, title, id, item.Shortcut, item.Display, PositionLast, "")
			if code != errcode.NoError {
				return fmt.Errorf("add menu item %s: %s", id, code)
			}
			if item.Disabled {
				t.SetMenuItemState(id, false, false)
			}
		}
	}
	return nil
}
