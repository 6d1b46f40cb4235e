package fonts

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// aliasFile is the on-disk shape of an alias table:
//
//	[aliases]
//	anton = "Anton-Regular.ttf"
//	impact = "Impact"
type aliasFile struct {
	Aliases map[string]string `toml:"aliases"`
}

// LoadAliases reads a TOML alias table for use with WithAliases.
// Entries ending in a font-file extension resolve against the fonts
// directory; anything else is treated as a system family name.
func LoadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is operator-supplied
	if err != nil {
		return nil, fmt.Errorf("fonts: failed to read alias file: %w", err)
	}
	var f aliasFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fonts: failed to parse alias file %s: %w", path, err)
	}
	if f.Aliases == nil {
		f.Aliases = map[string]string{}
	}
	return f.Aliases, nil
}
