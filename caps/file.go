package caps

import (
	"os"

	"github.com/adrg/xdg"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// configRelPath is where an optional capabilities override file is looked
// up within the user's XDG config directory.
const configRelPath = "insign/capabilities.yaml"

// Load reads capability overrides from a YAML file at path.
func Load(path string) (Capabilities, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		// Return the error directly so callers can use os.IsNotExist(err).
		return Capabilities{}, err
	}

	caps := Default()
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return Capabilities{}, errors.Wrapf(err, "yaml.Unmarshal")
	}
	return caps, nil
}

// Save writes capabilities to path as YAML.
func Save(path string, c Capabilities) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrapf(err, "yaml.Marshal")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, "os.WriteFile")
	}
	return nil
}

// FromEnvironment loads capabilities from the XDG config override file if
// present, falling back to Default() when no such file exists. It never
// returns an error for a missing file; a malformed one is still reported.
func FromEnvironment() (Capabilities, error) {
	path, err := xdg.ConfigFile(configRelPath)
	if err != nil {
		return Default(), nil
	}

	c, err := Load(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Capabilities{}, err
	}
	return c, nil
}
