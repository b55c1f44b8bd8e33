package plugin

import (
	"errors"
	"fmt"

	"github.com/alnah/go-mdpress/internal/yamlutil"
)

// ErrDeclaration indicates a malformed plugin declaration.
var ErrDeclaration = errors.New("invalid plugin declaration")

// Declaration is one entry of a plugin declaration list as it appears in
// external configuration: either a bare string locator, or an object with
// path/name/url plus options.
type Declaration struct {
	Path     string         `yaml:"path"`
	Name     string         `yaml:"name"`
	URL      string         `yaml:"url"`
	Type     string         `yaml:"type"`
	Version  string         `yaml:"version"`
	Enabled  *bool          `yaml:"enabled"` // nil means enabled
	Options  map[string]any `yaml:"options"`
	Priority int            `yaml:"priority"`
}

// UnmarshalYAML accepts either a bare string or the object form.
func (d *Declaration) UnmarshalYAML(data []byte) error {
	var locator string
	if err := yamlutil.Unmarshal(data, &locator); err == nil {
		*d = Declaration{Name: locator}
		return nil
	}

	type plain Declaration
	var obj plain
	if err := yamlutil.UnmarshalStrict(data, &obj); err != nil {
		return fmt.Errorf("%w: %v", ErrDeclaration, err)
	}
	*d = Declaration(obj)
	return nil
}

// Config converts the declaration to a loader config.
func (d Declaration) Config() (Config, error) {
	locator := d.Path
	if locator == "" {
		locator = d.URL
	}
	if locator == "" {
		locator = d.Name
	}
	if locator == "" {
		return Config{}, fmt.Errorf("%w: one of path, name, or url is required", ErrDeclaration)
	}

	source := SourceKind(d.Type)
	switch source {
	case SourceUnspecified, SourceLocal, SourcePackage, SourceBuiltin, SourceRemote:
	default:
		return Config{}, fmt.Errorf("%w: unknown type %q", ErrDeclaration, d.Type)
	}
	if source == SourceUnspecified && d.URL != "" {
		source = SourceRemote
	}

	return Config{
		Source:   source,
		Locator:  locator,
		Name:     d.Name,
		Version:  d.Version,
		Disabled: d.Enabled != nil && !*d.Enabled,
		Options:  d.Options,
		Priority: d.Priority,
	}, nil
}

// declarationFile is the YAML shape of a plugin declaration file.
type declarationFile struct {
	Plugins []Declaration `yaml:"plugins"`
}

// ParseDeclarations parses a plugin declaration document into loader
// configs.
func ParseDeclarations(data []byte) ([]Config, error) {
	var file declarationFile
	if err := yamlutil.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeclaration, err)
	}
	configs := make([]Config, 0, len(file.Plugins))
	for _, d := range file.Plugins {
		cfg, err := d.Config()
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}
