package apkpatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	xslice "github.com/frantjc/x/slice"
	"gopkg.in/yaml.v3"
)

// PatchConfig is the set of instructions the patch engine applies
// to a decoded APK. A nil field means "leave untouched".
type PatchConfig struct {
	AppName            *string     `json:"appName,omitempty" yaml:"appName,omitempty"`
	AppVersion         *AppVersion `json:"appVersion,omitempty" yaml:"appVersion,omitempty"`
	AppIcon            *AppIcon    `json:"appIcon,omitempty" yaml:"appIcon,omitempty"`
	PackageName        *string     `json:"packageName,omitempty" yaml:"packageName,omitempty"`
	RemoveTranslations *bool       `json:"removeTranslations,omitempty" yaml:"removeTranslations,omitempty"`
	Patches            *Patches    `json:"patches,omitempty" yaml:"patches,omitempty"`
	Keystore           *Keystore   `json:"keystore,omitempty" yaml:"keystore,omitempty"`
}

type AppVersion struct {
	Name *string `json:"name,omitempty" yaml:"name,omitempty"`
	Code *int64  `json:"code,omitempty" yaml:"code,omitempty"`
}

type AppIcon struct {
	Foreground *string `json:"foreground,omitempty" yaml:"foreground,omitempty"`
	Background *string `json:"background,omitempty" yaml:"background,omitempty"`
	Monochrome *string `json:"monochrome,omitempty" yaml:"monochrome,omitempty"`
}

// Keystore holds the credentials handed to apksigner.
type Keystore struct {
	Path     string `json:"path" yaml:"path"`
	Password string `json:"password" yaml:"password"`
	KeyAlias string `json:"keyAlias" yaml:"keyAlias"`
}

// Patch is a single named overlay and whether it should be applied.
type Patch struct {
	Name    string
	Enabled bool
}

// Patches is an ordered set of overlays. It decodes from an object
// of name to boolean, keeping key order, or from an array of names,
// each of which is enabled.
type Patches []Patch

func (p *Patches) set(name string, enabled bool) {
	for i := range *p {
		if (*p)[i].Name == name {
			(*p)[i].Enabled = enabled
			return
		}
	}

	*p = append(*p, Patch{Name: name, Enabled: enabled})
}

// Enabled returns the names of the enabled patches in order.
func (p Patches) Enabled() []string {
	names := []string{}
	for _, patch := range p {
		if patch.Enabled {
			names = append(names, patch.Name)
		}
	}

	return names
}

func (p *Patches) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return err
	}

	*p = Patches{}

	switch tok {
	case json.Delim('{'):
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return err
			}

			name, ok := tok.(string)
			if !ok {
				return fmt.Errorf("patches: unexpected token %v", tok)
			}

			var enabled bool
			if err := dec.Decode(&enabled); err != nil {
				return fmt.Errorf("patches: %s: %w", name, err)
			}

			p.set(name, enabled)
		}
	case json.Delim('['):
		for dec.More() {
			var name string
			if err := dec.Decode(&name); err != nil {
				return fmt.Errorf("patches: %w", err)
			}

			p.set(name, true)
		}
	default:
		return fmt.Errorf("patches: expected object or array, got %v", tok)
	}

	_, err = dec.Token()
	return err
}

func (p Patches) MarshalJSON() ([]byte, error) {
	buf := new(bytes.Buffer)
	buf.WriteByte('{')
	for i, patch := range p {
		if i > 0 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(patch.Name)
		if err != nil {
			return nil, err
		}

		buf.Write(name)
		fmt.Fprintf(buf, ":%t", patch.Enabled)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (p *Patches) UnmarshalYAML(value *yaml.Node) error {
	*p = Patches{}

	switch value.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			var enabled bool
			if err := value.Content[i+1].Decode(&enabled); err != nil {
				return fmt.Errorf("patches: %s: %w", value.Content[i].Value, err)
			}

			p.set(value.Content[i].Value, enabled)
		}
	case yaml.SequenceNode:
		for _, node := range value.Content {
			p.set(node.Value, true)
		}
	default:
		return fmt.Errorf("patches: expected mapping or sequence at line %d", value.Line)
	}

	return nil
}

// ConfigError is returned when a patch config document cannot be decoded.
type ConfigError struct {
	Name string
	Err  error
}

func (e *ConfigError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("parse config: %v", e.Err)
	}

	return fmt.Sprintf("parse config %s: %v", e.Name, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Parse decodes a JSON patch config. Unknown fields are ignored.
func Parse(b []byte) (*PatchConfig, error) {
	cfg := &PatchConfig{}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, &ConfigError{Err: err}
	}

	return cfg, nil
}

// ParseYAML decodes a YAML patch config.
func ParseYAML(b []byte) (*PatchConfig, error) {
	cfg := &PatchConfig{}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, &ConfigError{Err: err}
	}

	return cfg, nil
}

// Load reads the patch config at name. Files ending in .yml or .yaml
// are decoded as YAML, everything else as JSON.
func Load(name string) (*PatchConfig, error) {
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, &ConfigError{Name: name, Err: err}
	}

	parse := Parse
	if xslice.Includes([]string{".yml", ".yaml"}, strings.ToLower(filepath.Ext(name))) {
		parse = ParseYAML
	}

	cfg, err := parse(b)
	if err != nil {
		cerr := &ConfigError{}
		if errors.As(err, &cerr) {
			cerr.Name = name
		}

		return nil, err
	}

	return cfg, nil
}

// Validate checks the parts of the config that the patch engine does not
// look at but the rest of the pipeline depends on.
func (c *PatchConfig) Validate() error {
	errs := []error{}

	if c.AppVersion != nil && c.AppVersion.Code != nil && *c.AppVersion.Code < 0 {
		errs = append(errs, fmt.Errorf("invalid appVersion.code %d", *c.AppVersion.Code))
	}

	if c.Keystore != nil {
		if c.Keystore.Path == "" {
			errs = append(errs, fmt.Errorf("keystore.path is required"))
		}

		if c.Keystore.KeyAlias == "" {
			errs = append(errs, fmt.Errorf("keystore.keyAlias is required"))
		}
	}

	if err := errors.Join(errs...); err != nil {
		return &ConfigError{Err: err}
	}

	return nil
}
