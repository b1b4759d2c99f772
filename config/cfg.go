package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	validator "github.com/go-playground/validator/v10"
	"github.com/rupor-github/gencfg"
	yaml "gopkg.in/yaml.v3"

	"github.com/ByLCY/slidegen/deck"
	"github.com/ByLCY/slidegen/layout"
	"github.com/ByLCY/slidegen/markup"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	PageConfig struct {
		Width  string `yaml:"width" validate:"required"`
		Height string `yaml:"height" validate:"required"`
	}

	LayoutConfig struct {
		TablePath string `yaml:"table_path,omitempty" validate:"omitempty,filepath"`
	}

	FontConfig struct {
		Family  string `yaml:"family" validate:"required"`
		Regular string `yaml:"regular" validate:"required,filepath"`
		Bold    string `yaml:"bold,omitempty" validate:"omitempty,filepath"`
	}

	RenderConfig struct {
		ImageDir           string       `yaml:"image_dir,omitempty"`
		OutputNameTemplate string       `yaml:"output_name_template,omitempty"`
		Resolution         float64      `yaml:"resolution" validate:"gt=0"`
		Fonts              []FontConfig `yaml:"fonts" validate:"dive"`
	}

	Config struct {
		Version int           `yaml:"version" validate:"eq=1"`
		Page    PageConfig    `yaml:"page"`
		Layout  LayoutConfig  `yaml:"layout"`
		Deck    deck.Settings `yaml:"deck"`
		Sizes   markup.Sizes  `yaml:"sizes"`
		Render  RenderConfig  `yaml:"render"`
		Logging LoggingConfig `yaml:"logging"`
	}
)

// NOTE: must match yaml field names above, these values are expanded later
// (footer on every slide, output name once per deck) rather than at load time
const (
	footerTextFieldName         = "footer_text"
	outputNameTemplateFieldName = "output_name_template"
)

var requiredOptions = append([]func(*gencfg.ProcessingOptions){},
	gencfg.WithDoNotExpandField(footerTextFieldName),
	gencfg.WithDoNotExpandField(outputNameTemplateFieldName),
)

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// only fields we defined are allowed
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// checkConfig validates what struct tags cannot express.
func checkConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)
	for _, f := range []struct {
		name  string
		value string
	}{
		{"Width", cfg.Page.Width},
		{"Height", cfg.Page.Height},
	} {
		l, err := layout.ParseLength(f.value)
		if err != nil || !(l.ToPT() > 0) {
			sl.ReportError(f.value, "page."+f.name, f.name, "length", "")
		}
	}
	if sizes := cfg.Sizes; sizes.Body <= 0 || sizes.Title <= 0 || sizes.ContentTitle <= 0 {
		sl.ReportError(sizes, "sizes", "Sizes", "gt", "0")
	}
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %w", err)
	}
	return data, nil
}

// PageSize returns the configured slide size in points.
func (c *Config) PageSize() (width, height float64, err error) {
	w, err := layout.ParseLength(c.Page.Width)
	if err != nil {
		return 0, 0, fmt.Errorf("page width: %w", err)
	}
	h, err := layout.ParseLength(c.Page.Height)
	if err != nil {
		return 0, 0, fmt.Errorf("page height: %w", err)
	}
	return w.ToPT(), h.ToPT(), nil
}

// LoadTable returns the configured position table, or nil for the built-in one.
func (c *Config) LoadTable() (*layout.Table, error) {
	if c.Layout.TablePath == "" {
		return nil, nil
	}
	f, err := os.Open(c.Layout.TablePath)
	if err != nil {
		return nil, fmt.Errorf("unable to open position table: %w", err)
	}
	defer f.Close()
	t, err := layout.LoadTable(f)
	if err != nil {
		return nil, fmt.Errorf("position table %s: %w", c.Layout.TablePath, err)
	}
	return t, nil
}
