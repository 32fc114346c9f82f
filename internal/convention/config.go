package convention

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/tailscale/hujson"
)

// fileFormat is the on-disk shape of an optional conventions file
// (SPEC_FULL.md §10.4): HuJSON so operators can comment their
// extensions, extending — never replacing — the built-in tables.
type fileFormat struct {
	LegacyXtension []string `json:"legacy_xtension,omitempty" validate:"dive,alphanum"`
	ExtraTimesys   []string `json:"extra_timesys,omitempty" validate:"dive,uppercase"`
}

var validate = validator.New()

// Load reads a HuJSON conventions file and returns a Table extended
// with its contents on top of Default(). A malformed file (bad JSON
// shape or a field failing struct validation) is rejected before any
// verification starts, per SPEC_FULL.md §10.4.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("convention: %w", err)
	}
	std, err := hujson.Standardize(raw)
	if err != nil {
		return nil, fmt.Errorf("convention: %s: invalid HuJSON: %w", path, err)
	}

	var cfg fileFormat
	if err := unmarshalStrict(std, &cfg); err != nil {
		return nil, fmt.Errorf("convention: %s: %w", path, err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("convention: %s: %w", path, err)
	}

	t := Default()
	for _, v := range cfg.LegacyXtension {
		t.LegacyXtension[v] = true
	}
	for _, v := range cfg.ExtraTimesys {
		t.ValidTimesys[v] = true
	}
	return t, nil
}
