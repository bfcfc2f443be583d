package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"stallmap/internal/designer/state"
	"stallmap/pkg/model"
)

// designerFile is the YAML shape of the designer defaults file. Absent keys
// keep the built-in values.
type designerFile struct {
	Stall struct {
		PriceCents *int64               `yaml:"priceCents"`
		Size       *model.StallSize     `yaml:"size"`
		Category   *model.StallCategory `yaml:"category"`
	} `yaml:"stall"`
	Influence struct {
		Intensity *int           `yaml:"intensity"`
		Falloff   *model.Falloff `yaml:"falloff"`
	} `yaml:"influence"`
	ZoneLabels   map[model.ZoneType]string `yaml:"zoneLabels"`
	MinDrawSize  *float64                  `yaml:"minDrawSize"`
	HandleRadius *float64                  `yaml:"handleRadius"`
}

func LoadDesignerDefaults(path string) (state.Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return state.Defaults{}, fmt.Errorf("read designer defaults %s: %w", path, err)
	}
	defaults, err := ParseDesignerDefaults(data)
	if err != nil {
		return state.Defaults{}, fmt.Errorf("designer defaults %s: %w", path, err)
	}
	return defaults, nil
}

// ParseDesignerDefaults overlays a YAML document onto the built-in defaults
// and rejects values the designer could not use.
func ParseDesignerDefaults(data []byte) (state.Defaults, error) {
	d := state.DefaultDefaults()

	var f designerFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return state.Defaults{}, fmt.Errorf("parse yaml: %w", err)
	}

	var problems []error
	if v := f.Stall.PriceCents; v != nil {
		if *v < 0 {
			problems = append(problems, fmt.Errorf("stall.priceCents must not be negative, got %d", *v))
		}
		d.StallPriceCents = *v
	}
	if v := f.Stall.Size; v != nil {
		if !v.Valid() {
			problems = append(problems, fmt.Errorf("stall.size %q is not a stall size", *v))
		}
		d.StallSize = *v
	}
	if v := f.Stall.Category; v != nil {
		if !v.Valid() {
			problems = append(problems, fmt.Errorf("stall.category %q is not a stall category", *v))
		}
		d.StallCategory = *v
	}
	if v := f.Influence.Intensity; v != nil {
		if *v < 0 || *v > 100 {
			problems = append(problems, fmt.Errorf("influence.intensity must be within 0..100, got %d", *v))
		}
		d.InfluenceIntensity = *v
	}
	if v := f.Influence.Falloff; v != nil {
		if !v.Valid() {
			problems = append(problems, fmt.Errorf("influence.falloff %q is not a falloff", *v))
		}
		d.InfluenceFalloff = *v
	}
	for zoneType, label := range f.ZoneLabels {
		if !zoneType.Valid() {
			problems = append(problems, fmt.Errorf("zoneLabels: %q is not a zone type", zoneType))
			continue
		}
		d.ZoneLabels[zoneType] = label
	}
	if v := f.MinDrawSize; v != nil {
		if *v <= 0 {
			problems = append(problems, fmt.Errorf("minDrawSize must be positive, got %v", *v))
		}
		d.MinDrawSize = *v
	}
	if v := f.HandleRadius; v != nil {
		if *v <= 0 {
			problems = append(problems, fmt.Errorf("handleRadius must be positive, got %v", *v))
		}
		d.HandleRadius = *v
	}

	if err := errors.Join(problems...); err != nil {
		return state.Defaults{}, err
	}
	return d, nil
}
