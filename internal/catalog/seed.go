package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"fabdesk/internal"
)

// SeedData is the on-disk catalog format consumed by catalog:seed. The
// field names mirror the persistence columns so the same file can be
// round-tripped from a database dump.
type SeedData struct {
	Items           []internal.CatalogItem           `yaml:"items"`
	Colors          []internal.CatalogColor          `yaml:"colors"`
	FrameStyles     []internal.CatalogFrameStyle     `yaml:"frame_styles"`
	GlassOptions    []internal.CatalogGlassOption    `yaml:"glass_options"`
	DeliveryMethods []internal.CatalogDeliveryMethod `yaml:"delivery_methods"`
}

func LoadSeedFile(path string) (SeedData, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return SeedData{}, err
	}

	var seed SeedData
	if err := yaml.Unmarshal(blob, &seed); err != nil {
		return SeedData{}, fmt.Errorf("parse catalog seed %s: %w", path, err)
	}
	return seed, nil
}

func (s SeedData) Snapshot() *Snapshot {
	return NewSnapshot(s.Items, s.Colors, s.FrameStyles, s.GlassOptions, s.DeliveryMethods)
}
