package vehicle

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/vehicle-listing-feed/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var builtinSeed []byte

type seedFile struct {
	Vehicles []domain.Vehicle `yaml:"vehicles"`
}

// LoadSeed reads the catalog from path, or the built-in catalog when path is
// empty. Vehicles without an id get one. Creation times descend in file
// order so the newest-first listing keeps the file's order.
func LoadSeed(path string, now time.Time) ([]domain.Vehicle, error) {
	data := builtinSeed
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read seed file: %w", err)
		}
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	seen := make(map[string]struct{}, len(seed.Vehicles))
	for i := range seed.Vehicles {
		v := &seed.Vehicles[i]
		if v.ID == "" {
			v.ID = uuid.NewString()
		}
		if _, ok := seen[v.ID]; ok {
			return nil, fmt.Errorf("duplicate vehicle id %q in seed", v.ID)
		}
		seen[v.ID] = struct{}{}

		if err := Validate(*v); err != nil {
			return nil, fmt.Errorf("seed vehicle %q: %w", v.ID, err)
		}
		if v.Images == nil {
			v.Images = []string{}
		}
		v.CreatedAt = now.Add(-time.Duration(i) * time.Minute).UTC()
		v.UpdatedAt = v.CreatedAt
	}
	return seed.Vehicles, nil
}
