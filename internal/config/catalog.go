package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/bitcorise/earnbot/internal/domain"
)

type catalogFile struct {
	Tasks         domain.Catalog                 `json:"tasks"`
	PayoutMethods map[string]domain.PayoutMethod `json:"payout_methods"`
}

// LoadCatalog reads the task catalog and payout method definitions from a
// JSON file. Missing file is an error: the bot has nothing to offer
// without a catalog.
func LoadCatalog(path string) (domain.Catalog, map[string]domain.PayoutMethod, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var cf catalogFile
	if err := json.Unmarshal(raw, &cf); err != nil {
		return nil, nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	if len(cf.Tasks) == 0 {
		return nil, nil, fmt.Errorf("catalog %s defines no tasks", path)
	}
	for key, def := range cf.Tasks {
		if def.Reward.IsNegative() {
			return nil, nil, fmt.Errorf("task %s has negative reward", key)
		}
		if def.WaitSeconds < 0 {
			return nil, nil, fmt.Errorf("task %s has negative wait", key)
		}
	}
	if cf.PayoutMethods == nil {
		cf.PayoutMethods = map[string]domain.PayoutMethod{}
	}
	return cf.Tasks, cf.PayoutMethods, nil
}
