package subscription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlSource loads the plan catalog from a YAML document of the form:
//
//	plans:
//	  - id: free
//	    name: Free
//	    max_users: 3
//	    max_services: 2
//	    max_bookings_per_month: 20
//	  - id: pro
//	    name: Pro
//	    max_users: 0        # unlimited
//	    max_services: 0
//	    max_bookings_per_month: 500
//	    features: [reminders, realtime]
//	    trial_days: 14
type yamlSource struct {
	path string
}

type yamlCatalog struct {
	Plans []Plan `yaml:"plans"`
}

// NewYAMLSource returns a Source reading the plan catalog from the given file.
// The file is re-read on every Load so catalog edits apply on restart or
// explicit reload without code changes.
func NewYAMLSource(path string) Source {
	return &yamlSource{path: path}
}

func (s *yamlSource) Load(ctx context.Context) (map[string]Plan, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}
	defer f.Close()

	return parseCatalog(f)
}

func parseCatalog(r io.Reader) (map[string]Plan, error) {
	var catalog yamlCatalog
	if err := yaml.NewDecoder(r).Decode(&catalog); err != nil {
		return nil, errors.Join(ErrFailedToLoadPlans, err)
	}

	plans := make(map[string]Plan, len(catalog.Plans))
	for _, plan := range catalog.Plans {
		if plan.ID == "" {
			return nil, errors.Join(ErrInvalidPlanConfiguration, errors.New("plan without id"))
		}
		if plan.TrialDays < 0 {
			return nil, errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("plan %s has negative trial days: %d", plan.ID, plan.TrialDays))
		}
		if _, dup := plans[plan.ID]; dup {
			return nil, errors.Join(ErrInvalidPlanConfiguration,
				fmt.Errorf("duplicate plan id %s", plan.ID))
		}
		plans[plan.ID] = plan
	}
	return plans, nil
}
