package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alexanderramin/outings/internal/domain"
	"gopkg.in/yaml.v3"
)

// prefsFile is the YAML shape accepted by "plan --prefs":
//
//	budget: 80
//	interests: [Food, Art]
//	mode: must-see
type prefsFile struct {
	Budget    *int     `yaml:"budget"`
	Interests []string `yaml:"interests"`
	Mode      string   `yaml:"mode"`
}

// loadPrefsFile reads preferences from path. Unset fields keep the
// defaults of domain.NewPreferences.
func loadPrefsFile(path string) (*domain.Preferences, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading preferences file: %w", err)
	}
	prefs, err := parsePrefs(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return prefs, nil
}

func parsePrefs(data []byte) (*domain.Preferences, error) {
	var f prefsFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	prefs := domain.NewPreferences()
	if f.Budget != nil {
		if *f.Budget < domain.MinBudget || *f.Budget > domain.MaxBudget {
			return nil, &domain.ValidationError{
				Field:   "budget",
				Message: fmt.Sprintf("budget must be between %d and %d", domain.MinBudget, domain.MaxBudget),
			}
		}
		prefs.SetBudget(*f.Budget)
	}
	if len(f.Interests) > 0 {
		prefs.SetInterests(f.Interests)
	}
	if f.Mode != "" {
		m, err := domain.ParseMode(f.Mode)
		if err != nil {
			return nil, err
		}
		prefs.SetMode(m)
	}
	return prefs, nil
}
