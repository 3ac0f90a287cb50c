// Package pipeline implements the fitted preprocessing + regression
// pipeline used to price daily rentals. The pipeline is produced
// offline, persisted as a single JSON artifact, and loaded once at
// service start; it is immutable afterwards.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"getaround-pricing/internal/features"
)

// SchemaVersion is the artifact layout this build understands. Loading
// an artifact with any other schema_version fails rather than guessing
// at compatibility.
const SchemaVersion = 1

// Artifact is the persisted form of the fitted pipeline: imputation
// statistics, one-hot category tables, the encoded column order and the
// linear regressor trained against that exact order.
type Artifact struct {
	SchemaVersion int       `json:"schema_version"`
	Version       string    `json:"version"`
	TrainedAt     time.Time `json:"trained_at"`

	// Medians and Modes are the training-time imputation statistics,
	// keyed by column name. They are never recomputed at inference time.
	Medians map[string]float64 `json:"medians"`
	Modes   map[string]string  `json:"modes"`

	// Categories holds, per categorical column, the category list seen
	// at training time in training order.
	Categories map[string][]string `json:"categories"`

	// Columns is the encoded feature matrix column order. One-hot
	// columns use the "field=category" form.
	Columns []string `json:"columns"`

	// Weights and Intercept define the regressor over the encoded
	// matrix; len(Weights) must equal len(Columns).
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// Validate checks the internal consistency of a loaded artifact. It
// catches the re-export hazard where the regressor and the
// preprocessing were trained on diverging feature sets.
func (a *Artifact) Validate() error {
	if a.SchemaVersion != SchemaVersion {
		return fmt.Errorf("unsupported artifact schema_version %d (want %d)", a.SchemaVersion, SchemaVersion)
	}
	if len(a.Columns) == 0 {
		return fmt.Errorf("artifact has no feature columns")
	}
	if len(a.Weights) != len(a.Columns) {
		return fmt.Errorf("regressor has %d weights for %d columns", len(a.Weights), len(a.Columns))
	}

	for _, field := range features.NumericFields {
		if _, ok := a.Medians[field]; !ok {
			return fmt.Errorf("artifact missing median for numeric column %q", field)
		}
	}
	for _, field := range features.CategoricalFields {
		if _, ok := a.Modes[field]; !ok {
			return fmt.Errorf("artifact missing mode for categorical column %q", field)
		}
		if len(a.Categories[field]) == 0 {
			return fmt.Errorf("artifact missing category table for column %q", field)
		}
	}

	for _, col := range a.Columns {
		if err := a.checkColumn(col); err != nil {
			return err
		}
	}
	return nil
}

func (a *Artifact) checkColumn(col string) error {
	if field, category, ok := strings.Cut(col, "="); ok {
		cats, known := a.Categories[field]
		if !known {
			return fmt.Errorf("column %q references unknown categorical field", col)
		}
		for _, c := range cats {
			if c == category {
				return nil
			}
		}
		return fmt.Errorf("column %q references category absent from the training table", col)
	}

	for _, f := range features.NumericFields {
		if col == f {
			return nil
		}
	}
	for _, f := range features.FlagFields {
		if col == f {
			return nil
		}
	}
	return fmt.Errorf("column %q does not map to any known feature", col)
}

// LoadArtifact reads and validates a persisted artifact.
func LoadArtifact(path string) (*Artifact, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	defer f.Close()

	var a Artifact
	dec := json.NewDecoder(f)
	if err := dec.Decode(&a); err != nil {
		return nil, fmt.Errorf("decode artifact %s: %w", path, err)
	}
	if err := a.Validate(); err != nil {
		return nil, fmt.Errorf("invalid artifact %s: %w", path, err)
	}
	return &a, nil
}

// SaveArtifact persists an artifact. The service never calls this; it
// exists for the offline export path and for test fixtures.
func SaveArtifact(path string, a *Artifact) error {
	if err := a.Validate(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
