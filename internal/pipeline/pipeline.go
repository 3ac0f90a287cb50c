package pipeline

import (
	"fmt"
	"strings"

	"getaround-pricing/internal/features"
)

// Pipeline applies the fitted preprocessing and regressor to vehicle
// feature records. It holds no mutable state after New and is safe for
// concurrent use.
type Pipeline struct {
	art      *Artifact
	colIndex map[string]int
}

// New wraps a validated artifact.
func New(art *Artifact) (*Pipeline, error) {
	if err := art.Validate(); err != nil {
		return nil, err
	}
	idx := make(map[string]int, len(art.Columns))
	for i, col := range art.Columns {
		idx[col] = i
	}
	return &Pipeline{art: art, colIndex: idx}, nil
}

// Load reads the artifact at path and builds the pipeline around it.
func Load(path string) (*Pipeline, error) {
	art, err := LoadArtifact(path)
	if err != nil {
		return nil, err
	}
	return New(art)
}

// Version reports the trained model version carried by the artifact.
func (p *Pipeline) Version() string { return p.art.Version }

// Columns returns the encoded matrix column order, fixed at training time.
func (p *Pipeline) Columns() []string { return p.art.Columns }

// Transform maps records to the fixed-width numeric matrix the
// regressor was trained on. Absent numeric fields take the training
// median, absent categorical fields take the training mode, and
// categories unseen at training time encode as an all-zero block.
func (p *Pipeline) Transform(records []features.VehicleFeatures) ([][]float64, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("no records to transform")
	}

	matrix := make([][]float64, len(records))
	for i := range records {
		row, err := p.encodeRow(&records[i])
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		matrix[i] = row
	}
	return matrix, nil
}

func (p *Pipeline) encodeRow(rec *features.VehicleFeatures) ([]float64, error) {
	row := make([]float64, len(p.art.Columns))

	for _, field := range features.NumericFields {
		val := p.art.Medians[field]
		if v := rec.Numeric(field); v != nil {
			val = *v
		}
		row[p.colIndex[field]] = val
	}

	for _, field := range features.FlagFields {
		v := rec.Flag(field)
		if v == nil {
			// Validation runs before the pipeline; a missing flag here
			// means the caller skipped it.
			return nil, fmt.Errorf("flag %q missing after validation", field)
		}
		row[p.colIndex[field]] = float64(*v)
	}

	for _, field := range features.CategoricalFields {
		val := p.art.Modes[field]
		if v := rec.Categorical(field); v != nil {
			val = strings.TrimSpace(*v)
		}
		// Unknown category: no column matches, the block stays zero.
		if i, ok := p.colIndex[field+"="+val]; ok {
			row[i] = 1
		}
	}

	return row, nil
}

// Predict runs the full pipeline: encode, apply the regressor, clamp to
// non-negative prices. Output order matches input order.
func (p *Pipeline) Predict(records []features.VehicleFeatures) ([]float64, error) {
	matrix, err := p.Transform(records)
	if err != nil {
		return nil, err
	}

	preds := make([]float64, len(matrix))
	for i, row := range matrix {
		preds[i] = p.predictRow(row)
	}
	return preds, nil
}

func (p *Pipeline) predictRow(row []float64) float64 {
	sum := p.art.Intercept
	for i, w := range p.art.Weights {
		sum += w * row[i]
	}
	if sum < 0 {
		return 0
	}
	return sum
}
