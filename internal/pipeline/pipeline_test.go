package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"getaround-pricing/internal/features"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }
func iptr(v int) *int         { return &v }

// baseRecord is a fully populated listing used as the starting point
// for most pipeline tests.
func baseRecord() features.VehicleFeatures {
	return features.VehicleFeatures{
		Mileage:                 fptr(150000),
		EnginePower:             fptr(90),
		Fuel:                    sptr("diesel"),
		PaintColor:              sptr("black"),
		CarType:                 sptr("estate"),
		PrivateParkingAvailable: iptr(1),
		HasGPS:                  iptr(1),
		HasAirConditioning:      iptr(0),
		AutomaticCar:            iptr(0),
		HasGetaroundConnect:     iptr(1),
		HasSpeedRegulator:       iptr(0),
		WinterTires:             iptr(1),
	}
}

func newTestPipeline(t *testing.T) *Pipeline {
	t.Helper()
	p, err := New(TestArtifact())
	require.NoError(t, err)
	return p
}

func TestTransform_ShapeAndOrder(t *testing.T) {
	p := newTestPipeline(t)

	matrix, err := p.Transform([]features.VehicleFeatures{baseRecord(), baseRecord()})
	require.NoError(t, err)
	require.Len(t, matrix, 2)

	cols := p.Columns()
	for _, row := range matrix {
		require.Len(t, row, len(cols))
	}

	// Column values land at the positions the artifact dictates.
	colIdx := make(map[string]int, len(cols))
	for i, c := range cols {
		colIdx[c] = i
	}
	row := matrix[0]
	assert.Equal(t, 150000.0, row[colIdx["mileage"]])
	assert.Equal(t, 90.0, row[colIdx["engine_power"]])
	assert.Equal(t, 1.0, row[colIdx["fuel=diesel"]])
	assert.Equal(t, 0.0, row[colIdx["fuel=petrol"]])
	assert.Equal(t, 1.0, row[colIdx["winter_tires"]])
	assert.Equal(t, 0.0, row[colIdx["automatic_car"]])
}

func TestTransform_MedianImputation(t *testing.T) {
	p := newTestPipeline(t)

	rec := baseRecord()
	rec.Mileage = nil // absent, not zero

	matrix, err := p.Transform([]features.VehicleFeatures{rec})
	require.NoError(t, err)

	mileageIdx := indexOfColumn(t, p, "mileage")
	assert.Equal(t, 140943.0, matrix[0][mileageIdx],
		"absent mileage must take the training median, not zero")
}

func TestTransform_ModeImputation(t *testing.T) {
	p := newTestPipeline(t)

	rec := baseRecord()
	rec.Fuel = nil

	matrix, err := p.Transform([]features.VehicleFeatures{rec})
	require.NoError(t, err)

	assert.Equal(t, 1.0, matrix[0][indexOfColumn(t, p, "fuel=diesel")],
		"absent fuel must take the training mode")
}

func TestTransform_UnknownCategoryEncodesAllZero(t *testing.T) {
	p := newTestPipeline(t)

	rec := baseRecord()
	rec.Fuel = sptr("hydrogen")

	matrix, err := p.Transform([]features.VehicleFeatures{rec})
	require.NoError(t, err)

	for _, col := range p.Columns() {
		if len(col) > 5 && col[:5] == "fuel=" {
			assert.Equal(t, 0.0, matrix[0][indexOfColumn(t, p, col)], "column %s", col)
		}
	}
}

func TestTransform_EmptyBatch(t *testing.T) {
	p := newTestPipeline(t)
	_, err := p.Transform(nil)
	assert.Error(t, err)
}

func TestPredict_OrderAndDeterminism(t *testing.T) {
	p := newTestPipeline(t)

	cheap := baseRecord()
	cheap.Mileage = fptr(250000)
	cheap.EnginePower = fptr(60)
	pricey := baseRecord()
	pricey.Mileage = fptr(10000)
	pricey.EnginePower = fptr(220)

	batch := []features.VehicleFeatures{cheap, pricey}
	first, err := p.Predict(batch)
	require.NoError(t, err)
	require.Len(t, first, 2)

	assert.Greater(t, first[1], first[0], "low-mileage powerful car should price higher")

	second, err := p.Predict(batch)
	require.NoError(t, err)
	assert.Equal(t, first, second, "same input must yield identical output")
}

func TestPredict_NonNegative(t *testing.T) {
	art := TestArtifact()
	art.Intercept = -1e6 // force a negative raw prediction
	p, err := New(art)
	require.NoError(t, err)

	preds, err := p.Predict([]features.VehicleFeatures{baseRecord()})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, preds[0], 0.0)
}

func TestNew_RejectsInvalidArtifact(t *testing.T) {
	art := TestArtifact()
	art.Weights = art.Weights[:1]
	_, err := New(art)
	assert.Error(t, err)
}

func indexOfColumn(t *testing.T, p *Pipeline, name string) int {
	t.Helper()
	for i, c := range p.Columns() {
		if c == name {
			return i
		}
	}
	t.Fatalf("column %q not found", name)
	return -1
}
