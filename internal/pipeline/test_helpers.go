package pipeline

import "time"

// TestArtifact returns a small but fully valid fitted artifact used by
// tests across packages. The weights are hand-picked so predictions
// stay in a plausible daily-price range for typical listings.
func TestArtifact() *Artifact {
	fuels := []string{"diesel", "petrol", "hybrid_petrol", "electro"}
	colors := []string{"black", "grey", "white", "red", "silver", "blue", "beige", "brown"}
	carTypes := []string{"convertible", "coupe", "estate", "hatchback", "sedan", "subcompact", "suv", "van"}

	columns := []string{
		"mileage",
		"engine_power",
		"private_parking_available",
		"has_gps",
		"has_air_conditioning",
		"automatic_car",
		"has_getaround_connect",
		"has_speed_regulator",
		"winter_tires",
	}
	weights := []float64{
		-0.0002, // mileage: high-mileage cars rent cheaper
		0.35,    // engine_power
		4.0,     // private_parking_available
		2.5,     // has_gps
		3.0,     // has_air_conditioning
		5.0,     // automatic_car
		9.0,     // has_getaround_connect
		1.5,     // has_speed_regulator
		1.0,     // winter_tires
	}

	oneHot := func(field string, cats []string, base float64, step float64) {
		for i, c := range cats {
			columns = append(columns, field+"="+c)
			weights = append(weights, base+float64(i)*step)
		}
	}
	oneHot("fuel", fuels, 2.0, 1.5)
	oneHot("paint_color", colors, 0.5, 0.25)
	oneHot("car_type", carTypes, 1.0, 0.75)

	return &Artifact{
		SchemaVersion: SchemaVersion,
		Version:       "2024-06-01-ridge-v3",
		TrainedAt:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Medians: map[string]float64{
			"mileage":      140943,
			"engine_power": 120,
		},
		Modes: map[string]string{
			"fuel":        "diesel",
			"paint_color": "black",
			"car_type":    "estate",
		},
		Categories: map[string][]string{
			"fuel":        fuels,
			"paint_color": colors,
			"car_type":    carTypes,
		},
		Columns:   columns,
		Weights:   weights,
		Intercept: 70,
	}
}
