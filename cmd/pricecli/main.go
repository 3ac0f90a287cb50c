// pricecli exercises a running pricing service from the command line:
//
//	pricecli -addr http://localhost:8080 health
//	pricecli -addr http://localhost:8080 predict -input batch.json
//
// The predict input file holds a JSON array of vehicle feature records.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"getaround-pricing/internal/client"
	"getaround-pricing/internal/features"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "pricing service base URL")
	timeout := flag.Duration("timeout", 10*time.Second, "request timeout")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "usage: pricecli [-addr URL] health|predict [-input FILE]")
		os.Exit(2)
	}

	c := client.New(*addr, *timeout)
	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	switch flag.Arg(0) {
	case "health":
		runHealth(ctx, c)
	case "predict":
		runPredict(ctx, c, flag.Args()[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", flag.Arg(0))
		os.Exit(2)
	}
}

func runHealth(ctx context.Context, c *client.Client) {
	health, err := c.Health(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("health check failed")
	}
	out, _ := json.MarshalIndent(health, "", "  ")
	fmt.Println(string(out))
	if health.Status != "ok" {
		os.Exit(1)
	}
}

func runPredict(ctx context.Context, c *client.Client, args []string) {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	input := fs.String("input", "", "JSON file with an array of vehicle feature records")
	fs.Parse(args)

	if *input == "" {
		fmt.Fprintln(os.Stderr, "predict requires -input FILE")
		os.Exit(2)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		log.Fatal().Err(err).Str("file", *input).Msg("failed to read input file")
	}

	var records []features.VehicleFeatures
	if err := json.Unmarshal(data, &records); err != nil {
		log.Fatal().Err(err).Msg("input file is not a JSON array of records")
	}

	preds, err := c.Predict(ctx, records)
	if err != nil {
		log.Fatal().Err(err).Msg("prediction request failed")
	}

	out, _ := json.Marshal(map[string][]float64{"prediction": preds})
	fmt.Println(string(out))
}
