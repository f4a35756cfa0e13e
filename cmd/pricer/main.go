package main

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/carpricer/site/config"
	"github.com/carpricer/site/db"
	"github.com/carpricer/site/listing"
	"github.com/carpricer/site/predict"
	"github.com/carpricer/site/pricemodel"
	"github.com/carpricer/site/spec"
	"github.com/spf13/cobra"
)

var (
	flagBrand     string
	flagDB        string
	flagModel     string
	flagTolerance string
	flagWindow    float64
	flagSeed      int64
)

var rootCmd = &cobra.Command{
	Use:          "pricer",
	Short:        "Predict a car's market price from its brand",
	SilenceUsage: true, // don't print usage on operational errors
	Long: `Pricer samples a representative specification row for a brand, runs the
pre-trained regression model over it and looks up the closest real listing
by price. Without --brand it prompts on standard input.`,
	RunE: run,
}

func init() {
	cfg := config.Load()
	rootCmd.Flags().StringVar(&flagBrand, "brand", "", "Brand to price (skips the interactive prompt)")
	rootCmd.Flags().StringVar(&flagDB, "db", cfg.DatabaseURL, "Path to the catalog database")
	rootCmd.Flags().StringVar(&flagModel, "model", cfg.ModelPath, "Path to the model artifact")
	rootCmd.Flags().StringVar(&flagTolerance, "tolerance", cfg.TolerancePolicy, "Match tolerance policy: dynamic or fixed")
	rootCmd.Flags().Float64Var(&flagWindow, "window", cfg.ToleranceWindow, "Window for the fixed tolerance policy")
	rootCmd.Flags().Int64Var(&flagSeed, "seed", 0, "Seed for specification sampling (0 uses a random seed)")
}

func run(cmd *cobra.Command, args []string) error {
	if flagTolerance != "dynamic" && flagTolerance != "fixed" {
		return fmt.Errorf("unknown tolerance policy %q (want dynamic or fixed)", flagTolerance)
	}

	fmt.Println("Loading model and data...")
	if err := db.Init(flagDB); err != nil {
		return fmt.Errorf("cannot open catalog database: %w", err)
	}
	defer db.Close()

	specs, err := spec.LoadCatalog()
	if err != nil {
		return fmt.Errorf("cannot load specification catalog: %w", err)
	}
	listings, err := listing.LoadCatalog()
	if err != nil {
		return fmt.Errorf("cannot load listing catalog: %w", err)
	}
	model, err := pricemodel.Load(flagModel)
	if err != nil {
		return fmt.Errorf("cannot load price model: %w", err)
	}

	tolerance := predict.DynamicTolerance
	if flagTolerance == "fixed" {
		tolerance = predict.FixedTolerance(flagWindow)
	}

	predictor := predict.New(specs, listings, model, tolerance)
	if flagSeed != 0 {
		predictor.SetRandInt(rand.New(rand.NewSource(flagSeed)).Intn)
	}

	brand := flagBrand
	if brand == "" {
		fmt.Print("\nEnter car brand: ")
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return scanner.Err()
		}
		brand = scanner.Text()
	}

	result, err := predictor.PredictPrice(brand)
	if err != nil {
		return err
	}

	fmt.Printf("\nPredicted price: %d INR\n", result.PredictedPrice)

	if result.Match == nil {
		window := predictor.Tolerance(result.PredictedPrice)
		fmt.Println("\nNo matching car found at the predicted price.")
		fmt.Printf("(Searched within ±%.0f of the predicted price)\n", window)
		return nil
	}

	fmt.Println("\nClosest listing at the predicted price:")
	printMatch(result.Match)
	return nil
}

// printMatch renders the match attributes as an aligned two-column table.
func printMatch(match map[string]interface{}) {
	keys := make([]string, 0, len(match))
	for k := range match {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "  %s\t%v\n", strings.ReplaceAll(k, "_", " "), match[k])
	}
	w.Flush()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
