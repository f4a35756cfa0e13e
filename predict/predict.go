package predict

import (
	"errors"
	"fmt"
	"log"
	"math"
	"math/rand"
	"strings"

	"github.com/carpricer/site/listing"
	"github.com/carpricer/site/spec"
)

// ErrInvalidInput is returned when the brand query is empty or whitespace.
var ErrInvalidInput = errors.New("brand must not be empty or whitespace")

// UnknownBrandError is returned when no specification rows match the brand.
// Brand carries the original, untrimmed query text for diagnostics.
type UnknownBrandError struct {
	Brand string
}

func (e UnknownBrandError) Error() string {
	return fmt.Sprintf("brand %q not found in the dataset", e.Brand)
}

// ModelInferenceError wraps a failure inside the price model. It is not
// expected with a well-formed catalog, but it must never crash a request.
type ModelInferenceError struct {
	Err error
}

func (e ModelInferenceError) Error() string {
	return fmt.Sprintf("price model inference failed: %v", e.Err)
}

func (e ModelInferenceError) Unwrap() error {
	return e.Err
}

// PriceModel is the regression function consumed as a black box.
type PriceModel interface {
	Predict(features []float64) (float64, error)
}

// TolerancePolicy computes the maximum acceptable price distance between a
// prediction and a candidate listing.
type TolerancePolicy func(predictedPrice int) float64

// DynamicTolerance is half the predicted price, floored at 20000. The floor
// keeps the window usable at low price points.
func DynamicTolerance(predictedPrice int) float64 {
	return math.Max(float64(predictedPrice)*0.5, 20000)
}

// FixedTolerance returns a policy with a constant window.
func FixedTolerance(window float64) TolerancePolicy {
	return func(int) float64 {
		return window
	}
}

// Result is the outcome of one prediction. Match is nil when no listing
// falls inside the tolerance window; that is a valid success outcome.
type Result struct {
	PredictedPrice int                    `json:"predicted_price"`
	Match          map[string]interface{} `json:"match"`
}

// Predictor resolves a brand to a specification row, prices it and finds
// the nearest real listing. Safe for concurrent use: the catalogs and the
// model are read-only and all per-request state stays on the stack.
type Predictor struct {
	specs     *spec.Catalog
	listings  *listing.Catalog
	model     PriceModel
	tolerance TolerancePolicy
	randInt   func(n int) int
}

// New creates a Predictor. A nil tolerance selects DynamicTolerance.
func New(specs *spec.Catalog, listings *listing.Catalog, model PriceModel, tolerance TolerancePolicy) *Predictor {
	if tolerance == nil {
		tolerance = DynamicTolerance
	}
	return &Predictor{
		specs:     specs,
		listings:  listings,
		model:     model,
		tolerance: tolerance,
		randInt:   rand.Intn,
	}
}

// SetRandInt replaces the random source used to sample among a brand's
// specification rows, for reproducible selection in tests and scripted runs.
func (p *Predictor) SetRandInt(randInt func(n int) int) {
	p.randInt = randInt
}

// PredictPrice runs the full pipeline for one brand query.
func (p *Predictor) PredictPrice(brand string) (Result, error) {
	if strings.TrimSpace(brand) == "" {
		return Result{}, ErrInvalidInput
	}

	rows := p.specs.FindByBrand(brand)
	if len(rows) == 0 {
		return Result{}, UnknownBrandError{Brand: brand}
	}

	// A brand with several trims gets a representative row sampled
	// uniformly, so repeated queries vary across the brand's lineup.
	row := rows[p.randInt(len(rows))]

	raw, err := p.model.Predict(row.FeatureVector())
	if err != nil {
		log.Printf("[predict] model rejected feature vector for %s %s: %v", row.Brand, row.Model, err)
		return Result{}, ModelInferenceError{Err: err}
	}

	// Truncate toward zero to match the historical integer cast; the model
	// can extrapolate below zero, so clamp at zero.
	predicted := int(math.Trunc(raw))
	if predicted < 0 {
		predicted = 0
	}

	result := Result{PredictedPrice: predicted}

	tolerance := p.tolerance(predicted)
	if match, ok := p.listings.NearestWithinTolerance(float64(predicted), tolerance); ok {
		result.Match = match.DisplayAttributes()
	}

	return result, nil
}

// Tolerance exposes the active policy so adapters can report the window
// that was searched.
func (p *Predictor) Tolerance(predictedPrice int) float64 {
	return p.tolerance(predictedPrice)
}
