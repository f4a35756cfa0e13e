package handlers

import (
	"github.com/carpricer/site/predict"
)

var predictor *predict.Predictor

// Init wires the shared predictor into the handler package.
func Init(p *predict.Predictor) {
	predictor = p
}
