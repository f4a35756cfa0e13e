package handlers

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/carpricer/site/db"
	"github.com/carpricer/site/listing"
	"github.com/carpricer/site/predict"
	"github.com/carpricer/site/spec"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModel struct {
	out float64
}

func (m stubModel) Predict(features []float64) (float64, error) {
	return m.out, nil
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	specs, err := spec.NewCatalog([]spec.Row{
		{ID: 1, Brand: "Toyota", Model: "Corolla", FuelType: 1, EngineDisplacement: 1800},
	})
	require.NoError(t, err)

	listings := listing.NewCatalog([]listing.Row{
		{ID: 1, Brand: "Maruti", Model: "Swift", Price: 510000, Location: "Mumbai"},
	})

	Init(predict.New(specs, listings, stubModel{out: 500000}, nil))

	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/", HandleRoot)
	app.Post("/predict", HandlePredict)
	app.Get("/health", HandleHealth)
	return app
}

func decodeBody(t *testing.T, resp io.Reader) map[string]interface{} {
	t.Helper()
	body, err := io.ReadAll(resp)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &decoded))
	return decoded
}

func TestHandlePredict(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"brand": "  Toyota "}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, float64(500000), body["predicted_price"])

	match, ok := body["match"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Mumbai", match["location"])
	assert.NotContains(t, match, "brand")
	assert.NotContains(t, match, "price")
}

func TestHandlePredictNoMatch(t *testing.T) {
	specs, err := spec.NewCatalog([]spec.Row{
		{ID: 1, Brand: "Toyota", Model: "Corolla"},
	})
	require.NoError(t, err)

	// Nothing inside the 250000 window around 500000.
	listings := listing.NewCatalog([]listing.Row{
		{ID: 1, Price: 800001},
	})

	Init(predict.New(specs, listings, stubModel{out: 500000}, nil))

	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Post("/predict", HandlePredict)

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"brand": "Toyota"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, float64(500000), body["predicted_price"])
	assert.Nil(t, body["match"])
}

func TestHandlePredictUnknownBrand(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(`{"brand": "Ferrari"}`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Contains(t, body["detail"], "Ferrari")
}

func TestHandlePredictBlankBrand(t *testing.T) {
	app := newTestApp(t)

	for _, payload := range []string{`{"brand": ""}`, `{"brand": "   "}`} {
		req := httptest.NewRequest("POST", "/predict", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode, "payload %s", payload)
	}
}

func TestHandlePredictMalformedBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest("POST", "/predict", strings.NewReader(`not json`))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestHandleRoot(t *testing.T) {
	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "carpricer", body["service"])
	assert.NotEmpty(t, body["version"])
	assert.NotEmpty(t, body["endpoints"])
}

func TestHandleHealth(t *testing.T) {
	mockDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db.SetForTesting(mockDB)

	app := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp.Body)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "up", body["database"])
}
