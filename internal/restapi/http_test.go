package restapi

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/require"

	"talhoes.dashboard.org/internal/app"
	"talhoes.dashboard.org/internal/appconf"
	"talhoes.dashboard.org/internal/catalog"
	"talhoes.dashboard.org/internal/logging"
	"talhoes.dashboard.org/internal/models"
	"talhoes.dashboard.org/internal/parcels"
	"talhoes.dashboard.org/internal/synth"
)

const testAdminKey = "TEST"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// createTestApi creates a new RestAPI instance with a parcel manager loaded
// from the fixture layer. Rate limiting is left off.
func createTestApi(t *testing.T) *RestAPI {
	t.Helper()

	parcelsConfig := parcels.Config{
		DataPath: models.GetFixturePath(t, "talhoes.geojson"),
		DBPath:   ":memory:",
		Env:      appconf.Test,
		Synth:    synth.DefaultOptions(),
	}
	manager, err := parcels.InitManager(parcelsConfig, discardLogger())
	require.NoError(t, err)
	t.Cleanup(manager.Shutdown)

	application := &app.Application{
		Config: appconf.Config{
			Env:      appconf.Test,
			AdminKey: testAdminKey,
		},
		ParcelsConfig: parcelsConfig,
		Catalog:       catalog.Default(),
		Logger:        discardLogger(),
		Manager:       manager,
	}

	return &RestAPI{Application: application}
}

func newTestServer(t *testing.T, api *RestAPI) *httptest.Server {
	t.Helper()
	router := httprouter.New()
	api.SetRoutes(router)
	server := httptest.NewServer(api.Handler(router))
	t.Cleanup(server.Close)
	return server
}

// serveAndRetrieveEndpoint sets up a test server, makes a request to the specified endpoint, and returns the response
// and decoded model.
func serveAndRetrieveEndpoint(t *testing.T, endpoint string) (*RestAPI, *http.Response, models.ResponseModel) {
	api := createTestApi(t)
	resp, model := serveApiAndRetrieveEndpoint(t, api, endpoint)
	return api, resp, model
}

func serveApiAndRetrieveEndpoint(t *testing.T, api *RestAPI, endpoint string) (*http.Response, models.ResponseModel) {
	server := newTestServer(t, api)
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer logging.SafeCloseWithLogging(resp.Body,
		slog.Default().With(slog.String("component", "test")),
		"http_response_body")

	var response models.ResponseModel
	err = json.NewDecoder(resp.Body).Decode(&response)
	require.NoError(t, err)

	return resp, response
}

// fieldErrorsFor requests endpoint and decodes a 400 validation body.
func fieldErrorsFor(t *testing.T, api *RestAPI, endpoint string) (int, map[string][]string) {
	t.Helper()
	server := newTestServer(t, api)
	resp, err := http.Get(server.URL + endpoint)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var body struct {
		FieldErrors map[string][]string `json:"fieldErrors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body.FieldErrors
}

func entryOf(t *testing.T, model models.ResponseModel) map[string]interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	entry, ok := data["entry"].(map[string]interface{})
	require.True(t, ok, "data.entry should be an object")
	return entry
}

func listOf(t *testing.T, model models.ResponseModel) []interface{} {
	t.Helper()
	data, ok := model.Data.(map[string]interface{})
	require.True(t, ok, "data should be an object")
	list, ok := data["list"].([]interface{})
	require.True(t, ok, "data.list should be an array")
	return list
}
