package www

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"hwstatus/config"
	"hwstatus/dispatch"
	"hwstatus/engine"
	"hwstatus/store"
)

func newTestServer(t *testing.T, cfg *config.Config, ev dispatch.Evaluator, items ...store.Hardware) (*httptest.Server, *store.DB) {
	t.Helper()
	db, err := store.Open(&config.DatabaseConfig{
		Driver: "sqlite",
		SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "hw.db")},
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	_, err = db.Seed(context.Background(), items)
	require.NoError(t, err)

	if cfg == nil {
		cfg = config.Defaults()
	}
	eng := engine.New(engine.Config{AppConfig: cfg, DB: db, Evaluator: ev, LogFunc: func(string, ...any) {}})
	t.Cleanup(eng.Stop)

	srv := httptest.NewServer(NewRouter(eng))
	t.Cleanup(srv.Close)
	return srv, db
}

func statusByProvider(m map[string]dispatch.Status) dispatch.EvaluatorFunc {
	return func(_ context.Context, provider, _ string) (dispatch.Status, error) {
		if s, ok := m[provider]; ok {
			return s, nil
		}
		return "", errors.New("no such provider")
	}
}

func TestListAvailability_JSON(t *testing.T) {
	srv, _ := newTestServer(t, nil,
		statusByProvider(map[string]dispatch.Status{"AWS": dispatch.StatusHigh, "GCP": dispatch.StatusLow}),
		store.Hardware{Provider: "AWS", Name: "c5.large"},
		store.Hardware{Provider: "GCP", Name: "n2-standard"},
	)

	for _, path := range []string{"/hardware/", "/hardware"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		defer resp.Body.Close()

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		assert.NotEmpty(t, resp.Header.Get("X-Report-ID"))

		var body []map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, []map[string]string{
			{"provider": "AWS", "name": "c5.large", "availability": "HIGH"},
			{"provider": "GCP", "name": "n2-standard", "availability": "LOW"},
		}, body)
	}
}

func TestListAvailability_EmptyInventory(t *testing.T) {
	srv, _ := newTestServer(t, nil, statusByProvider(nil))

	resp, err := http.Get(srv.URL + "/hardware/")
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, buf.String())
}

func TestListAvailability_ErrorMapping(t *testing.T) {
	t.Run("source unavailable", func(t *testing.T) {
		srv, db := newTestServer(t, nil, statusByProvider(nil), store.Hardware{Provider: "AWS", Name: "c5.large"})
		require.NoError(t, db.Close())

		resp, err := http.Get(srv.URL + "/hardware/")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Contains(t, body["error"], "record source unavailable")
	})

	t.Run("evaluation failure", func(t *testing.T) {
		srv, _ := newTestServer(t, nil, statusByProvider(nil), store.Hardware{Provider: "AWS", Name: "c5.large"})

		resp, err := http.Get(srv.URL + "/hardware/")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("request timeout", func(t *testing.T) {
		cfg := config.Defaults()
		cfg.Web.RequestTimeout = 20 * time.Millisecond
		srv, _ := newTestServer(t, cfg, dispatch.EvaluatorFunc(func(ctx context.Context, _, _ string) (dispatch.Status, error) {
			<-ctx.Done()
			return "", ctx.Err()
		}), store.Hardware{Provider: "AWS", Name: "c5.large"})

		resp, err := http.Get(srv.URL + "/hardware/")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusGatewayTimeout, resp.StatusCode)
	})
}

func TestExportXLSX(t *testing.T) {
	srv, _ := newTestServer(t, nil,
		statusByProvider(map[string]dispatch.Status{"AWS": dispatch.StatusMedium, "GCP": dispatch.StatusHigh}),
		store.Hardware{Provider: "AWS", Name: "c5.large"},
		store.Hardware{Provider: "GCP", Name: "n2-standard"},
	)

	resp, err := http.Get(srv.URL + "/hardware.xlsx")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "hardware-availability-")

	f, err := excelize.OpenReader(resp.Body)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(reportSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Provider", "Name", "Availability"},
		{"AWS", "c5.large", "MEDIUM"},
		{"GCP", "n2-standard", "HIGH"},
	}, rows)
}

func TestHealthAndDiagnostics(t *testing.T) {
	srv, db := newTestServer(t, nil, statusByProvider(nil))

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	var health map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&health))
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, true, health["database"])
	assert.Equal(t, false, health["messaging"])

	resp, err = http.Get(srv.URL + "/api/diagnostics")
	require.NoError(t, err)
	var diag map[string]map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&diag))
	resp.Body.Close()
	assert.Equal(t, "sqlite", diag["database"]["driver"])
	assert.Equal(t, "simulated", diag["evaluator"]["backend"])

	require.NoError(t, db.Close())
	resp, err = http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t, nil,
		statusByProvider(map[string]dispatch.Status{"AWS": dispatch.StatusHigh}),
		store.Hardware{Provider: "AWS", Name: "c5.large"},
	)

	resp, err := http.Get(srv.URL + "/hardware/")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	var buf bytes.Buffer
	buf.ReadFrom(resp.Body)
	assert.Contains(t, buf.String(), `hwstatus_evaluations_total{outcome="ok"} 1`)
	assert.Contains(t, buf.String(), `hwstatus_reports_total{status="ok"} 1`)
}
