package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/asset-manager/backend/internal/domain"
)

// counterValue reads one labelled sample from the registry, 0 when absent.
func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, family := range families {
		if family.GetName() != name {
			continue
		}
	next:
		for _, metric := range family.GetMetric() {
			for _, pair := range metric.GetLabel() {
				if labels[pair.GetName()] != pair.GetValue() {
					continue next
				}
			}
			return metric.GetCounter().GetValue()
		}
	}
	return 0
}

func TestObserveOperation(t *testing.T) {
	m := New()

	m.ObserveOperation("assign", nil)
	m.ObserveOperation("assign", nil)
	m.ObserveOperation("assign", &domain.EmployeeNotActiveError{FullName: "David Brown"})
	m.ObserveOperation("return", errors.New("db down"))

	name := "asset_manager_operations_total"
	assert.Equal(t, 2.0, counterValue(t, m, name, map[string]string{"operation": "assign", "outcome": "ok"}))
	assert.Equal(t, 1.0, counterValue(t, m, name, map[string]string{"operation": "assign", "outcome": "employee_not_active"}))
	assert.Equal(t, 1.0, counterValue(t, m, name, map[string]string{"operation": "return", "outcome": "internal"}))
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("/assets/{id}", http.MethodGet, http.StatusNotFound, 5*time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, m, "asset_manager_http_requests_total", map[string]string{
		"route": "/assets/{id}", "method": "GET", "status": "404",
	}))
}

func TestHandlerExposesMetrics(t *testing.T) {
	m := New()
	m.ObserveOperation("delete_asset", &domain.CannotDeleteError{Entity: "Asset", Records: 1})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `asset_manager_operations_total{operation="delete_asset",outcome="cannot_delete"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.ObserveOperation("assign", nil)

	assert.Equal(t, 0.0, counterValue(t, b, "asset_manager_operations_total", map[string]string{"operation": "assign", "outcome": "ok"}))
}
