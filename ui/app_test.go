package ui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"dexadash/domain/scan"
	"dexadash/internal"
	"dexadash/internal/view"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getApp(t *testing.T, app *App, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	app.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestAppPatients(t *testing.T) {
	app := NewApp(newTestAssembler(), internal.NewLogger(internal.LogLevelError))

	w := getApp(t, app, "/api/patients")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"patients":["Alex Morgan","Blair Chen"],"default":"Alex Morgan"}`, w.Body.String())

	w = getApp(t, app, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAppBodyPartsSelectionFromQuery(t *testing.T) {
	app := NewApp(newTestAssembler(), nil)

	w := getApp(t, app, "/api/patients/Alex%20Morgan/body-parts?part=Right+Leg&part=Left+Leg")
	require.Equal(t, http.StatusOK, w.Code)
	var v view.BodyPartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, []scan.BodyPart{scan.LeftLeg, scan.RightLeg}, v.Selected)
	assert.Len(t, v.Charts, 2)

	w = getApp(t, app, "/api/patients/Alex%20Morgan/body-parts")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	assert.Equal(t, []scan.BodyPart{scan.Total}, v.Selected)

	w = getApp(t, app, "/api/patients/Alex%20Morgan/body-parts?part=Head")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAppViews(t *testing.T) {
	app := NewApp(newTestAssembler(), nil)

	w := getApp(t, app, "/api/patients/Blair%20Chen/overview")
	require.Equal(t, http.StatusOK, w.Code)
	var overview view.OverviewView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &overview))
	assert.Equal(t, "Blair Chen", overview.Patient)
	assert.Len(t, overview.Cards, 4)

	w = getApp(t, app, "/api/patients/Blair%20Chen/composition")
	assert.Equal(t, http.StatusOK, w.Code)

	w = getApp(t, app, "/api/patients/Blair%20Chen/symmetry")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAppUnknownPatient(t *testing.T) {
	app := NewApp(newTestAssembler(), nil)

	w := getApp(t, app, "/api/patients/Nobody/overview")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "NOT_FOUND")
	assert.Contains(t, w.Body.String(), "Nobody")
}
