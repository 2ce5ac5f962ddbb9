package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHealthCheck is a unit test for the HealthCheck handler function
func TestHealthCheck(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HealthCheck(c)

	assert.Equal(t, http.StatusOK, w.Code, "Expected status code 200")
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), "Response should be valid JSON")
	assert.Len(t, response, 2, "Response should have exactly 2 fields")
	assert.Equal(t, true, response["success"])
	assert.Equal(t, "Bigfoot API is running", response["message"])
}

func TestDatabaseStatus(t *testing.T) {
	router := setupTestRouter()
	router.GET("/api/database/status", DatabaseStatus)

	t.Run("connected database lists tables", func(t *testing.T) {
		setupTestDB(t)

		w := performJSON(router, http.MethodGet, "/api/database/status", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var response struct {
			Success bool     `json:"success"`
			Driver  string   `json:"driver"`
			Tables  []string `json:"tables"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.True(t, response.Success)
		assert.Equal(t, "sqlite", response.Driver)
		assert.Subset(t, response.Tables, []string{"users", "employees", "profiles", "guests", "quotes"})
	})

	t.Run("no database configured", func(t *testing.T) {
		w := performJSON(router, http.MethodGet, "/api/database/status", nil)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "DATABASE_ERROR", decodeResponse(t, w).Error.Code)
	})
}
