package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type equipmentResponse struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	SerialNumber     string `json:"serial_number"`
	Category         string `json:"category"`
	HealthPercentage int    `json:"health_percentage"`
	Status           string `json:"status"`
	IsCritical       bool   `json:"is_critical"`
	IsScrapped       bool   `json:"is_scrapped"`
}

func TestEquipmentCRUD(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedTechnician(t, "tech")

	// Create
	w := env.do(t, "POST", "/api/equipment", token, map[string]any{
		"name":          "CNC Machine",
		"serial_number": "SN-1001",
		"category":      "CNC",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created equipmentResponse
	decode(t, w, &created)
	assert.Equal(t, "active", created.Status)
	assert.Equal(t, 100, created.HealthPercentage)
	assert.False(t, created.IsCritical)
	assert.False(t, created.IsScrapped)

	// Duplicate serial number
	w = env.do(t, "POST", "/api/equipment", token, map[string]any{
		"name":          "Clone",
		"serial_number": "SN-1001",
		"category":      "CNC",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Update drops health below the critical threshold
	w = env.do(t, "PUT", "/api/equipment/"+created.ID, token, map[string]any{
		"health_percentage": 25,
		"status":            "maintenance",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var updated equipmentResponse
	decode(t, w, &updated)
	assert.Equal(t, 25, updated.HealthPercentage)
	assert.Equal(t, "maintenance", updated.Status)
	assert.True(t, updated.IsCritical)

	// Invalid status value
	w = env.do(t, "PUT", "/api/equipment/"+created.ID, token, map[string]any{
		"status": "exploded",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Get
	w = env.do(t, "GET", "/api/equipment/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Delete
	w = env.do(t, "DELETE", "/api/equipment/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, "GET", "/api/equipment/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListEquipment_Filters(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedTechnician(t, "tech")

	fixtures := []map[string]any{
		{"name": "Lathe", "serial_number": "SN-1", "category": "Machinery", "department": "Fabrication"},
		{"name": "Drill Press", "serial_number": "SN-2", "category": "Machinery", "department": "Assembly"},
		{"name": "Forklift", "serial_number": "SN-3", "category": "Vehicles", "department": "Logistics"},
	}
	for _, body := range fixtures {
		w := env.do(t, "POST", "/api/equipment", token, body)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	var listed struct {
		Items []equipmentResponse `json:"items"`
		Total int                 `json:"total"`
	}

	w := env.do(t, "GET", "/api/equipment", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	assert.Equal(t, 3, listed.Total)

	w = env.do(t, "GET", "/api/equipment?category=Machinery", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	assert.Equal(t, 2, listed.Total)

	w = env.do(t, "GET", "/api/equipment?department=Logistics", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	require.Equal(t, 1, listed.Total)
	assert.Equal(t, "Forklift", listed.Items[0].Name)

	w = env.do(t, "GET", "/api/equipment?search=Drill", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	require.Equal(t, 1, listed.Total)
	assert.Equal(t, "Drill Press", listed.Items[0].Name)

	w = env.do(t, "GET", "/api/equipment?is_scrapped=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	assert.Equal(t, 0, listed.Total)
}

func TestScrapRequestScrapsEquipment(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedTechnician(t, "tech")

	w := env.do(t, "POST", "/api/equipment", token, map[string]any{
		"name":          "Old Press",
		"serial_number": "SN-9",
		"category":      "Machinery",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var equipment equipmentResponse
	decode(t, w, &equipment)

	w = env.do(t, "POST", "/api/requests", token, map[string]any{
		"subject":      "Beyond repair",
		"request_type": "corrective",
		"equipment_id": equipment.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var request requestResponse
	decode(t, w, &request)

	w = env.do(t, "PATCH", "/api/requests/"+request.ID+"/status", token, map[string]any{
		"status":  "scrap",
		"comment": "Frame cracked",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, "GET", "/api/equipment/"+equipment.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &equipment)
	assert.Equal(t, "scrapped", equipment.Status)
	assert.True(t, equipment.IsScrapped)

	w = env.do(t, "GET", "/api/equipment?is_scrapped=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Total int `json:"total"`
	}
	decode(t, w, &listed)
	assert.Equal(t, 1, listed.Total)
}

func TestListUsers(t *testing.T) {
	env := newTestEnv(t)
	_, token := env.seedTechnician(t, "tech")

	var listed struct {
		Items []struct {
			Name         string `json:"name"`
			IsTechnician bool   `json:"is_technician"`
		} `json:"items"`
		Total int `json:"total"`
	}

	w := env.do(t, "GET", "/api/users?is_technician=true", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	require.Equal(t, 1, listed.Total)
	assert.True(t, listed.Items[0].IsTechnician)

	w = env.do(t, "GET", "/api/users?is_technician=false", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &listed)
	assert.Equal(t, 0, listed.Total)
}
