package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockroom/internal/repository/file"
	commandsvc "github.com/mamadbah2/stockroom/internal/service/commands"
	inventorysvc "github.com/mamadbah2/stockroom/internal/service/inventory"
	"github.com/mamadbah2/stockroom/internal/store"
)

func newTestEngine(t *testing.T, initial map[string]int) (*gin.Engine, *file.Repository) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	snapshots := file.NewRepository(filepath.Join(t.TempDir(), "inventory.json"), zap.NewNop())
	inventorySvc := inventorysvc.NewService(store.New(initial), snapshots, nil, zap.NewNop())
	dispatcher := commandsvc.NewService(inventorySvc, 5, zap.NewNop())
	handler := NewInventoryHandler(inventorySvc, dispatcher, 5, zap.NewNop())

	r := gin.New()
	r.POST("/items/add", handler.AddItem)
	r.POST("/items/remove", handler.RemoveItem)
	r.GET("/items/:item/quantity", handler.GetQuantity)
	r.GET("/stock/low", handler.LowStock)
	r.GET("/report", handler.Report)
	r.GET("/movements", handler.Movements)
	r.POST("/snapshot", handler.SaveSnapshot)
	r.POST("/commands", handler.Dispatch)

	return r, snapshots
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	out := map[string]any{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestAddItemEndpoint(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	w := doJSON(t, r, http.MethodPost, "/items/add", gin.H{"item": "apple", "qty": 10})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "apple", body["item"])
	assert.Equal(t, float64(10), body["quantity"])
}

func TestAddItemRejectsMissingFields(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	w := doJSON(t, r, http.MethodPost, "/items/add", gin.H{"qty": 10})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddItemRejectsNegativeQuantity(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	w := doJSON(t, r, http.MethodPost, "/items/add", gin.H{"item": "apple", "qty": -2})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRemoveItemEndpoint(t *testing.T) {
	r, _ := newTestEngine(t, map[string]int{"apple": 10})

	w := doJSON(t, r, http.MethodPost, "/items/remove", gin.H{"item": "apple", "qty": 3})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(7), body["quantity"])
}

func TestRemoveUnknownItemReturns404(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	w := doJSON(t, r, http.MethodPost, "/items/remove", gin.H{"item": "orange", "qty": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetQuantityEndpoint(t *testing.T) {
	r, _ := newTestEngine(t, map[string]int{"apple": 7})

	w := doJSON(t, r, http.MethodGet, "/items/apple/quantity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(7), decodeBody(t, w)["quantity"])

	w = doJSON(t, r, http.MethodGet, "/items/orange/quantity", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decodeBody(t, w)["quantity"])
}

func TestLowStockEndpoint(t *testing.T) {
	r, _ := newTestEngine(t, map[string]int{"apple": 5, "banana": 15})

	w := doJSON(t, r, http.MethodGet, "/stock/low", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(5), body["threshold"])
	assert.Equal(t, []any{"apple"}, body["items"])
}

func TestLowStockCustomThreshold(t *testing.T) {
	r, _ := newTestEngine(t, map[string]int{"apple": 5, "banana": 15})

	w := doJSON(t, r, http.MethodGet, "/stock/low?threshold=20", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"apple", "banana"}, decodeBody(t, w)["items"])
}

func TestLowStockRejectsBadThreshold(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	w := doJSON(t, r, http.MethodGet, "/stock/low?threshold=lots", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportJSON(t *testing.T) {
	r, _ := newTestEngine(t, map[string]int{"apple": 7})

	w := doJSON(t, r, http.MethodGet, "/report", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["total_items"])
	assert.Equal(t, float64(7), body["total_units"])
}

func TestReportText(t *testing.T) {
	r, _ := newTestEngine(t, map[string]int{"apple": 7})

	w := doJSON(t, r, http.MethodGet, "/report?format=text", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "--- Items Report ---\napple: 7\n--------------------\n", w.Body.String())
}

func TestReportTextEmptyInventory(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	w := doJSON(t, r, http.MethodGet, "/report?format=text", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Inventory is empty.")
}

func TestMovementsEndpoint(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	doJSON(t, r, http.MethodPost, "/items/add", gin.H{"item": "apple", "qty": 10})
	doJSON(t, r, http.MethodPost, "/items/remove", gin.H{"item": "apple", "qty": 4})

	w := doJSON(t, r, http.MethodGet, "/movements", nil)
	require.Equal(t, http.StatusOK, w.Code)

	movements, ok := decodeBody(t, w)["movements"].([]any)
	require.True(t, ok)
	assert.Len(t, movements, 2)
}

func TestSnapshotEndpoint(t *testing.T) {
	r, snapshots := newTestEngine(t, map[string]int{"apple": 7})

	w := doJSON(t, r, http.MethodPost, "/snapshot", nil)
	require.Equal(t, http.StatusOK, w.Code)

	loaded, err := snapshots.Load()
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"apple": 7}, loaded)
}

func TestDispatchEndpoint(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	w := doJSON(t, r, http.MethodPost, "/commands", gin.H{"sender": "worker-1", "text": "/add apple 10"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Added 10 of apple. New quantity 10.", decodeBody(t, w)["reply"])
}

func TestDispatchUnknownCommandReturnsHelp(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	w := doJSON(t, r, http.MethodPost, "/commands", gin.H{"text": "/restock apple"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, commandsvc.HelpMessage, decodeBody(t, w)["help"])
}

func TestDispatchUnknownItemReturns404(t *testing.T) {
	r, _ := newTestEngine(t, nil)

	w := doJSON(t, r, http.MethodPost, "/commands", gin.H{"text": "/remove orange 1"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
