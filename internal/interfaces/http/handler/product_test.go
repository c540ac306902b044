package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newProductTestRouter(t *testing.T, repo *MockProductRepository) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	service := catalogapp.NewProductService(repo, nil)
	h := NewProductHandler(service)

	router := gin.New()
	router.GET("/products", h.List)
	router.GET("/products/:id", h.Get)
	router.POST("/products", h.Create)
	router.PUT("/products/:id", h.Update)
	router.DELETE("/products/:id", h.Delete)
	return router
}

func TestProductHandler_List(t *testing.T) {
	repo := new(MockProductRepository)
	products := []catalog.Product{
		*newTestProduct("Standing Desk", "499.00", 3),
		*newTestProduct("Desk Lamp", "24.50", 12),
	}
	repo.On("FindAll", mock.Anything, mock.Anything).Return(products, nil)
	repo.On("Count", mock.Anything, mock.Anything).Return(int64(2), nil)

	router := newProductTestRouter(t, repo)

	req, _ := http.NewRequest(http.MethodGet, "/products?page=1&page_size=20", nil)
	w := performRequest(router, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, int64(2), resp.Meta.Total)
	assert.Equal(t, 1, resp.Meta.Page)

	items := resp.Data.([]interface{})
	assert.Len(t, items, 2)
}

func TestProductHandler_List_InvalidStatus(t *testing.T) {
	router := newProductTestRouter(t, new(MockProductRepository))

	req, _ := http.NewRequest(http.MethodGet, "/products?status=archived", nil)
	w := performRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Get(t *testing.T) {
	repo := new(MockProductRepository)
	product := newTestProduct("Standing Desk", "499.00", 3)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)

	router := newProductTestRouter(t, repo)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/products/%s", product.ID), nil)
	w := performRequest(router, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Standing Desk", data["name"])
	assert.Equal(t, "499", data["price"])
}

func TestProductHandler_Get_NotFound(t *testing.T) {
	repo := new(MockProductRepository)
	missing := uuid.New()
	repo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

	router := newProductTestRouter(t, repo)

	req, _ := http.NewRequest(http.MethodGet, fmt.Sprintf("/products/%s", missing), nil)
	w := performRequest(router, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_Get_InvalidID(t *testing.T) {
	router := newProductTestRouter(t, new(MockProductRepository))

	req, _ := http.NewRequest(http.MethodGet, "/products/not-a-uuid", nil)
	w := performRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_Create(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := newProductTestRouter(t, repo)

	body := []byte(`{"name": "Monitor Arm", "description": "Dual", "price": "79.99", "stock": 40}`)
	req, _ := http.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := performRequest(router, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "Monitor Arm", data["name"])
	assert.NotEmpty(t, data["id"])
	repo.AssertExpectations(t)
}

func TestProductHandler_Create_MissingName(t *testing.T) {
	repo := new(MockProductRepository)
	router := newProductTestRouter(t, repo)

	body := []byte(`{"price": "79.99", "stock": 40}`)
	req, _ := http.NewRequest(http.MethodPost, "/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := performRequest(router, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestProductHandler_Update(t *testing.T) {
	repo := new(MockProductRepository)
	product := newTestProduct("Monitor Arm", "79.99", 40)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

	router := newProductTestRouter(t, repo)

	body := []byte(`{"price": "69.99"}`)
	req, _ := http.NewRequest(http.MethodPut, fmt.Sprintf("/products/%s", product.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := performRequest(router, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "69.99", data["price"])
	assert.Equal(t, "Monitor Arm", data["name"])
}

func TestProductHandler_Delete(t *testing.T) {
	repo := new(MockProductRepository)
	product := newTestProduct("Monitor Arm", "79.99", 40)
	repo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
	repo.On("Delete", mock.Anything, product.ID).Return(nil)

	router := newProductTestRouter(t, repo)

	req, _ := http.NewRequest(http.MethodDelete, fmt.Sprintf("/products/%s", product.ID), nil)
	w := performRequest(router, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	repo.AssertExpectations(t)
}
