package http

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/bookscout/backend/config"
	"github.com/bookscout/backend/internal/domain"
	"github.com/bookscout/backend/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	// Set Gin to test mode once for all tests
	gin.SetMode(gin.TestMode)

	os.Exit(m.Run())
}

type stubRecognizer struct {
	annotations []string
	err         error
}

func (s *stubRecognizer) DetectText(ctx context.Context, image []byte) ([]string, error) {
	return s.annotations, s.err
}

type stubSearch struct {
	urls []string
	err  error
}

func (s *stubSearch) Search(ctx context.Context, query string, numResults int) ([]string, error) {
	return s.urls, s.err
}

type stubProducts struct {
	product *domain.ProductRecord
	err     error
}

func (s *stubProducts) GetProduct(ctx context.Context, asin string) (*domain.ProductRecord, error) {
	return s.product, s.err
}

// recordingScouter captures the arguments the handler passes on
type recordingScouter struct {
	image    []byte
	buyPrice float64
	called   bool
}

func (r *recordingScouter) Scout(ctx context.Context, image []byte, buyPrice float64) (*domain.ScoutResult, error) {
	r.called = true
	r.image = image
	r.buyPrice = buyPrice
	return &domain.ScoutResult{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:           "5000",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
			MaxUploadBytes: 1 << 20,
		},
		Canopy: config.CanopyConfig{APIKey: "test-api-key"},
	}
}

// setupTestRouter creates a test router around a scouter
func setupTestRouter(scouter Scouter) *gin.Engine {
	return SetupRouter(testConfig(), NewHandler(scouter))
}

// setupPipelineRouter wires the real scout service to stub providers
func setupPipelineRouter(ocr domain.TextRecognizer, search domain.SearchProvider, products domain.ProductClient) *gin.Engine {
	service := usecase.NewScoutService(ocr, search, products, usecase.ScoutServiceConfig{})
	return setupTestRouter(service)
}

// newUploadRequest builds a multipart upload; a nil image omits the file part
// and an empty buyPrice omits that field.
func newUploadRequest(t *testing.T, image []byte, buyPrice string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if image != nil {
		part, err := writer.CreateFormFile("file", "test_image.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	if buyPrice != "" {
		require.NoError(t, writer.WriteField("buyPrice", buyPrice))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestHealthCheckEndpoint(t *testing.T) {
	t.Run("returns healthy status", func(t *testing.T) {
		router := setupTestRouter(nil)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		response := decodeBody(t, w)
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "bookscout-backend", response["service"])
		version, ok := response["version"].(string)
		assert.True(t, ok && strings.TrimSpace(version) != "")
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		router := setupTestRouter(nil)

		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(method, "/health", nil))
			assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
		}
	})
}

func TestUploadEndpoint_Success(t *testing.T) {
	router := setupPipelineRouter(
		&stubRecognizer{annotations: []string{"ISBN 9781234567890"}},
		&stubSearch{urls: []string{"https://www.amazon.com/dp/B00EXAMPLE"}},
		&stubProducts{product: &domain.ProductRecord{
			Title:        "Example Book",
			DisplayPrice: "$10.00",
			MainImageURL: "http://example.com/image.png",
		}},
	)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, newUploadRequest(t, []byte("fake image"), ""))

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{
		"product_details": {
			"title": "Example Book",
			"isbn": "9781234567890",
			"asin": "B00EXAMPLE",
			"price": "$10.00",
			"main_image_url": "http://example.com/image.png"
		},
		"profitability": {"profitability": "$2.41"}
	}`, w.Body.String())
}

func TestUploadEndpoint_BuyPrice(t *testing.T) {
	t.Run("passes the parsed purchase cost", func(t *testing.T) {
		scouter := &recordingScouter{}
		router := setupTestRouter(scouter)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newUploadRequest(t, []byte("fake image"), "3.25"))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, scouter.called)
		assert.Equal(t, 3.25, scouter.buyPrice)
		assert.Equal(t, []byte("fake image"), scouter.image)
	})

	t.Run("defaults to zero", func(t *testing.T) {
		scouter := &recordingScouter{}
		router := setupTestRouter(scouter)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, newUploadRequest(t, []byte("fake image"), ""))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 0.0, scouter.buyPrice)
	})

	t.Run("rejects non-numeric and negative values before scouting", func(t *testing.T) {
		for _, value := range []string{"abc", "-1", "NaN"} {
			scouter := &recordingScouter{}
			router := setupTestRouter(scouter)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, newUploadRequest(t, []byte("fake image"), value))

			assert.Equal(t, http.StatusBadRequest, w.Code, "buyPrice %q", value)
			assert.Equal(t, "invalid buyPrice", decodeBody(t, w)["error"])
			assert.False(t, scouter.called)
		}
	})
}

func TestUploadEndpoint_MissingFile(t *testing.T) {
	scouter := &recordingScouter{}
	router := setupTestRouter(scouter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, newUploadRequest(t, nil, "1"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "file is required", decodeBody(t, w)["error"])
	assert.False(t, scouter.called)
}

func TestUploadEndpoint_PipelineFailures(t *testing.T) {
	amazonURL := []string{"https://www.amazon.com/dp/B00EXAMPLE"}

	tests := []struct {
		name       string
		ocr        *stubRecognizer
		search     *stubSearch
		products   *stubProducts
		wantStatus int
		wantError  string
	}{
		{
			name:       "OCR provider error",
			ocr:        &stubRecognizer{err: &domain.ProviderError{Provider: "vision", Message: "Bad image data."}},
			search:     &stubSearch{},
			products:   &stubProducts{},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Bad image data.",
		},
		{
			name:       "no annotations",
			ocr:        &stubRecognizer{},
			search:     &stubSearch{},
			products:   &stubProducts{},
			wantStatus: http.StatusBadRequest,
			wantError:  "No ISBN found in the text",
		},
		{
			name:       "no ISBN in text",
			ocr:        &stubRecognizer{annotations: []string{"A Tale of Two Cities"}},
			search:     &stubSearch{},
			products:   &stubProducts{},
			wantStatus: http.StatusBadRequest,
			wantError:  "No ISBN found in the text",
		},
		{
			name:       "no ASIN in search results",
			ocr:        &stubRecognizer{annotations: []string{"ISBN 9781234567890"}},
			search:     &stubSearch{urls: []string{"https://www.notamazon.com/product/123456"}},
			products:   &stubProducts{},
			wantStatus: http.StatusBadRequest,
			wantError:  "No ASIN found in Google search results",
		},
		{
			name:       "product missing",
			ocr:        &stubRecognizer{annotations: []string{"ISBN 9781234567890"}},
			search:     &stubSearch{urls: amazonURL},
			products:   &stubProducts{},
			wantStatus: http.StatusBadRequest,
			wantError:  "Product details not found",
		},
		{
			name:       "product API failure",
			ocr:        &stubRecognizer{annotations: []string{"ISBN 9781234567890"}},
			search:     &stubSearch{urls: amazonURL},
			products:   &stubProducts{err: domain.ErrProductAPIFailure},
			wantStatus: http.StatusBadRequest,
			wantError:  "Product details not found",
		},
		{
			name:       "price unavailable",
			ocr:        &stubRecognizer{annotations: []string{"ISBN 9781234567890"}},
			search:     &stubSearch{urls: amazonURL},
			products:   &stubProducts{product: &domain.ProductRecord{Title: "Example Book"}},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Product price unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupPipelineRouter(tt.ocr, tt.search, tt.products)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, newUploadRequest(t, []byte("fake image"), ""))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantError, decodeBody(t, w)["error"])
		})
	}
}

func TestUploadEndpoint_NotConfigured(t *testing.T) {
	router := setupTestRouter(nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, newUploadRequest(t, []byte("fake image"), ""))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUploadEndpoint_Routing(t *testing.T) {
	router := setupTestRouter(&recordingScouter{})

	for _, method := range []string{"GET", "PUT", "DELETE"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(method, "/api/upload", nil))
		assert.Equal(t, http.StatusNotFound, w.Code, "method %s", method)
	}

	for _, path := range []string{"/upload", "/api/v1/upload", "/api/uploads"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("POST", path, nil))
		assert.Equal(t, http.StatusNotFound, w.Code, "path %s", path)
	}
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(&recordingScouter{})

	req := httptest.NewRequest("OPTIONS", "/api/upload", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Methods"))
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))
}
