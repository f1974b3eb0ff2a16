package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/plateful/recipe-api/internal/api"
	"github.com/plateful/recipe-api/internal/router"
	"github.com/plateful/recipe-api/internal/service"
	"github.com/plateful/recipe-api/internal/testhelpers"
)

// testEnv wires the full router over an in-process database and an
// in-memory blob store, so handler tests exercise the real middleware,
// binding and service stack.
type testEnv struct {
	t      *testing.T
	router *gin.Engine
	db     *gorm.DB
	blobs  *testhelpers.MemoryBlobStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupTestDatabase(t)
	blobs := testhelpers.NewMemoryBlobStore()

	auth := service.NewAuthService(db, "test-secret-key")
	recipes := service.NewRecipeService(db)
	images := service.NewImageService(db, blobs)
	tags := service.NewTagService(db)
	ingredients := service.NewIngredientService(db)

	r := router.SetupRouter(router.Options{
		Users:          api.NewUserHandler(auth),
		Recipes:        api.NewRecipeHandler(recipes, images),
		Tags:           api.NewTagHandler(tags),
		Ingredients:    api.NewIngredientHandler(ingredients),
		TokenValidator: auth,
	})

	return &testEnv{t: t, router: r, db: db, blobs: blobs}
}

// do issues a JSON request, with a bearer token when one is given.
func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// upload issues a multipart request with a single file field.
func (e *testEnv) upload(path, token, field, filename string, data []byte) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(e.t, err)
	_, err = fw.Write(data)
	require.NoError(e.t, err)
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates a user through the API and returns its token.
func (e *testEnv) registerAndLogin(email string) string {
	e.t.Helper()
	w := e.do(http.MethodPost, "/user/create", "", gin.H{
		"name":     "Test User",
		"email":    email,
		"password": "testpass123",
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	w = e.do(http.MethodPost, "/user/token", "", gin.H{
		"email":    email,
		"password": "testpass123",
	})
	require.Equal(e.t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(e.t, resp.Token)
	return resp.Token
}

// decode unmarshals a response body into out, failing the test with the
// raw body on error.
func (e *testEnv) decode(w *httptest.ResponseRecorder, out interface{}) {
	e.t.Helper()
	require.NoError(e.t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

// createRecipe posts a minimal recipe and returns its id.
func (e *testEnv) createRecipe(token, title string, tags ...string) string {
	e.t.Helper()
	body := gin.H{
		"title":        title,
		"time_minutes": 5,
		"price":        5.00,
	}
	if len(tags) > 0 {
		var list []gin.H
		for _, name := range tags {
			list = append(list, gin.H{"name": name})
		}
		body["tags"] = list
	}
	w := e.do(http.MethodPost, "/recipes", token, body)
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	e.decode(w, &resp)
	require.NotEmpty(e.t, resp.ID)
	return resp.ID
}

// fieldError extracts the message for a single field from a validation
// error payload of the shape {"errors": {field: message}}.
func fieldError(t *testing.T, w *httptest.ResponseRecorder, field string) string {
	t.Helper()
	var resp struct {
		Errors map[string]string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	msg, ok := resp.Errors[field]
	require.True(t, ok, fmt.Sprintf("no error for field %q in %s", field, w.Body.String()))
	return msg
}
