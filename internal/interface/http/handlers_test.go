package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/skinsync/internal/application"
	"github.com/oksasatya/skinsync/internal/domain/entity"
	"github.com/oksasatya/skinsync/internal/infrastructure/memory"
	"github.com/oksasatya/skinsync/pkg/helpers"
	"github.com/oksasatya/skinsync/pkg/validation"
)

type testEnv struct {
	engine   *gin.Engine
	products *application.ProductService
	now      time.Time
}

// asUser stands in for the auth middleware.
func asUser(c *gin.Context) {
	if uid := c.GetHeader("X-Test-User"); uid != "" {
		c.Set("userID", uid)
		c.Set("userName", "name-"+uid)
	}
	c.Next()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	locker := helpers.NewKeyedMutex()
	reportsRepo := memory.NewDailyReportRepository()
	productsRepo := memory.NewProductRepository()

	users := application.NewUserService(memory.NewUserRepository(), helpers.NewJWTManager("s", time.Hour), nil, nil, nil)
	reports := application.NewReportService(reportsRepo, locker, time.UTC, nil)
	reports.Now = clock
	products := application.NewProductService(productsRepo, locker, time.UTC, nil)
	products.Now = clock
	stats := application.NewStatsService(reportsRepo, productsRepo, nil, 0, time.UTC, nil)
	stats.Now = clock

	uh := NewUserHandler(users, nil, "localhost", false, "/")
	rh := NewReportHandler(reports, nil)
	ph := NewProductHandler(products, nil, 1<<20)
	ch := NewCatalogHandler(application.NewCatalogService())
	sh := NewStatsHandler(stats, nil)

	e := gin.New()
	e.Use(asUser)
	e.POST("/register", uh.Register)
	e.POST("/login", uh.Login)
	e.GET("/userPage", uh.Home)
	e.POST("/dailyReport", rh.Submit)
	e.GET("/dailyReport", rh.List)
	e.GET("/categories", ch.Categories)
	e.GET("/routines", ch.Routines)
	e.POST("/productShelf", ph.Create)
	e.GET("/productShelf", ph.List)
	e.GET("/productShelf/morning", ph.ListRoutine(entity.RoutineMorning))
	e.GET("/productShelf/search", ph.Search)
	e.PUT("/productShelf/:productId", ph.Update)
	e.DELETE("/productShelf/:productId", ph.Delete)
	e.PATCH("/productShelf/:productId/archive", ph.Archive)
	e.POST("/productShelf/:productId/image", ph.UploadImage)
	e.POST("/productShelf/logUsage", ph.LogUsage)
	e.POST("/productShelf/toggleAllUsage", ph.ToggleAll)
	e.POST("/productShelf/usageReset", ph.UsageReset)
	e.GET("/statistics", sh.Get)
	return &testEnv{engine: e, products: products, now: now}
}

func (env *testEnv) do(t *testing.T, method, path, user string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("X-Test-User", user)
	}
	w := httptest.NewRecorder()
	env.engine.ServeHTTP(w, req)
	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (env *testEnv) addProduct(t *testing.T, user, name string) string {
	t.Helper()
	w, body := env.do(t, http.MethodPost, "/productShelf", user, map[string]any{
		"name": name, "category": "Serum", "routine": "morning",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return body["response"].(map[string]any)["id"].(string)
}

func fullReport(stress int) map[string]any {
	return map[string]any{
		"exercised": 1, "period": false, "stress": stress, "acne": 0, "sugar": 2,
		"alcohol": 0, "dairy": 1, "greasyFood": 0, "waterAmount": 1.5, "sleepHours": 7,
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/register", "", map[string]string{"username": "ann", "password": "123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["message"], "at least 6 characters")

	w, body = env.do(t, http.MethodPost, "/register", "", map[string]string{"username": "ann", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code)
	resp := body["response"].(map[string]any)
	assert.Equal(t, "ann", resp["username"])
	assert.NotEmpty(t, resp["id"])
	assert.NotEmpty(t, resp["accessToken"])
	assert.Equal(t, "User created successfully", body["message"])

	w, body = env.do(t, http.MethodPost, "/register", "", map[string]string{"username": "ann", "password": "secret2"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", body["message"])

	w, body = env.do(t, http.MethodPost, "/login", "", map[string]string{"username": "ann", "password": "nope!!"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Credentials do not match", body["message"])

	w, _ = env.do(t, http.MethodPost, "/login", "", map[string]string{"username": "ann", "password": "secret1"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("Set-Cookie"))
}

func TestHome(t *testing.T) {
	env := newTestEnv(t)
	w, body := env.do(t, http.MethodGet, "/userPage", "u1", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]any{
		"username":         "name-u1",
		"dailyReportLink":  "/dailyReport",
		"productShelfLink": "/productShelf",
	}, body["response"])
}

func TestDailyReport_UpsertByDay(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/dailyReport", "u1", fullReport(3))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := body["response"].(map[string]any)
	assert.Equal(t, true, body["meta"].(map[string]any)["created"])

	w, body = env.do(t, http.MethodPost, "/dailyReport", "u1", fullReport(1))
	require.Equal(t, http.StatusOK, w.Code)
	second := body["response"].(map[string]any)
	assert.Equal(t, first["id"], second["id"])
	assert.Equal(t, float64(1), second["stress"])

	w, body = env.do(t, http.MethodGet, "/dailyReport", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["response"], 1)
	assert.Equal(t, "Retrieved daily reports successfully", body["message"])
}

func TestDailyReport_EmptyListIsArray(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodGet, "/dailyReport", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, body, "response")
	assert.Equal(t, []any{}, body["response"])
}

func TestDailyReport_MissingOrInvalidMetric(t *testing.T) {
	env := newTestEnv(t)

	missing := fullReport(1)
	delete(missing, "sleepHours")
	w, body := env.do(t, http.MethodPost, "/dailyReport", "u1", missing)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "is required", body["error"].(map[string]any)["sleepHours"])

	zero := fullReport(0)
	zero["period"] = false
	w, _ = env.do(t, http.MethodPost, "/dailyReport", "u1", zero)
	assert.Equal(t, http.StatusOK, w.Code)

	bad := fullReport(-1)
	w, _ = env.do(t, http.MethodPost, "/dailyReport", "u1", bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	tooLong := fullReport(1)
	tooLong["sleepHours"] = 30
	w, _ = env.do(t, http.MethodPost, "/dailyReport", "u1", tooLong)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCatalog(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodGet, "/categories", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["categories"], 12)
	assert.NotContains(t, body, "response")

	_, body = env.do(t, http.MethodGet, "/routines", "u1", nil)
	assert.Equal(t, []any{"morning", "night"}, body["routines"])
}

func TestProduct_CreateValidation(t *testing.T) {
	env := newTestEnv(t)

	w, body := env.do(t, http.MethodPost, "/productShelf", "u1", map[string]any{"name": "X", "category": "toner", "routine": "morning"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["error"].(map[string]any)["category"], "must be one of")

	id := env.addProduct(t, "u1", "Vitamin C")
	w, body = env.do(t, http.MethodGet, "/productShelf/morning", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := body["response"].([]any)
	require.Len(t, list, 1)
	p := list[0].(map[string]any)
	assert.Equal(t, id, p["id"])
	assert.Equal(t, "serum", p["category"])
	assert.Equal(t, []any{}, p["usageHistory"])
}

func TestProduct_LogUsageAndReset(t *testing.T) {
	env := newTestEnv(t)
	id := env.addProduct(t, "u1", "Cleanser")

	w, body := env.do(t, http.MethodPost, "/productShelf/logUsage", "u1", map[string]any{"productId": id, "usedToday": true})
	require.Equal(t, http.StatusOK, w.Code)
	p := body["response"].(map[string]any)
	assert.Equal(t, true, p["usedToday"])
	assert.Len(t, p["usageHistory"], 1)

	w, body = env.do(t, http.MethodPost, "/productShelf/usageReset", "u1", map[string]any{"productId": id})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Usage reset completed", body["message"])

	w, body = env.do(t, http.MethodPost, "/productShelf/logUsage", "u1", map[string]any{"productId": "missing", "usedToday": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Product not found", body["message"])

	w, _ = env.do(t, http.MethodPost, "/productShelf/logUsage", "u2", map[string]any{"productId": id, "usedToday": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = env.do(t, http.MethodPost, "/productShelf/logUsage", "u1", map[string]any{"productId": id})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProduct_ToggleAll(t *testing.T) {
	env := newTestEnv(t)
	a := env.addProduct(t, "u1", "A")
	b := env.addProduct(t, "u1", "B")

	w, body := env.do(t, http.MethodPost, "/productShelf/toggleAllUsage", "u1", map[string]any{
		"productIds": []string{a, "missing", b}, "usedToday": true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	outcomes := body["response"].([]any)
	require.Len(t, outcomes, 3)
	assert.Equal(t, true, outcomes[0].(map[string]any)["success"])
	assert.Equal(t, false, outcomes[1].(map[string]any)["success"])
	assert.Equal(t, "Product not found", outcomes[1].(map[string]any)["message"])
	assert.Equal(t, float64(1), body["meta"].(map[string]any)["failed"])

	w, body = env.do(t, http.MethodPost, "/productShelf/toggleAllUsage", "u1", map[string]any{"productId": a, "usedToday": false})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["response"].(map[string]any)["usedToday"])

	w, _ = env.do(t, http.MethodPost, "/productShelf/toggleAllUsage", "u1", map[string]any{"usedToday": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProduct_UpdateArchiveDelete(t *testing.T) {
	env := newTestEnv(t)
	id := env.addProduct(t, "u1", "Oil")

	w, body := env.do(t, http.MethodPut, "/productShelf/"+id, "u1", map[string]any{"routine": "night", "brand": "Acme"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p := body["response"].(map[string]any)
	assert.Equal(t, "night", p["routine"])
	assert.Equal(t, "Oil", p["name"])

	w, _ = env.do(t, http.MethodPut, "/productShelf/"+id, "u1", map[string]any{"category": "toner"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = env.do(t, http.MethodPatch, "/productShelf/"+id+"/archive", "u1", map[string]any{"archived": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotNil(t, body["response"].(map[string]any)["archivedAt"])

	_, body = env.do(t, http.MethodGet, "/productShelf", "u1", nil)
	require.Contains(t, body, "response")
	assert.Equal(t, []any{}, body["response"])
	_, body = env.do(t, http.MethodGet, "/productShelf?archived=true", "u1", nil)
	assert.Len(t, body["response"], 1)
	w, _ = env.do(t, http.MethodGet, "/productShelf?routine=noon", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = env.do(t, http.MethodDelete, "/productShelf/"+id, "u2", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, body = env.do(t, http.MethodDelete, "/productShelf/"+id, "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Product deleted successfully", body["message"])
	w, _ = env.do(t, http.MethodDelete, "/productShelf/"+id, "u1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProduct_Search(t *testing.T) {
	env := newTestEnv(t)
	env.addProduct(t, "u1", "Vitamin C")
	env.addProduct(t, "u1", "Night Cream")

	w, body := env.do(t, http.MethodGet, "/productShelf/search?q=vita", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["response"], 1)

	w, body = env.do(t, http.MethodGet, "/productShelf/search?q=zinc", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, body["response"])
	assert.Equal(t, float64(0), body["meta"].(map[string]any)["count"])

	w, _ = env.do(t, http.MethodGet, "/productShelf/search", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

type memImages struct{ path string }

func (m *memImages) Upload(_ context.Context, objectPath, _ string, _ io.Reader) (string, error) {
	m.path = objectPath
	return "https://img.test/" + objectPath, nil
}

func TestProduct_UploadImage(t *testing.T) {
	env := newTestEnv(t)
	id := env.addProduct(t, "u1", "Mist")

	send := func() *httptest.ResponseRecorder {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreatePart(textproto.MIMEHeader{
			"Content-Disposition": {`form-data; name="image"; filename="mist.png"`},
			"Content-Type":        {"image/png"},
		})
		require.NoError(t, err)
		_, _ = part.Write([]byte("png"))
		require.NoError(t, mw.Close())
		req := httptest.NewRequest(http.MethodPost, "/productShelf/"+id+"/image", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		req.Header.Set("X-Test-User", "u1")
		w := httptest.NewRecorder()
		env.engine.ServeHTTP(w, req)
		return w
	}

	w := send()
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	images := &memImages{}
	env.products.Images = images
	w = send()
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "https://img.test/"+images.path, body["response"].(map[string]any)["imageUrl"])

	w, _ = env.do(t, http.MethodPost, "/productShelf/"+id+"/image", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatistics(t *testing.T) {
	env := newTestEnv(t)
	_, _ = env.do(t, http.MethodPost, "/dailyReport", "u1", fullReport(4))

	w, body := env.do(t, http.MethodGet, "/statistics?days=7", "u1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	st := body["response"].(map[string]any)
	assert.Equal(t, float64(1), st["reportCount"])
	assert.Equal(t, float64(4), st["averages"].(map[string]any)["stress"])

	w, _ = env.do(t, http.MethodGet, "/statistics?days=abc", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w, _ = env.do(t, http.MethodGet, "/statistics?days=1000", "u1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
