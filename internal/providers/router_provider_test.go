package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func replyWith(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	})
}

func serve(h http.Handler, method string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, "/sessions", nil))
	return rr
}

func TestRouterProvider_OneRoutePerUrlInOrder(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/stats", replyWith("stats"))
	rp.Get("/sessions", replyWith("list"))
	rp.Post("/sessions", replyWith("create"))
	rp.Delete("/sessions", replyWith("delete"))
	rp.Post("/pin", replyWith("pin"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 3)
	assert.Equal(t, "/stats", routes[0].Url)
	assert.Equal(t, "/sessions", routes[1].Url)
	assert.Equal(t, "/pin", routes[2].Url)
}

func TestRouterProvider_DispatchesOnMethod(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/sessions", replyWith("list"))
	rp.Post("/sessions", replyWith("create"))
	rp.Delete("/sessions", replyWith("delete"))
	h := rp.GetRoutes()[0].Handler

	assert.Equal(t, "list", serve(h, http.MethodGet).Body.String())
	assert.Equal(t, "create", serve(h, http.MethodPost).Body.String())
	assert.Equal(t, "delete", serve(h, http.MethodDelete).Body.String())
}

func TestRouterProvider_MethodNotAllowed(t *testing.T) {
	rp := NewRouterProvider()
	rp.Delete("/sessions", replyWith("delete"))
	rp.Get("/sessions", replyWith("list"))
	h := rp.GetRoutes()[0].Handler

	rr := serve(h, http.MethodPut)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, "DELETE, GET", rr.Header().Get("Allow"))

	rr = serve(h, http.MethodPost)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestRouterProvider_LaterRegistrationReplaces(t *testing.T) {
	rp := NewRouterProvider()
	rp.Post("/pin", replyWith("old"))
	rp.Post("/pin", replyWith("new"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	rr := httptest.NewRecorder()
	routes[0].Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/pin", nil))
	assert.Equal(t, "new", rr.Body.String())
	assert.Equal(t, http.StatusOK, rr.Code)
}
