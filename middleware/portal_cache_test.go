package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestInvalidatePortalAfterSuccessfulWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var got []uint
	r := gin.New()
	g := r.Group("/quotes", InvalidatePortal(func(_ context.Context, id uint) { got = append(got, id) }))
	g.GET("/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.PUT("/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	g.DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	g.POST("", func(c *gin.Context) { c.Status(http.StatusCreated) })

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/quotes/3"},
		{http.MethodPut, "/quotes/7"},
		{http.MethodDelete, "/quotes/8"},
		{http.MethodPost, "/quotes"},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(req.method, req.path, nil))
	}

	assert.Equal(t, []uint{7}, got)
}
