package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/ElPoteRD/CuentaClaras-sub000/shared/middleware"
	"github.com/gin-gonic/gin"
)

func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		middleware.SetUserID(c, userID)
		c.Next()
	}
}

func newTestEngine(userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuth(userID))
	return r
}

func doRequest(router http.Handler, method, url string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		var b []byte
		if s, ok := body.(string); ok {
			b = []byte(s)
		} else {
			b, _ = json.Marshal(body)
		}
		req, _ = http.NewRequest(method, url, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, _ = http.NewRequest(method, url, nil)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(w *httptest.ResponseRecorder, v any) error {
	return json.Unmarshal(w.Body.Bytes(), v)
}
