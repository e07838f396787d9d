package testinfra

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"fieldflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// ExecuteRequest run request against the router and return status code, response body and headers
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, http.Header) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	bodyBytes, _ := ioutil.ReadAll(w.Body)
	return w.Code, string(bodyBytes), w.Header()
}

// BuildSession build a signed-in session for the given account name and role
func BuildSession(uid types.ID, name, role string) *session.Session {
	return &session.Session{
		Token:    "test-token-" + name,
		Identity: session.Identity{ID: uid, Name: name, Nickname: name},
		Role:     role,
	}
}
