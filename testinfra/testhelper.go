package testinfra

import (
	"construxflow/authority"
	"construxflow/session"
	"context"
	"io/ioutil"
	"net/http"
	"net/http/httptest"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// BuildSession build an authenticated session acting as role
func BuildSession(uid types.ID, role string) *session.Session {
	return &session.Session{
		Token:    "token-" + uid.String(),
		Identity: session.Identity{ID: uid, Name: "user" + uid.String(), Role: role},
		Perms:    authority.PermissionsOfRole(role),
		Context:  context.Background(),
	}
}

// ExecuteRequest serve req by router, then return status, body and headers of the response
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, *http.Response) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer func() {
		_ = resp.Body.Close()
	}()
	bodyBytes, _ := ioutil.ReadAll(resp.Body)
	return resp.StatusCode, string(bodyBytes), resp
}
