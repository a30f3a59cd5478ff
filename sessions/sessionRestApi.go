package sessions

import (
	"construxflow/account"
	"construxflow/bizerror"
	"construxflow/session"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterSessionHandler(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/session", middleWares...)
	g.GET("", DetailSessionSecurityContext)
}

// DetailSessionSecurityContext reloads the identity of a live session and slides its expiration
func DetailSessionSecurityContext(c *gin.Context) {
	sec := session.ExtractSessionFromGinContext(c)

	now := time.Now()
	ttl := session.TokenExpiration - now.Sub(sec.SigningTime)
	if ttl <= 0 {
		session.TokenCache.Delete(sec.Token)
		panic(bizerror.ErrUnauthenticated)
	}

	user, err := account.FindUserFunc(sec.Identity.ID, "", c.Request.Context())
	if err == bizerror.ErrNotFound {
		session.TokenCache.Delete(sec.Token)
		panic(bizerror.ErrUnauthenticated)
	}
	if err != nil {
		panic(err)
	}
	if user.Blocked {
		session.TokenCache.Delete(sec.Token)
		panic(bizerror.ErrAccountBlocked)
	}

	securityContext := session.Session{Token: sec.Token, Identity: session.Identity{ID: user.ID, Name: user.Name, Role: user.Role},
		Perms: account.LoadPermFunc(user), SigningTime: now}
	session.TokenCache.Set(sec.Token, &securityContext, session.TokenExpiration)
	c.JSON(http.StatusOK, &securityContext)
}
