package session

import (
	"construxflow/bizerror"
	"time"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
)

const TokenExpiration = 24 * time.Hour

var TokenCache = cache.New(TokenExpiration, 1*time.Minute)

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

const KeySecCtx = "SecCtx"
const KeySecToken = "sec_token"

func ExtractSessionFromGinContext(ctx *gin.Context) *Session {
	value, found := ctx.Get(KeySecCtx)
	if !found {
		return &Session{Context: ctx.Request.Context()}
	}
	s0, ok := value.(*Session)
	if !ok || s0.Token == "" {
		return &Session{Context: ctx.Request.Context()}
	}
	s := s0.Clone()
	s.Context = ctx.Request.Context() // trace context
	return &s
}

func SimpleAuthFilter() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, err := ctx.Cookie(KeySecToken)
		if err != nil {
			panic(bizerror.ErrUnauthenticated)
		}
		securityContextValue, found := TokenCache.Get(token)
		if !found {
			panic(bizerror.ErrUnauthenticated)
		}
		secCtx, ok := securityContextValue.(*Session)
		if !ok {
			panic(bizerror.ErrUnauthenticated)
		}
		InjectSessionIntoGinContext(ctx, secCtx)
		ctx.Next()
	}
}

// RoleFilter must run after SimpleAuthFilter
func RoleFilter(role string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		s := ExtractSessionFromGinContext(ctx)
		if !s.IsAuthenticated() {
			panic(bizerror.ErrUnauthenticated)
		}
		if !s.HasRole(role) {
			panic(bizerror.ErrForbidden)
		}
		ctx.Next()
	}
}

func InjectSessionIntoGinContext(ctx *gin.Context, secCtx *Session) {
	if secCtx != nil && secCtx.Token != "" {
		ctx.Set(KeySecCtx, secCtx)
	}
}

// InvalidateSessionsOf drops every cached session of the given account
func InvalidateSessionsOf(accountID types.ID) {
	for token, item := range TokenCache.Items() {
		s, ok := item.Object.(*Session)
		if ok && s.Identity.ID == accountID {
			TokenCache.Delete(token)
		}
	}
}

// RenameSessionsOf keeps the cached identity name in step with the account
func RenameSessionsOf(accountID types.ID, name string) {
	for token, item := range TokenCache.Items() {
		s, ok := item.Object.(*Session)
		if !ok || s.Identity.ID != accountID {
			continue
		}
		renamed := s.Clone()
		renamed.Identity.Name = name
		ttl := cache.DefaultExpiration
		if item.Expiration > 0 {
			ttl = time.Until(time.Unix(0, item.Expiration))
		}
		if ttl != cache.DefaultExpiration && ttl <= 0 {
			continue
		}
		TokenCache.Set(token, &renamed, ttl)
	}
}
