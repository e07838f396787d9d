package account

import (
	"net/http"
	"time"

	"fieldflow/bizerror"
	"fieldflow/misc"
	"fieldflow/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

var (
	PathLogin    = "/login-user"
	PathRegister = "/register"

	loginLimiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 10)
)

func RegisterAccountsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/", middleWares...)
	g.POST(PathLogin, handleLogin)
	g.POST(PathRegister, handleRegister)
}

func handleLogin(c *gin.Context) {
	if !loginLimiter.Allow() {
		panic(bizerror.ErrTooManyRequests)
	}

	login := LoginRequest{}
	if err := c.ShouldBindBodyWith(&login, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	user, err := AuthenticateUserFunc(login.Email, login.Password, c.Request.Context())
	if err != nil {
		panic(err)
	}

	token := uuid.New().String()
	s := session.Session{Token: token, Role: user.Role, SigningTime: time.Now(),
		Identity: session.Identity{ID: user.ID, Name: user.Email, Nickname: user.DisplayName()}}
	session.TokenCache.Set(token, &s, cache.DefaultExpiration)

	c.SetCookie(session.KeySecToken, token, int(session.TokenExpiration/time.Second), "/", "", false, false)
	c.JSON(http.StatusOK, &LoginResponse{Status: misc.StatusOK, Token: token, Role: user.Role,
		FirstName: user.FirstName, LastName: user.LastName})
}

func handleRegister(c *gin.Context) {
	form := RegisterForm{}
	if err := c.ShouldBindBodyWith(&form, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	info, err := RegisterUserFunc(&form, c.Request.Context())
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(info))
}
