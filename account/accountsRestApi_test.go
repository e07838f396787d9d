package account_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"fieldflow/account"
	"fieldflow/bizerror"
	"fieldflow/session"
	"fieldflow/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestLoginRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	account.RegisterAccountsRestAPI(router)

	t.Run("should return 400 when failed to bind", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, account.PathLogin, bytes.NewReader([]byte(`bbb`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"status":"common.bad_param",
			"error":"invalid character 'b' looking for beginning of value"}`))
	})

	t.Run("should return 401 when credential is invalid", func(t *testing.T) {
		account.AuthenticateUserFunc = func(email, password string, ctx context.Context) (*account.User, error) {
			return nil, bizerror.ErrInvalidPassword
		}
		req := httptest.NewRequest(http.MethodPost, account.PathLogin,
			bytes.NewReader([]byte(`{"email":"ann@example.com","password":"bad pass"}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusUnauthorized))
		Expect(body).To(MatchJSON(`{"status":"account.invalid_credential","error":"invalid name or password"}`))
	})

	t.Run("should sign a session and set cookie when credential is valid", func(t *testing.T) {
		account.AuthenticateUserFunc = func(email, password string, ctx context.Context) (*account.User, error) {
			Expect(email).To(Equal("ann@example.com"))
			Expect(password).To(Equal("some pass"))
			return &account.User{ID: types.ID(10), Email: "ann@example.com",
				FirstName: "Ann", LastName: "Lee", Role: session.RoleWorker}, nil
		}

		req := httptest.NewRequest(http.MethodPost, account.PathLogin,
			bytes.NewReader([]byte(`{"email":"ann@example.com","password":"some pass"}`)))
		status, body, headers := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))

		resp := account.LoginResponse{}
		Expect(json.Unmarshal([]byte(body), &resp)).To(BeNil())
		Expect(resp.Status).To(Equal("OK"))
		Expect(resp.Role).To(Equal(session.RoleWorker))
		Expect(resp.FirstName).To(Equal("Ann"))
		Expect(resp.LastName).To(Equal("Lee"))
		Expect(resp.Token).ToNot(BeEmpty())

		// token must be cached as a session
		cached, found := session.TokenCache.Get(resp.Token)
		Expect(found).To(BeTrue())
		s := cached.(*session.Session)
		Expect(s.Identity.ID).To(Equal(types.ID(10)))
		Expect(s.Identity.Name).To(Equal("ann@example.com"))
		Expect(s.Identity.Nickname).To(Equal("Ann Lee"))
		Expect(s.Role).To(Equal(session.RoleWorker))

		// and delivered as a cookie too
		Expect(headers.Get("Set-Cookie")).To(ContainSubstring(session.KeySecToken + "=" + resp.Token))
	})
}

func TestRegisterRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	account.RegisterAccountsRestAPI(router)

	t.Run("should return 400 when failed to validate", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, account.PathRegister, bytes.NewReader([]byte(`{}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(ContainSubstring(`"status":"common.bad_param"`))
	})

	t.Run("should be able to handle error when register user", func(t *testing.T) {
		account.RegisterUserFunc = func(f *account.RegisterForm, ctx context.Context) (*account.UserInfo, error) {
			return nil, errors.New("a mocked error")
		}
		req := httptest.NewRequest(http.MethodPost, account.PathRegister, bytes.NewReader([]byte(
			`{"firstName":"Ann","lastName":"Lee","email":"ann@example.com","mobile":"9876543210",
			"password":"some pass","role":"worker"}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"status":"common.internal_server_error","error":"a mocked error"}`))
	})

	t.Run("should return created user info on success", func(t *testing.T) {
		account.RegisterUserFunc = func(f *account.RegisterForm, ctx context.Context) (*account.UserInfo, error) {
			Expect(f.Email).To(Equal("ann@example.com"))
			Expect(f.Role).To(Equal(session.RoleWorker))
			return &account.UserInfo{ID: types.ID(10), Email: f.Email,
				FirstName: f.FirstName, LastName: f.LastName, Role: f.Role}, nil
		}
		req := httptest.NewRequest(http.MethodPost, account.PathRegister, bytes.NewReader([]byte(
			`{"firstName":"Ann","lastName":"Lee","email":"ann@example.com","mobile":"9876543210",
			"password":"some pass","role":"worker"}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"status":"OK","data":
			{"id":"10","email":"ann@example.com","firstName":"Ann","lastName":"Lee","role":"worker"}}`))
	})
}
