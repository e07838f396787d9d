package indices_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"fieldflow/bizerror"
	"fieldflow/indices"
	"fieldflow/session"
	"fieldflow/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestIndexRequestsRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	indices.RegisterIndicesRestAPI(router, func(c *gin.Context) {
		session.InjectSessionIntoGinContext(c, testinfra.BuildSession(types.ID(1), "Ada Admin", session.RoleAdmin))
	})
	defer func() {
		indices.ScheduleNewSyncRunFunc = indices.ScheduleNewSyncRun
	}()

	t.Run("should schedule a sync run and rate limit resubmits", func(t *testing.T) {
		scheduled := 0
		indices.ScheduleNewSyncRunFunc = func(s *session.Session) (bool, error) {
			scheduled++
			Expect(s.Identity.Name).To(Equal("Ada Admin"))
			return true, nil
		}

		req := httptest.NewRequest(http.MethodPost, indices.PathIndexRequests, nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(`{"result": true}`))
		Expect(scheduled).To(Equal(1))

		// the reindex endpoint allows one request per ten seconds
		req = httptest.NewRequest(http.MethodPost, indices.PathIndexRequests, nil)
		status, body, _ = testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusTooManyRequests))
		Expect(body).To(MatchJSON(`{"status":"common.rate_limited","error":"request rate limited"}`))
		Expect(scheduled).To(Equal(1))
	})
}
