package payment

import (
	"net/http"

	"fieldflow/bizerror"
	"fieldflow/misc"
	"fieldflow/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterPaymentsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/", middleWares...)
	g.PUT("update-project-status/:id", handleApprovePayment)
	g.GET("get-eligible-projects", handleQueryEligibleProjects)
}

func handleApprovePayment(c *gin.Context) {
	approval := PaymentApproval{}
	if err := c.ShouldBindBodyWith(&approval, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	result, err := ApprovePaymentFunc(c.Param("id"), &approval, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(result))
}

func handleQueryEligibleProjects(c *gin.Context) {
	records, err := QueryEligibleProjectsFunc(c.Query("contractor_name"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(records))
}
