package funds

import (
	"errors"
	"net/http"

	"fieldflow/bizerror"
	"fieldflow/misc"
	"fieldflow/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterFundsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/", middleWares...)
	g.POST("allocate-amount", handleAllocateAmount)
	g.GET("get-fund-by-project", handleGetFundByProject)
}

func handleAllocateAmount(c *gin.Context) {
	allocation := FundAllocation{}
	if err := c.ShouldBindBodyWith(&allocation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := AllocateAmountFunc(&allocation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(record))
}

func handleGetFundByProject(c *gin.Context) {
	projectIdentifier := c.Query("project_Id")
	if projectIdentifier == "" {
		panic(&bizerror.ErrBadParam{Cause: errors.New("project_Id is required")})
	}
	record, err := GetFundByProjectFunc(projectIdentifier, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(record))
}
