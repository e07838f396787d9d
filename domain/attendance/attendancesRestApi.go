package attendance

import (
	"net/http"

	"fieldflow/bizerror"
	"fieldflow/misc"
	"fieldflow/session"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterAttendancesRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/", middleWares...)
	g.POST("clock-in", handleClockIn)
	g.POST("clock-out", handleClockOut)
	g.GET("get-attendance-by-worker", handleQueryAttendance)
}

func handleClockIn(c *gin.Context) {
	request := ClockRequest{}
	if err := c.ShouldBindBodyWith(&request, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := ClockInFunc(&request, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(record))
}

func handleClockOut(c *gin.Context) {
	request := ClockRequest{}
	if err := c.ShouldBindBodyWith(&request, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := ClockOutFunc(&request, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(record))
}

func handleQueryAttendance(c *gin.Context) {
	records, err := QueryAttendanceFunc(c.Query("workerName"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(records))
}
