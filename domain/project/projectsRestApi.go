package project

import (
	"errors"
	"net/http"

	"fieldflow/bizerror"
	"fieldflow/misc"
	"fieldflow/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterProjectsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/", middleWares...)
	g.POST("create-project", handleCreateProject)
	g.GET("get-projects-by-contractor", handleQueryByContractor)
	g.GET("get-projects-by-admin", handleQueryByAdmin)
	g.GET("get-projects-by-worker", handleQueryByWorker)
	g.GET("get-all-projects", handleQueryAll)
	g.GET("get-completed-projects", handleQueryCompleted)
	g.PUT("update-project-active/:id", handleUpdateProjectActive)
}

func handleCreateProject(c *gin.Context) {
	creation := ProjectCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateProjectFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(record))
}

func handleQueryByContractor(c *gin.Context) {
	handleQuery(c, ProjectQuery{
		ContractorName: c.Query("contractor_name"),
		Status:         c.Query("status"),
	})
}

func handleQueryByAdmin(c *gin.Context) {
	handleQuery(c, ProjectQuery{
		CreatedBy: c.Query("created_by"),
		Status:    c.Query("status"),
	})
}

func handleQueryByWorker(c *gin.Context) {
	handleQuery(c, ProjectQuery{
		WorkerName: c.Query("worker_name"),
		Status:     c.Query("status"),
	})
}

func handleQueryAll(c *gin.Context) {
	handleQuery(c, ProjectQuery{})
}

func handleQueryCompleted(c *gin.Context) {
	handleQuery(c, ProjectQuery{
		WorkerName: c.Query("workerName"),
		Status:     StatusCompleted,
	})
}

func handleQuery(c *gin.Context, q ProjectQuery) {
	records, err := QueryProjectsFunc(q, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(records))
}

func handleUpdateProjectActive(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	updating := ProjectActiveUpdating{}
	if err := c.ShouldBindBodyWith(&updating, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}

	record, err := UpdateProjectActiveFunc(parsedId, &updating, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(record))
}
