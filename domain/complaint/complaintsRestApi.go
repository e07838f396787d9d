package complaint

import (
	"net/http"

	"fieldflow/bizerror"
	"fieldflow/client/s3"
	"fieldflow/misc"
	"fieldflow/session"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func RegisterComplaintsRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/", middleWares...)
	g.POST("create-complaint", handleCreateComplaint)
	g.GET("get-complaints-by-worker/:workerName", handleQueryComplaintsByWorker)
	g.POST("complaint-attachments/:complaintId", handleUploadAttachment)
	g.GET("complaint-attachments/:complaintId/:name", handleDownloadAttachment)
}

func handleCreateComplaint(c *gin.Context) {
	creation := ComplaintCreation{}
	if err := c.ShouldBindBodyWith(&creation, binding.JSON); err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	record, err := CreateComplaintFunc(&creation, session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(record))
}

func handleQueryComplaintsByWorker(c *gin.Context) {
	records, err := QueryComplaintsByWorkerFunc(c.Param("workerName"), session.ExtractSessionFromGinContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(records))
}

func handleUploadAttachment(c *gin.Context) {
	s := session.ExtractSessionFromGinContext(c)
	if !s.IsWorker() {
		panic(bizerror.ErrForbidden)
	}

	file, err := c.FormFile("file")
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	reader, err := file.Open()
	if err != nil {
		panic(&bizerror.ErrBadParam{Cause: err})
	}
	defer reader.Close()

	key := attachmentKey(c.Param("complaintId"), file.Filename)
	if err := s3.PutObjectFunc(key, reader, s); err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, misc.Ok(gin.H{"key": key}))
}

func handleDownloadAttachment(c *gin.Context) {
	s := session.ExtractSessionFromGinContext(c)
	key := attachmentKey(c.Param("complaintId"), c.Param("name"))

	r, err := s3.GetObjectFunc(key, s)
	if err != nil {
		if serErr, ok := err.(oss.ServiceError); ok && serErr.Code == "NoSuchKey" {
			panic(bizerror.ErrNotFound)
		}
		panic(err)
	}
	defer r.Close()
	c.DataFromReader(http.StatusOK, -1, "application/octet-stream", r, nil)
}

func attachmentKey(complaintIdentifier, name string) string {
	return "complaints/" + complaintIdentifier + "/" + name
}
