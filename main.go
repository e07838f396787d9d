package main

import (
	"context"
	"log"
	"net/http"

	"fieldflow/account"
	"fieldflow/bizerror"
	"fieldflow/client/es"
	"fieldflow/client/s3"
	"fieldflow/common"
	"fieldflow/domain/attendance"
	"fieldflow/domain/complaint"
	"fieldflow/domain/funds"
	"fieldflow/domain/payment"
	"fieldflow/domain/project"
	"fieldflow/event"
	"fieldflow/indices"
	"fieldflow/indices/search"
	"fieldflow/infra/metrics"
	"fieldflow/infra/tracing"
	"fieldflow/persistence"
	"fieldflow/servehttp"
	"fieldflow/session"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("service start")

	tracingCloser := tracing.Bootstrap()
	if tracingCloser != nil {
		defer tracingCloser.Close()
	}

	dbConfig, err := persistence.ParseDatabaseConfigFromEnv()
	if err != nil {
		log.Fatalf("parse database config failed %v\n", err)
	}

	// create database (no conflict)
	if dbConfig.DriverType == "mysql" {
		if err := persistence.PrepareMysqlDatabase(dbConfig.DriverArgs); err != nil {
			log.Fatalf("failed to prepare database %v\n", err)
		}
	}

	// connect database
	ds := &persistence.DataSourceManager{DatabaseConfig: dbConfig}
	if err := ds.Start(); err != nil {
		log.Fatalf("database connection failed %v\n", err)
	}
	defer ds.Stop()
	persistence.ActiveDataSourceManager = ds

	// database migration (race condition)
	err = ds.GormDB(context.Background()).AutoMigrate(
		&account.User{}, &project.Project{}, &funds.Fund{},
		&attendance.AttendanceRecord{}, &complaint.Complaint{}, &event.EventRecord{}).Error
	if err != nil {
		log.Fatalf("database migration failed %v\n", err)
	}

	s3.Bootstrap()
	es.ActiveESClient = es.CreateClientFromEnv()
	event.EventHandlers = append(event.EventHandlers, indices.IndexProjectEventHandle)

	engine := gin.New()
	engine.Use(gin.Recovery(), bizerror.ErrorHandling(), tracing.TracingIngress(), metrics.RequestMetrics())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, common.GetServiceName())
	})
	metrics.RegisterMetricsEndpoint(engine)

	account.RegisterAccountsRestAPI(engine)

	secured := session.SimpleAuthFilter()
	project.RegisterProjectsRestAPI(engine, secured)
	payment.RegisterPaymentsRestAPI(engine, secured)
	funds.RegisterFundsRestAPI(engine, secured)
	attendance.RegisterAttendancesRestAPI(engine, secured)
	complaint.RegisterComplaintsRestAPI(engine, secured)
	indices.RegisterIndicesRestAPI(engine, secured)
	search.RegisterProjectSearchRestAPI(engine, secured)

	servehttp.StartHTTPServer(engine)
}
