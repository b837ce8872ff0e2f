package main

import (
	"context"
	"fmt"
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	ginprometheus "github.com/zsais/go-gin-prometheus"
)

// git commit; set at build time
var gitCommit = "unknown"

func main() {
	log.Printf("===> showroom-activities-ws starting up <===")

	cfg := loadConfig()
	svc := initializeService(gitCommit, cfg)

	gin.SetMode(gin.ReleaseMode)
	gin.DisableConsoleColor()

	router := gin.Default()

	router.Use(gzip.Gzip(gzip.DefaultCompression))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowCredentials = true
	corsCfg.AddAllowHeaders("Authorization")
	router.Use(cors.New(corsCfg))

	p := ginprometheus.NewPrometheus("gin")

	// roundabout setup of /metrics endpoint to avoid double-gzip of response
	router.Use(p.HandlerFunc())
	h := promhttp.InstrumentMetricHandler(prometheus.DefaultRegisterer, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{DisableCompression: true}))

	router.GET(p.MetricsPath, func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	})

	pprof.Register(router)

	router.GET("/favicon.ico", svc.ignoreHandler)
	router.GET("/version", svc.versionHandler)
	router.GET("/healthcheck", svc.healthCheckHandler)

	if api := router.Group("/api"); api != nil {
		api.PUT("/activities", svc.pushActivityHandler)
		api.GET("/activities/:id", svc.activityDetailsHandler)
		api.DELETE("/activities/:id", svc.deleteActivityHandler)
		api.PUT("/activities/:id/media", svc.mediaHandler)
		api.PUT("/activities/:id/secondary_details", svc.secondaryOverrideHandler)
		api.POST("/activities/relations", svc.relationsHandler)
		api.POST("/search", svc.searchHandler)
		api.GET("/entities/:id/lists", svc.entityListsHandler)
	}

	// prime the schema membership lists so the first push resolves
	svc.vocab.warm()

	svc.startWorker(context.Background())

	portStr := fmt.Sprintf(":%s", svc.config.Service.Port)
	log.Printf("[MAIN] listening on %s", portStr)

	log.Fatal(router.Run(portStr))
}
