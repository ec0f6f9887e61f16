package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	dm "stockreport/data/models"
	sm "stockreport/service/models"
	"stockreport/service/render"
)

const (
	DefaultAddr     = "127.0.0.1:8501"
	RequestIdHeader = "X-Request-ID"
)

var errInvalidInput = errors.New("invalid input")

func GetHttpServer(sc *ServiceContext) *http.Server {
	addr := DefaultAddr
	if sc.Config != nil {
		addr = sc.Config.Addr()
	}

	return &http.Server{
		Addr:           addr,
		Handler:        GetRouter(sc),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
}

// GetRouter registers every route on a new engine
func GetRouter(sc *ServiceContext) *gin.Engine {
	engine := gin.Default()

	origins := []string{"http://localhost:3000"}
	if sc.Config != nil && len(sc.Config.Server.AllowOrigins) > 0 {
		origins = sc.Config.Server.AllowOrigins
	}

	engine.Use(requestId())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIdHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIdHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	engine.GET("/", func(c *gin.Context) { dashboardPage(c, sc) })

	api := engine.Group("/api")
	api.GET("/ping", func(c *gin.Context) { ping(c, sc) })
	api.GET("/resources", func(c *gin.Context) { resources(c, sc) })
	api.GET("/symbols", func(c *gin.Context) { symbols(c, sc) })
	api.GET("/periods", func(c *gin.Context) { periods(c, sc) })
	api.GET("/summary", func(c *gin.Context) { summary(c, sc) })
	api.GET("/averages", func(c *gin.Context) { averages(c, sc) })
	api.GET("/returns", func(c *gin.Context) { returns(c, sc) })
	api.GET("/rankings", func(c *gin.Context) { rankings(c, sc) })
	api.GET("/sectors", func(c *gin.Context) { sectors(c, sc) })
	api.GET("/correlation", func(c *gin.Context) { correlation(c, sc) })
	api.GET("/cumulative", func(c *gin.Context) { cumulative(c, sc) })
	api.GET("/monthly", func(c *gin.Context) { monthly(c, sc) })
	api.GET("/dashboard", func(c *gin.Context) { dashboard(c, sc) })

	return engine
}

// requestId tags each request, reusing the caller's id when one is sent
func requestId() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIdHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(RequestIdHeader, id)
		c.Header(RequestIdHeader, id)
		c.Next()
	}
}

func ping(c *gin.Context, sc *ServiceContext) {
	if err := sc.Store.Ping(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	msg := "pong"
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&msg))
}

func resources(c *gin.Context, sc *ServiceContext) {
	res, err := sc.GetReportResources(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(res))
}

func symbols(c *gin.Context, sc *ServiceContext) {
	res, err := sc.Store.GetSymbols(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func periods(c *gin.Context, sc *ServiceContext) {
	months, err := sc.Store.GetMonths(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	res := AvailablePeriods(months)
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func summary(c *gin.Context, sc *ServiceContext) {
	q, records, ok := scopedRecords(c, sc)
	if !ok {
		return
	}
	res := GetMarketSummary(q.Period.Label, records, GetSymbolPerformances(records, sc.sectorOf))
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func averages(c *gin.Context, sc *ServiceContext) {
	metric, err := dm.ParseMetric(c.Query("metric"))
	if err != nil {
		writeError(c, fmt.Errorf("%w: %w", errInvalidInput, err))
		return
	}

	_, records, ok := scopedRecords(c, sc)
	if !ok {
		return
	}
	res := sm.MetricAverage{Metric: string(metric), Average: nullable(Average(metric, records))}
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func returns(c *gin.Context, sc *ServiceContext) {
	_, records, ok := scopedRecords(c, sc)
	if !ok {
		return
	}
	res := GetSymbolPerformances(records, sc.sectorOf)
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func rankings(c *gin.Context, sc *ServiceContext) {
	by, err := ParseRankBy(c.Query("by"))
	if err != nil {
		writeError(c, fmt.Errorf("%w: %w", errInvalidInput, err))
		return
	}
	direction, err := ParseDirection(c.Query("direction"))
	if err != nil {
		writeError(c, fmt.Errorf("%w: %w", errInvalidInput, err))
		return
	}
	n, err := queryInt(c, "n", sc.sizes().Rank)
	if err != nil {
		writeError(c, err)
		return
	}

	_, records, ok := scopedRecords(c, sc)
	if !ok {
		return
	}
	res := TopN(RankingEntries(records, by), n, direction)
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func sectors(c *gin.Context, sc *ServiceContext) {
	_, records, ok := scopedRecords(c, sc)
	if !ok {
		return
	}
	res := GetSectorPerformances(GetSymbolPerformances(records, sc.sectorOf))
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func correlation(c *gin.Context, sc *ServiceContext) {
	_, records, ok := scopedRecords(c, sc)
	if !ok {
		return
	}
	res := GetCorrelationMatrix(records)
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func cumulative(c *gin.Context, sc *ServiceContext) {
	n, err := queryInt(c, "n", sc.sizes().Leaders)
	if err != nil {
		writeError(c, err)
		return
	}

	_, records, ok := scopedRecords(c, sc)
	if !ok {
		return
	}
	res := GetCumulativeLeaders(records, n)
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func monthly(c *gin.Context, sc *ServiceContext) {
	n, err := queryInt(c, "n", sc.sizes().Monthly)
	if err != nil {
		writeError(c, err)
		return
	}

	_, records, ok := scopedRecords(c, sc)
	if !ok {
		return
	}
	res := GetMonthlyRankings(records, n)
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func dashboard(c *gin.Context, sc *ServiceContext) {
	q, records, ok := scopedRecords(c, sc)
	if !ok {
		return
	}
	res := BuildDashboard(q, records, sc.sizes(), sc.sectorOf)
	c.JSON(http.StatusOK, sm.GetServiceResponseOk(&res))
}

func dashboardPage(c *gin.Context, sc *ServiceContext) {
	q, records, ok := scopedRecords(c, sc)
	if !ok {
		return
	}

	available, err := sc.Store.GetMonths(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	d := BuildDashboard(q, records, sc.sizes(), sc.sectorOf)
	var buf bytes.Buffer
	if err := render.DashboardPage(&buf, render.DashboardMarkdown(&d), q.Period.Label, c.Query("symbols"), AvailablePeriods(available)); err != nil {
		writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// scopedRecords parses period and symbols and loads the records in scope,
// writing the error response itself when it returns false
func scopedRecords(c *gin.Context, sc *ServiceContext) (DashboardQuery, []*dm.PriceRecord, bool) {
	period := c.Query("period")
	if period == "" && sc.Config != nil {
		period = sc.Config.Report.DefaultPeriod
	}

	q, err := ParseDashboardQuery(period, c.Query("symbols"))
	if err != nil {
		writeError(c, err)
		return q, nil, false
	}

	records, err := sc.LoadRecords(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return q, nil, false
	}
	return q, records, true
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s must be a non negative integer", errInvalidInput, key)
	}
	return n, nil
}

func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dm.ErrInvalidPeriod), errors.Is(err, errInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled):
		status = http.StatusRequestTimeout
	default:
		log.Printf("request %s failed: %v", c.GetString(RequestIdHeader), err)
	}
	c.AbortWithStatusJSON(status, sm.GetServiceResponseError(err.Error()))
}
