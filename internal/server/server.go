package server

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/agenthands/kinship/internal/config"
	"github.com/agenthands/kinship/internal/core"
	"github.com/agenthands/kinship/internal/core/insights"
	"github.com/agenthands/kinship/internal/core/model"
	"github.com/agenthands/kinship/internal/store"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	Network *core.Network
	Reports *core.Recomputer
	Config  config.ServerConfig

	logger *zap.Logger
}

func NewServer(network *core.Network, reports *core.Recomputer, cfg config.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		Network: network,
		Reports: reports,
		Config:  cfg,
		logger:  logger,
	}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(s.logger))

	r.GET("/healthz", s.Health)

	v1 := r.Group("/v1", RateLimit(s.Config.RateLimit, s.Config.RateBurst))
	v1.POST("/analyze", s.Analyze)

	owner := v1.Group("/owners/:owner")
	owner.PUT("/snapshot", s.ImportSnapshot)
	owner.GET("/report", s.Report)
	owner.GET("/metrics", s.Metrics)
	owner.GET("/connection-types", s.ConnectionTypes)
	owner.GET("/strength", s.Strength)
	owner.GET("/hubs", s.Hubs)
	owner.GET("/clusters", s.Clusters)
	owner.GET("/isolated", s.Isolated)
	owner.GET("/bridges", s.Bridges)
	owner.GET("/introductions", s.Introductions)
	owner.GET("/weak-connections", s.WeakConnections)
	owner.GET("/risks", s.Risks)
	owner.GET("/reach", s.Reach)
	owner.GET("/geo", s.Geography)
	owner.GET("/summary", s.Summary)
	owner.GET("/narrative", s.Narrative)

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail maps domain errors onto status codes and records the cause for the access log.
func (s *Server) fail(c *gin.Context, err error) {
	_ = c.Error(err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (s *Server) badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// report serves the owner's cached report, or writes the error response and
// returns false.
func (s *Server) report(c *gin.Context) (model.Report, bool) {
	report, err := s.Reports.Report(c.Request.Context(), c.Param("owner"))
	if err != nil {
		s.fail(c, err)
		return model.Report{}, false
	}
	return report, true
}

// queryLimit parses ?limit=. Absent means 0, which the analyzers treat as their default.
func queryLimit(c *gin.Context) (int, bool, error) {
	raw, ok := c.GetQuery("limit")
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, true, errors.New("limit must be a positive integer")
	}
	return n, true, nil
}

func (s *Server) Analyze(c *gin.Context) {
	var snap model.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		s.badRequest(c, "invalid snapshot: "+err.Error())
		return
	}

	asOf := time.Now().UTC()
	if raw := c.Query("as_of"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.badRequest(c, "as_of must be an RFC 3339 timestamp")
			return
		}
		asOf = t
	}

	c.JSON(http.StatusOK, s.Network.AnalyzeAt(&snap, asOf))
}

func (s *Server) ImportSnapshot(c *gin.Context) {
	var snap model.Snapshot
	if err := c.ShouldBindJSON(&snap); err != nil {
		s.badRequest(c, "invalid snapshot: "+err.Error())
		return
	}

	owner := c.Param("owner")
	if err := s.Network.Import(c.Request.Context(), owner, &snap); err != nil {
		s.fail(c, err)
		return
	}
	s.Reports.Invalidate(owner)

	c.JSON(http.StatusOK, gin.H{
		"owner_id":     owner,
		"contacts":     len(snap.Contacts),
		"connections":  len(snap.Connections),
		"interactions": len(snap.Interactions),
		"favors":       len(snap.Favors),
	})
}

func (s *Server) Report(c *gin.Context) {
	if report, ok := s.report(c); ok {
		c.JSON(http.StatusOK, report)
	}
}

func (s *Server) Metrics(c *gin.Context) {
	if report, ok := s.report(c); ok {
		c.JSON(http.StatusOK, report.Metrics)
	}
}

func (s *Server) ConnectionTypes(c *gin.Context) {
	if report, ok := s.report(c); ok {
		c.JSON(http.StatusOK, report.ConnectionTypes)
	}
}

func (s *Server) Strength(c *gin.Context) {
	report, ok := s.report(c)
	if !ok {
		return
	}
	dist := make(map[string]int, 5)
	for level := 1; level <= 5; level++ {
		dist[strconv.Itoa(level)] = report.StrengthDistribution[level]
	}
	c.JSON(http.StatusOK, dist)
}

func (s *Server) Hubs(c *gin.Context) {
	limit, custom, err := queryLimit(c)
	if err != nil {
		s.badRequest(c, err.Error())
		return
	}
	if !custom {
		if report, ok := s.report(c); ok {
			c.JSON(http.StatusOK, report.Hubs)
		}
		return
	}

	snap, err := s.Network.Snapshot(c.Request.Context(), c.Param("owner"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, insights.FindHubs(snap.Contacts, snap.Connections, limit))
}

// Clusters lists the owner's clusters; ?named=true asks the LLM to label them.
func (s *Server) Clusters(c *gin.Context) {
	if named, _ := strconv.ParseBool(c.Query("named")); named {
		clusters, err := s.Network.NamedClusters(c.Request.Context(), c.Param("owner"))
		if err != nil {
			s.fail(c, err)
			return
		}
		c.JSON(http.StatusOK, clusters)
		return
	}
	if report, ok := s.report(c); ok {
		c.JSON(http.StatusOK, report.Clusters)
	}
}

func (s *Server) Isolated(c *gin.Context) {
	if report, ok := s.report(c); ok {
		c.JSON(http.StatusOK, report.Isolated)
	}
}

func (s *Server) Bridges(c *gin.Context) {
	if report, ok := s.report(c); ok {
		c.JSON(http.StatusOK, report.Bridges)
	}
}

func (s *Server) Introductions(c *gin.Context) {
	limit, custom, err := queryLimit(c)
	if err != nil {
		s.badRequest(c, err.Error())
		return
	}
	if !custom {
		if report, ok := s.report(c); ok {
			c.JSON(http.StatusOK, report.Introductions)
		}
		return
	}

	snap, err := s.Network.Snapshot(c.Request.Context(), c.Param("owner"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, insights.SuggestIntroductions(snap.Contacts, snap.Connections, limit))
}

func (s *Server) WeakConnections(c *gin.Context) {
	if report, ok := s.report(c); ok {
		c.JSON(http.StatusOK, report.WeakConnections)
	}
}

func (s *Server) Risks(c *gin.Context) {
	if report, ok := s.report(c); ok {
		c.JSON(http.StatusOK, report.RiskAlerts)
	}
}

// Reach reports network reach; ?from=<contact id> measures it outward from one contact.
func (s *Server) Reach(c *gin.Context) {
	from := c.Query("from")
	if from == "" {
		if report, ok := s.report(c); ok {
			c.JSON(http.StatusOK, report.Reach)
		}
		return
	}

	snap, err := s.Network.Snapshot(c.Request.Context(), c.Param("owner"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, insights.NetworkReachFrom(snap.Contacts, snap.Connections, from))
}

func (s *Server) Geography(c *gin.Context) {
	if report, ok := s.report(c); ok {
		c.JSON(http.StatusOK, report.Geography)
	}
}

func (s *Server) Summary(c *gin.Context) {
	if report, ok := s.report(c); ok {
		c.JSON(http.StatusOK, report.Summary)
	}
}

// Narrative always answers 200 once the report exists; when the LLM fails the
// top insight is served with fallback set.
func (s *Server) Narrative(c *gin.Context) {
	report, ok := s.report(c)
	if !ok {
		return
	}

	text, err := s.Network.NarrateReport(c.Request.Context(), report)
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(http.StatusOK, gin.H{
		"narrative": text,
		"fallback":  err != nil,
	})
}
