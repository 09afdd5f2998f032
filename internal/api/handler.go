package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/njordr/coastwatch/internal/alerts"
	"github.com/njordr/coastwatch/internal/broadcast"
	"github.com/njordr/coastwatch/internal/dashboard"
	"github.com/njordr/coastwatch/internal/intake"
	"github.com/njordr/coastwatch/internal/models"
	"github.com/njordr/coastwatch/internal/repository"
	"github.com/njordr/coastwatch/internal/roles"
	"github.com/njordr/coastwatch/internal/scoring"
)

type Handler struct {
	reports  repository.ReportRepository
	profiles repository.ProfileRepository
	intake   *intake.Service
	alerts   *alerts.Service
	resolver *roles.Resolver
	feed     *dashboard.Feed
	hub      *broadcast.Broadcaster
}

func NewHandler(
	reports repository.ReportRepository,
	profiles repository.ProfileRepository,
	intakeSvc *intake.Service,
	alertsSvc *alerts.Service,
	resolver *roles.Resolver,
	feed *dashboard.Feed,
	hub *broadcast.Broadcaster,
) *Handler {
	return &Handler{
		reports:  reports,
		profiles: profiles,
		intake:   intakeSvc,
		alerts:   alertsSvc,
		resolver: resolver,
		feed:     feed,
		hub:      hub,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.POST("/internal/provision", h.provision)

	api := r.Group("/api")
	api.POST("/score", h.score)

	authed := api.Group("", RequireUser())
	authed.POST("/reports", h.createReport)
	authed.GET("/reports", h.listReports)
	authed.GET("/reports/:id", h.getReport)
	authed.GET("/alerts", h.listAlerts)
	authed.GET("/me/role", h.myRole)

	authority := api.Group("", RequireRole(h.resolver, models.RoleAuthority))
	authority.GET("/dashboard", h.dashboardSnapshot)
	authority.GET("/dashboard/geojson", h.dashboardGeoJSON)
	authority.GET("/stream", h.stream)
	authority.PATCH("/reports/:id/status", h.updateStatus)
	authority.PATCH("/reports/:id/urgency", h.updateUrgency)
	authority.POST("/alerts", h.createAlert)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type scoreRequest struct {
	HasImage           bool `json:"has_image"`
	HasLocation        bool `json:"has_location"`
	DescriptionLength  int  `json:"description_length"`
	NearbyReportsCount int  `json:"nearby_reports_count"`
}

func (h *Handler) score(c *gin.Context) {
	var req scoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	s := scoring.Score(req.HasImage, req.HasLocation, req.DescriptionLength, req.NearbyReportsCount)
	c.JSON(http.StatusOK, gin.H{
		"score": s,
		"band":  scoring.BandOf(s),
	})
}

func (h *Handler) createReport(c *gin.Context) {
	userID, _ := currentUser(c)

	sub := intake.Submission{
		UserID:        userID,
		HazardType:    c.PostForm("hazard_type"),
		Description:   c.PostForm("description"),
		Location:      c.PostForm("location"),
		ContactNumber: c.PostForm("contact_number"),
		Urgency:       c.PostForm("urgency"),
	}

	if v := c.PostForm("latitude"); v != "" {
		lat, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid latitude"})
			return
		}
		sub.Latitude = &lat
	}
	if v := c.PostForm("longitude"); v != "" {
		lng, err := strconv.ParseFloat(v, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid longitude"})
			return
		}
		sub.Longitude = &lng
	}

	file, err := c.FormFile("image")
	switch {
	case err == nil:
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable image upload"})
			return
		}
		defer src.Close()
		sub.Image = &intake.ImageUpload{
			Filename:    file.Filename,
			ContentType: file.Header.Get("Content-Type"),
			Size:        file.Size,
			Reader:      src,
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		// No image attached; the report is scored without one.
	default:
		// A present-but-broken part must not silently score as imageless.
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed image upload"})
		return
	}

	report, err := h.intake.Submit(c.Request.Context(), sub)
	if err != nil {
		var verr *intake.ValidationError
		var uerr *intake.UploadError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
		case errors.As(err, &uerr):
			c.JSON(http.StatusBadGateway, gin.H{"error": uerr.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit report"})
		}
		return
	}

	c.JSON(http.StatusCreated, report)
}

func (h *Handler) listReports(c *gin.Context) {
	userID, _ := currentUser(c)

	filter := repository.ReportFilter{}
	if u := c.Query("urgency"); u != "" && u != "all" {
		if urgency, ok := models.ParseUrgency(u); ok {
			filter.Urgency = &urgency
		}
	}
	if s := c.Query("status"); s != "" && s != "all" {
		if status, ok := models.ParseReportStatus(s); ok {
			filter.Status = &status
		}
	}
	if b := c.Query("credibility"); b != "" && b != "all" {
		if band, ok := scoring.ParseBand(b); ok {
			filter.Band = &band
		}
	}
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			filter.Limit = lim
		}
	}

	// Citizens see their own reports; authority and above see everything.
	if !h.resolver.HasRole(c.Request.Context(), userID, models.RoleAuthority) {
		filter.UserID = &userID
	}

	reports, err := h.reports.ListReports(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch reports"})
		return
	}
	if reports == nil {
		reports = []models.HazardReport{}
	}
	c.JSON(http.StatusOK, gin.H{"reports": reports})
}

func (h *Handler) getReport(c *gin.Context) {
	userID, _ := currentUser(c)

	report, err := h.reports.GetReport(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch report"})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if report.UserID != userID && !h.resolver.HasRole(c.Request.Context(), userID, models.RoleAuthority) {
		c.JSON(http.StatusForbidden, gin.H{"error": "not your report"})
		return
	}
	c.JSON(http.StatusOK, report)
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	status, ok := models.ParseReportStatus(req.Status)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	report, err := h.intake.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update status"})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.JSON(http.StatusOK, report)
}

type urgencyRequest struct {
	Urgency string `json:"urgency" binding:"required"`
}

func (h *Handler) updateUrgency(c *gin.Context) {
	var req urgencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "urgency is required"})
		return
	}
	urgency, ok := models.ParseUrgency(req.Urgency)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown urgency"})
		return
	}

	report, err := h.intake.SetUrgency(c.Request.Context(), c.Param("id"), urgency)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update urgency"})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.JSON(http.StatusOK, report)
}

type alertRequest struct {
	Message  string `json:"message" binding:"required"`
	Audience string `json:"audience"`
	ReportID string `json:"report_id"`
}

func (h *Handler) createAlert(c *gin.Context) {
	userID, _ := currentUser(c)

	var req alertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
		return
	}

	alert, err := h.alerts.Create(c.Request.Context(), userID, req.Message, req.Audience, req.ReportID)
	switch {
	case errors.Is(err, alerts.ErrEmptyMessage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, alerts.ErrUnknownReport):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create alert"})
		return
	}

	c.JSON(http.StatusCreated, alert)
}

func (h *Handler) listAlerts(c *gin.Context) {
	limit := 0
	if l := c.Query("limit"); l != "" {
		if lim, err := strconv.Atoi(l); err == nil && lim > 0 && lim <= 500 {
			limit = lim
		}
	}

	active, err := h.alerts.ListActive(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}
	if active == nil {
		active = []models.Alert{}
	}
	c.JSON(http.StatusOK, gin.H{"alerts": active})
}

func (h *Handler) myRole(c *gin.Context) {
	userID, _ := currentUser(c)
	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"role":    h.resolver.Resolve(c.Request.Context(), userID),
	})
}

func (h *Handler) dashboardSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"reports": h.feed.Snapshot(feedFilter(c))})
}

type provisionRequest struct {
	UserID   string `json:"user_id" binding:"required"`
	Email    string `json:"email" binding:"required"`
	FullName string `json:"full_name"`
}

// provision mirrors the account-creation trigger: called once per new
// account by the upstream identity flow, safe to repeat.
func (h *Handler) provision(c *gin.Context) {
	var req provisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and email are required"})
		return
	}

	err := h.profiles.EnsureUser(c.Request.Context(), &models.Profile{
		ID:       req.UserID,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to provision user"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": req.UserID, "role": models.RoleCitizen})
}

// feedFilter reads the dashboard's two filter params; anything invalid or
// "all" means no filtering on that axis.
func feedFilter(c *gin.Context) dashboard.Filter {
	var filter dashboard.Filter
	if u := c.Query("urgency"); u != "" && u != "all" {
		if urgency, ok := models.ParseUrgency(u); ok {
			filter.Urgency = &urgency
		}
	}
	if b := c.Query("credibility"); b != "" && b != "all" {
		if band, ok := scoring.ParseBand(b); ok {
			filter.Band = &band
		}
	}
	return filter
}
