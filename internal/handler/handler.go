package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/0knotok/cloud-demo-throttling/internal/config"
	"github.com/0knotok/cloud-demo-throttling/internal/domain"
	"github.com/0knotok/cloud-demo-throttling/internal/service"
)

type Pinger func(ctx context.Context) error

type Handler struct {
	images service.ImageService
	offers service.OfferService
	ping   Pinger
	cfg    *config.AppConfig
	log    *zap.Logger
}

func NewHandler(images service.ImageService, offers service.OfferService, ping Pinger, cfg *config.AppConfig, log *zap.Logger) *Handler {
	return &Handler{
		images: images,
		offers: offers,
		ping:   ping,
		cfg:    cfg,
		log:    log,
	}
}

func (h *Handler) RegisterRoutes(router gin.IRouter, uploadLimit, createLimit gin.HandlerFunc) {
	router.GET("/health", h.HealthCheck)
	router.POST("/upload", uploadLimit, h.UploadImage)
	router.GET("/offers", h.ListOffers)

	api := router.Group("/api")
	{
		api.POST("/offers", createLimit, h.CreateOffer)
		// этот маршрут тоже пишет в S3, поэтому считается в обоих лимитах
		api.POST("/offers/with-image", createLimit, uploadLimit, h.CreateOfferWithImage)
	}
}

func (h *Handler) UploadImage(c *gin.Context) {
	const route = "POST /upload"

	upload, err := h.readImage(c)
	if err != nil {
		h.respondError(c, route, err)
		return
	}

	image, err := h.images.UploadImage(c.Request.Context(), upload.Data, upload.Filename, upload.ContentType)
	if err != nil {
		h.respondError(c, route, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Image uploaded successfully.",
		"url":     image.URL,
	})
}

func (h *Handler) ListOffers(c *gin.Context) {
	const route = "GET /offers"

	offers, err := h.offers.List(c.Request.Context(), parseLimit(c.Query("limit")))
	if err != nil {
		h.respondError(c, route, err)
		return
	}

	c.JSON(http.StatusOK, offers)
}

func (h *Handler) CreateOffer(c *gin.Context) {
	const route = "POST /api/offers"

	var in domain.OfferInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.log.Warn("Invalid offer body", zap.String("route", route), zap.Error(err))
		h.respond(c, http.StatusBadRequest, errorResponse{Message: "invalid request body", Code: codeInvalidBody})
		return
	}

	offer, err := h.offers.Create(c.Request.Context(), in)
	if err != nil {
		h.respondError(c, route, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Offer created successfully.",
		"offer":   offer,
	})
}

func (h *Handler) CreateOfferWithImage(c *gin.Context) {
	const route = "POST /api/offers/with-image"

	in, err := parseMultipartOffer(c)
	if err != nil {
		h.log.Warn("Invalid offer form", zap.String("route", route), zap.Error(err))
		h.respond(c, http.StatusBadRequest, errorResponse{Message: "invalid request body", Code: codeInvalidBody})
		return
	}

	upload, err := h.readImage(c)
	if err != nil {
		h.respondError(c, route, err)
		return
	}

	offer, err := h.offers.CreateWithImage(c.Request.Context(), in, *upload)
	if err != nil {
		h.respondError(c, route, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Offer created successfully.",
		"offer":   offer,
	})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			h.log.Error("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

// Читаем файл из поля "image" целиком в память
func (h *Handler) readImage(c *gin.Context) (*service.ImageUpload, error) {
	file, err := c.FormFile("image")
	if err != nil || file.Size == 0 {
		return nil, errFileRequired
	}

	if h.cfg.MaxUploadSize > 0 && file.Size > h.cfg.MaxUploadSize {
		return nil, domain.NewValidationError("file too large")
	}

	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	return &service.ImageUpload{
		Data:        data,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
	}, nil
}

// parseLimit reads the leading integer of raw ("10abc" is 10). Without one it
// returns 0 and the service applies the default.
func parseLimit(raw string) int64 {
	raw = strings.TrimSpace(raw)
	end := 0
	if end < len(raw) && (raw[end] == '-' || raw[end] == '+') {
		end++
	}
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}

	limit, err := strconv.ParseInt(raw[:end], 10, 64)
	if err != nil {
		return 0
	}
	return limit
}

var errFileRequired = errors.New("no file in request")
