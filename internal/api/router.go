package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"meeting-room-backend/internal/mw"
)

// RouterOptions configures the middleware in front of the handlers.
type RouterOptions struct {
	RateLimit rate.Limit
	Burst     int
	CacheTTL  time.Duration
	Logger    *zap.Logger
}

// NewRouter creates and configures a new Gin router.
func NewRouter(svc ReservationService, opts RouterOptions) *gin.Engine {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Inf
	}

	r := gin.New()
	r.Use(gin.Recovery(), mw.RequestLogger(opts.Logger))

	handler := NewHandler(svc, opts.Logger)

	rateLimiter := mw.RateLimiter(opts.RateLimit, opts.Burst)

	// Room rows are managed outside this service, so details may be served stale for one TTL.
	roomDetails := []gin.HandlerFunc{handler.RoomDetails}
	if opts.CacheTTL > 0 {
		cacheStore := cache.New(opts.CacheTTL, 2*opts.CacheTTL)
		roomDetails = append([]gin.HandlerFunc{mw.Cache(cacheStore, opts.CacheTTL)}, roomDetails...)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/available-rooms", handler.AvailableRooms)
		api.GET("/room-details/:room_id", roomDetails...)
		api.POST("/reserve", handler.Reserve)
		api.DELETE("/cancel-reservation", handler.CancelReservation)
		api.DELETE("/cancel-reservation/:reservation_id", handler.CancelReservation)
	}

	return r
}
