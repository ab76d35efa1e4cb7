package main

import (
	"strings"
	"sync"

	"flamesblue/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// server bundles the stub's in-memory state.
type server struct {
	logger *zap.Logger
	otp    otpStore

	mu       sync.Mutex
	vehicles []models.VehicleListing
}

func newServer(logger *zap.Logger) *server {
	return &server{
		logger:   logger,
		otp:      newOTPStore(logger),
		vehicles: seedVehicles(),
	}
}

// seedVehicles gives the catalog something to show on first launch.
func seedVehicles() []models.VehicleListing {
	return []models.VehicleListing{
		{
			ID:           uuid.New().String(),
			OwnerID:      "seed",
			Category:     models.CategoryCar,
			Title:        "Blue Hatchback",
			Description:  "Compact city car, great mileage.",
			Photos:       []string{},
			HasInsurance: true,
			PricePerDay:  39,
		},
		{
			ID:           uuid.New().String(),
			OwnerID:      "seed",
			Category:     models.CategoryBike,
			Title:        "Orange Commuter",
			Description:  "125cc, perfect for short hops.",
			Photos:       []string{},
			HasInsurance: false,
			PricePerDay:  12,
		},
	}
}

func (s *server) registerRoutes(r *gin.Engine) {
	r.POST("/auth/send-otp", s.sendOTPHandler)
	r.POST("/auth/verify-otp", s.verifyOTPHandler)
	r.POST("/vehicles", s.createVehicleHandler)
	r.GET("/vehicles", s.listVehiclesHandler)
	r.POST("/support/chat", s.supportChatHandler)
}

// sendOTPHandler issues a code for the phone and logs it in place of real
// out-of-band delivery.
func (s *server) sendOTPHandler(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	otp, err := generateSecureOTP(6)
	if err != nil {
		c.JSON(500, gin.H{"error": "failed to generate OTP"})
		return
	}
	if err := s.otp.Put(c.Request.Context(), req.Phone, otp); err != nil {
		s.logger.Error("Failed to store OTP", zap.Error(err))
		c.JSON(500, gin.H{"error": "failed to store OTP"})
		return
	}

	s.logger.Sugar().Infof("OTP for %s: %s (expires in %v)", req.Phone, otp, otpTTL)
	c.JSON(200, gin.H{"status": "sent"})
}

// verifyOTPHandler checks the submitted code against the stored one.
func (s *server) verifyOTPHandler(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		Code  string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	stored, err := s.otp.Take(c.Request.Context(), req.Phone)
	if err != nil {
		c.JSON(401, gin.H{"error": err.Error()})
		return
	}
	if stored != req.Code {
		c.JSON(401, gin.H{"error": "OTP does not match"})
		return
	}

	c.JSON(200, gin.H{"message": "OTP verified successfully"})
}

// createVehicleHandler stores a submitted listing and returns its id.
func (s *server) createVehicleHandler(c *gin.Context) {
	var req models.VehicleListing
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}
	if req.Title == "" {
		c.JSON(422, gin.H{"error": "title is required"})
		return
	}
	if req.PricePerDay <= 0 {
		c.JSON(422, gin.H{"error": "price_per_day must be positive"})
		return
	}

	req.ID = uuid.New().String()
	if req.Photos == nil {
		req.Photos = []string{}
	}

	s.mu.Lock()
	s.vehicles = append(s.vehicles, req)
	s.mu.Unlock()

	c.JSON(201, gin.H{"_id": req.ID})
}

// listVehiclesHandler returns the full catalog snapshot.
func (s *server) listVehiclesHandler(c *gin.Context) {
	s.mu.Lock()
	out := make([]models.VehicleListing, len(s.vehicles))
	copy(out, s.vehicles)
	s.mu.Unlock()

	c.JSON(200, out)
}

// supportChatHandler returns a canned reply keyed off the message text.
func (s *server) supportChatHandler(c *gin.Context) {
	var req struct {
		UserID  string `json:"user_id"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": err.Error()})
		return
	}

	c.JSON(200, gin.H{"reply": cannedReply(req.Message)})
}

func cannedReply(message string) string {
	msg := strings.ToLower(message)
	switch {
	case strings.Contains(msg, "book"):
		return "To book a ride, pick a date and a vehicle on the booking screen."
	case strings.Contains(msg, "list"):
		return "You can list your own vehicle from the dashboard in three quick steps."
	case strings.Contains(msg, "price") || strings.Contains(msg, "cost"):
		return "Prices are set per day by each owner; weekly plans save up to 20%."
	case strings.Contains(msg, "help"):
		return "Sure, how can I help?"
	default:
		return "Thanks for reaching out! Could you tell me a bit more?"
	}
}
