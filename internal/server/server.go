package server

import (
	"context"
	"encoding/xml"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pathakanu/remindbot/internal/notify"
	"go.uber.org/zap"
)

// MessageHandler answers one inbound chat message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, ownerID int64, body string) string
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message"`
}

// NewRouter wires the Twilio webhook and health probes.
func NewRouter(handler MessageHandler, checker *Checker, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(logger))

	router.POST("/twilio/webhook", webhookHandler(handler, logger))
	router.GET("/health/live", checker.LiveHandler())
	router.GET("/health/ready", checker.ReadyHandler())
	return router
}

func webhookHandler(handler MessageHandler, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		from := c.PostForm("From")
		ownerID, err := notify.OwnerIDFromAddress(from)
		if err != nil {
			logger.Warn("webhook_bad_sender", zap.String("from", from), zap.Error(err))
			c.XML(http.StatusOK, twimlResponse{Message: "Sorry, I couldn't understand that request."})
			return
		}

		reply := handler.HandleMessage(c.Request.Context(), ownerID, c.PostForm("Body"))
		c.XML(http.StatusOK, twimlResponse{Message: reply})
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http_request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
