package main

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"walletlink/internal/log"
	"walletlink/internal/peer/mock"
)

// newRouter exposes w at /ul/v1/<action>. Every answer is a 302 to the
// request's redirect_link.
func newRouter(w *mock.Wallet) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.RecoveryWithWriter(log.Logger().WriterLevel(logrus.ErrorLevel)), accessLog())

	answer := func(c *gin.Context) {
		full := "http://" + c.Request.Host + c.Request.URL.RequestURI()
		loc, err := w.Handle(full)
		if err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.Redirect(http.StatusFound, loc)
	}
	r.GET("/ul/v1/connect", answer)
	r.GET("/ul/v1/signTransaction", answer)
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"wallet": w.PublicKey()})
	})
	return r
}

// accessLog records method, path, status and duration for each request.
func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Infof("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}
