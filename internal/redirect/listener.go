package redirect

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"walletlink/internal/log"
)

// DefaultBasePath is where the listener expects wallet redirects.
const DefaultBasePath = "/phantom"

// Listener receives wallet redirects over HTTP on a loopback address and
// republishes them as full URLs. It is the http(s) counterpart of a
// custom-scheme handler.
type Listener struct {
	*Channel

	basePath string
	srv      *http.Server
	ln       net.Listener
	errc     chan error
}

// NewListener binds addr (e.g. "127.0.0.1:0") and prepares the routes. Call
// Serve to start accepting requests.
func NewListener(addr, basePath string) (*Listener, error) {
	if basePath == "" {
		basePath = DefaultBasePath
	}
	basePath = "/" + strings.Trim(basePath, "/")

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("redirect listener: %w", err)
	}

	l := &Listener{
		Channel:  NewChannel(),
		basePath: basePath,
		ln:       ln,
		errc:     make(chan error, 1),
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.RecoveryWithWriter(log.Logger().WriterLevel(logrus.ErrorLevel)))
	router.GET(basePath+"/:action", l.handle)
	router.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	l.srv = &http.Server{
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return l, nil
}

// Serve starts the HTTP server in the background.
func (l *Listener) Serve() {
	go func() {
		err := l.srv.Serve(l.ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		l.errc <- err
	}()
	log.Debugf("redirect listener on %s", l.Target(""))
}

// Target returns the redirect link for action, e.g.
// http://127.0.0.1:8181/phantom/connect.
func (l *Listener) Target(action string) string {
	base := "http://" + l.ln.Addr().String() + l.basePath
	if action == "" {
		return base + "/"
	}
	return base + "/" + action
}

// Close shuts the server down, waiting up to the context deadline for
// in-flight requests.
func (l *Listener) Close(ctx context.Context) error {
	if err := l.srv.Shutdown(ctx); err != nil {
		return err
	}
	select {
	case err := <-l.errc:
		return err
	default:
		return nil
	}
}

func (l *Listener) handle(c *gin.Context) {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	full := scheme + "://" + c.Request.Host + c.Request.URL.RequestURI()

	n := l.Publish(full)
	log.Debugf("redirect %s delivered to %d subscriber(s)", log.Redact(full), n)

	if n == 0 {
		c.String(http.StatusGone, "No request is waiting for this response.")
		return
	}
	if c.Query("errorCode") != "" {
		c.String(http.StatusOK, "The wallet declined the request. You can close this tab.")
		return
	}
	c.String(http.StatusOK, "Done. You can close this tab and return to the terminal.")
}
