// Package web serves the HTTP API: health check, Prometheus metrics and
// profile review checks backed by an issue tracker.
package web

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	summaryBlock = regexp2.MustCompile("```json\\s*\\n(?<json>.*?)\\n```", regexp2.Singleline)
	actionsURL   = regexp2.MustCompile(`https://github\.com/juniorguru/eggtray/actions/runs/(\d+)`, regexp2.None)
)

// Check states reported by GET /checks/:issue_number.
const (
	CheckPending  = "pending"
	CheckComplete = "complete"
)

// HealthStatus is the body of GET /.
type HealthStatus struct {
	Status    string `json:"status"`
	LaunchAt  string `json:"launch_at"`
	UptimeSec int64  `json:"uptime_sec"`
}

// CheckCreated is the body of POST /checks/:github_username.
type CheckCreated struct {
	URL    string `json:"url"`
	Number int    `json:"number"`
}

// CheckStatus is the body of GET /checks/:issue_number.
type CheckStatus struct {
	Status     string          `json:"status"`
	Data       json.RawMessage `json:"data,omitempty"`
	ActionsURL string          `json:"actions_url,omitempty"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	Hash  string `json:"hash,omitempty"`
}

// Server is the HTTP API.
type Server struct {
	echo     *echo.Echo
	tracker  IssueTracker
	logger   *slog.Logger
	debug    bool
	launchAt time.Time
	now      func() time.Time
}

// NewServer builds the API. In debug mode internal errors are passed to
// echo's error handler instead of being hidden behind an error hash.
func NewServer(tracker IssueTracker, logger *slog.Logger, debug bool) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		tracker:  tracker,
		logger:   logger.With("system", "web"),
		debug:    debug,
		launchAt: time.Now().UTC(),
		now:      time.Now,
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Debug = debug
	e.Use(s.metricsMiddleware)

	e.GET("/", s.HandleHealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.POST("/checks/:github_username", s.HandleCreateCheck)
	e.GET("/checks/:issue_number", s.HandleGetCheck)

	s.echo = e
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens on addr until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.logger.Info("starting http server", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) HandleHealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		LaunchAt:  s.launchAt.Format(time.RFC3339Nano),
		UptimeSec: int64(s.now().Sub(s.launchAt) / time.Second),
	})
}

func (s *Server) HandleCreateCheck(c echo.Context) error {
	username := c.Param("github_username")
	s.logger.Info("creating check", "github_username", username)

	issue, err := s.tracker.CreateIssue(
		c.Request().Context(),
		"Zpětná vazba na profil @"+username,
		"Z webu junior.guru přišel požadavek na zpětnou vazbu k profilu @"+username+".",
		[]string{"check"},
	)
	if err != nil {
		return s.internalError(c, "creating check", err)
	}

	s.logger.Info("created issue", "number", issue.Number, "url", issue.HTMLURL)
	return c.JSON(http.StatusOK, CheckCreated{URL: issue.HTMLURL, Number: issue.Number})
}

func (s *Server) HandleGetCheck(c echo.Context) error {
	number, err := strconv.Atoi(c.Param("issue_number"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid issue number"})
	}
	ctx := c.Request().Context()

	if _, err := s.tracker.GetIssue(ctx, number); err != nil {
		if errors.Is(err, ErrIssueNotFound) {
			s.logger.Info("issue not found", "number", number)
			return c.JSON(http.StatusNotFound, ErrorResponse{Error: "Issue not found"})
		}
		return s.internalError(c, "getting check status", err)
	}

	comments, err := s.tracker.ListComments(ctx, number)
	if err != nil {
		return s.internalError(c, "getting check status", err)
	}

	for i := len(comments) - 1; i >= 0; i-- {
		body := comments[i].Body
		if !strings.Contains(body, "```json") {
			continue
		}
		s.logger.Info("check is complete", "number", number)

		status := CheckStatus{Status: CheckComplete}
		if data := summaryData(body); data != nil {
			status.Data = data
		} else {
			s.logger.Warn("failed to parse summary json", "comment_id", comments[i].ID)
		}
		if link, _ := actionsURL.FindStringMatch(body); link != nil {
			status.ActionsURL = link.String()
		}
		return c.JSON(http.StatusOK, status)
	}

	s.logger.Info("check is still in progress", "number", number)
	return c.JSON(http.StatusAccepted, CheckStatus{Status: CheckPending})
}

// summaryData returns the JSON block of a finished check comment, or nil
// when the block is unterminated or not valid JSON.
func summaryData(body string) []byte {
	m, _ := summaryBlock.FindStringMatch(body)
	if m == nil {
		return nil
	}
	data := []byte(m.GroupByName("json").String())
	if !json.Valid(data) {
		return nil
	}
	return data
}

func (s *Server) internalError(c echo.Context, op string, err error) error {
	hash := errorHash(s.now(), err)
	s.logger.Error("request failed", "op", op, "hash", hash, "error", err)
	if s.debug {
		return err
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error", Hash: hash})
}

// errorHash is a short fingerprint that ties a response to its log line.
func errorHash(at time.Time, err error) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s-%T-%s", at.UTC().Format(time.RFC3339Nano), err, err)))
	return hex.EncodeToString(sum[:])[:8]
}
