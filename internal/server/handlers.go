package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ytfetch/media-api/internal/archive"
	"github.com/ytfetch/media-api/internal/history"
	"github.com/ytfetch/media-api/internal/model"
	"github.com/ytfetch/media-api/internal/quality"
)

// Response content types and names.
const (
	contentTypeAudio = "audio/mpeg"
	contentTypeVideo = "video/mp4"
	contentTypeZip   = "application/zip"

	batchArchiveName = "batch_download.zip"

	defaultHistoryLimit = 50
)

// errorResponse carries the underlying failure message as detail,
// undifferentiated by cause.
type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": Version,
	})
}

func (s *Server) handleDownloadAudio(c *gin.Context) {
	s.downloadSingle(c, model.MediaKindAudio, contentTypeAudio)
}

func (s *Server) handleDownloadVideo(c *gin.Context) {
	s.downloadSingle(c, model.MediaKindVideo, contentTypeVideo)
}

// downloadSingle runs one blocking download into a fresh run directory and
// streams the produced file back. The run directory is removed after the
// response is written, and on every failure path.
func (s *Server) downloadSingle(c *gin.Context, kind model.MediaKind, contentType string) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "url parameter is required"})
		return
	}
	qualityValue := c.Query("quality")
	if !validQuality(qualityValue) {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid quality value"})
		return
	}

	runDir, err := s.workspace.NewRunDir()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}
	defer s.workspace.Cleanup(runDir)

	start := time.Now()
	if err := s.fetcher.Download(c.Request.Context(), runDir, kind, qualityValue, url); err != nil {
		s.record(url, kind, qualityValue, history.StatusFailed, 0, start, err)
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	path, err := s.workspace.FirstFile(runDir)
	if err != nil {
		s.record(url, kind, qualityValue, history.StatusFailed, 0, start, err)
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	s.record(url, kind, qualityValue, history.StatusCompleted, fileSize(path), start, nil)

	c.Header("Content-Type", contentType)
	c.FileAttachment(path, filepath.Base(path))
}

func (s *Server) handleDownloadBatch(c *gin.Context) {
	var req model.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid request body"})
		return
	}
	if len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "urls must not be empty"})
		return
	}

	// Batches default to audio, matching the single-endpoint split.
	kind := model.MediaKindAudio
	if req.Type != "" {
		kind = model.MediaKind(req.Type)
		if !kind.Valid() {
			c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid type: must be audio or video"})
			return
		}
	}
	if !validQuality(req.Quality) {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "invalid quality value"})
		return
	}

	runDir, err := s.workspace.NewRunDir()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}
	var zipPath string
	defer func() { s.workspace.Cleanup(runDir, zipPath) }()

	batchURL := strings.Join(req.URLs, ",")
	start := time.Now()

	// One failure anywhere aborts the whole batch; no per-item reporting.
	if err := s.fetcher.Download(c.Request.Context(), runDir, kind, req.Quality, req.URLs...); err != nil {
		s.record(batchURL, kind, req.Quality, history.StatusFailed, 0, start, err)
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}

	zipPath, err = archive.ZipDir(runDir)
	if err != nil {
		s.record(batchURL, kind, req.Quality, history.StatusFailed, 0, start, err)
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}

	s.record(batchURL, kind, req.Quality, history.StatusCompleted, fileSize(zipPath), start, nil)

	c.Header("Content-Type", contentTypeZip)
	c.FileAttachment(zipPath, batchArchiveName)
}

func (s *Server) handleInfo(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "url parameter is required"})
		return
	}

	info, err := s.fetcher.Probe(c.Request.Context(), url)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, model.InfoResponse{
		Title:        info.Title,
		Uploader:     info.Uploader,
		Duration:     info.Duration,
		VideoOptions: quality.VideoOptions(info.Heights),
		AudioOptions: quality.AudioOptions(),
	})
}

// handleChannelInfo lists a channel or playlist as title/URL pairs. Failures
// use a soft-error envelope with status 200; existing clients of this route
// switch on the status field, not the HTTP code.
func (s *Server) handleChannelInfo(c *gin.Context) {
	url := c.Query("url")
	if url == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Detail: "url parameter is required"})
		return
	}

	info, err := s.fetcher.ProbeFlat(c.Request.Context(), url)
	if err != nil {
		c.JSON(http.StatusOK, model.ChannelInfoResponse{
			Status:  model.StatusError,
			Message: err.Error(),
		})
		return
	}

	videos := make([]model.ChannelVideo, 0, len(info.Entries))
	for _, e := range info.Entries {
		if e.URL == "" {
			continue
		}
		videos = append(videos, model.ChannelVideo{Title: e.Title, URL: e.URL})
	}

	c.JSON(http.StatusOK, model.ChannelInfoResponse{
		Status:      model.StatusSuccess,
		ChannelName: info.Title,
		Videos:      videos,
	})
}

func (s *Server) handleHistory(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotFound, errorResponse{Detail: "history is disabled"})
		return
	}

	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}

	records, err := s.store.Recent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}
	counts, err := s.store.CountByKind()
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse{Detail: err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"counts":  counts,
	})
}

// record stores a download outcome. History is observability only: failures
// are logged and never surfaced.
func (s *Server) record(url string, kind model.MediaKind, qualityValue, status string, size int64, start time.Time, cause error) {
	if s.store == nil {
		return
	}
	rec := &history.Record{
		URL:        url,
		Kind:       kind.String(),
		Quality:    qualityValue,
		Status:     status,
		SizeBytes:  size,
		DurationMS: time.Since(start).Milliseconds(),
	}
	if cause != nil {
		rec.Error = cause.Error()
	}
	if err := s.store.Add(rec); err != nil {
		s.log.Warn("failed to record download", "url", url, "error", err)
	}
}

// validQuality accepts the values the format selector may embed: empty,
// "best", or a bare number (height for video, kbps for audio).
func validQuality(q string) bool {
	if q == "" || q == quality.DefaultVideoValue {
		return true
	}
	for _, r := range q {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
