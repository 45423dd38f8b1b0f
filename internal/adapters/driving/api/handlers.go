package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pmatancambium/cambium-procedures/internal/core/domain"
	"github.com/pmatancambium/cambium-procedures/internal/core/ports/driving"
	"github.com/pmatancambium/cambium-procedures/internal/logger"
)

var errNotEnabled = fmt.Errorf("endpoint not enabled: %w", domain.ErrNotFound)

type queryRequest struct {
	Query      string  `json:"query"`
	Question   string  `json:"question"`
	Limit      int     `json:"limit"`
	Candidates int     `json:"candidates"`
	Threshold  float64 `json:"threshold"`
}

func (s *Server) options(req queryRequest) domain.SearchOptions {
	opts := domain.SearchOptions{
		Candidates: req.Candidates,
		Limit:      req.Limit,
		Threshold:  req.Threshold,
	}
	if opts.Candidates <= 0 {
		opts.Candidates = s.cfg.Search.Candidates
	}
	if opts.Limit <= 0 {
		opts.Limit = s.cfg.Search.Limit
	}
	if opts.Threshold <= 0 {
		opts.Threshold = s.cfg.Search.Threshold
	}
	return opts.WithDefaults()
}

type resultJSON struct {
	Filename   string   `json:"filename"`
	Text       string   `json:"text"`
	Highlights []string `json:"highlights"`
	Direction  string   `json:"direction"`
}

func toResults(docs []domain.AggregatedDocument) []resultJSON {
	out := make([]resultJSON, len(docs))
	for i, d := range docs {
		out[i] = resultJSON{
			Filename:   d.Filename,
			Text:       d.Text,
			Highlights: d.Highlights,
			Direction:  domain.Direction(d.Text),
		}
	}
	return out
}

type chunkJSON struct {
	Filename      string `json:"filename"`
	Heading       string `json:"heading,omitempty"`
	PlainText     string `json:"plain_text"`
	FormattedText string `json:"formatted_text"`
	Identifier    string `json:"unique_chunk_identifier"`
	Direction     string `json:"direction"`
}

func (s *Server) search(c *gin.Context) {
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, fmt.Errorf("invalid request body: %v: %w", err, domain.ErrInvalidInput))
		return
	}

	docs, err := s.ports.Search.Search(c.Request.Context(), req.Query, s.options(req))
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": toResults(docs)})
}

// ask streams the generated answer as plain text. The matched documents are
// listed in the X-Documents header as a JSON array of file names.
func (s *Server) ask(c *gin.Context) {
	if s.ports.Answer == nil {
		abort(c, errNotEnabled)
		return
	}
	if !s.ports.Answer.Available() {
		abort(c, domain.ErrAnswerUnavailable)
		return
	}

	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, fmt.Errorf("invalid request body: %v: %w", err, domain.ErrInvalidInput))
		return
	}
	question := req.Question
	if question == "" {
		question = req.Query
	}

	answer, err := s.ports.Answer.Ask(c.Request.Context(), question, s.options(req))
	if err != nil {
		abort(c, err)
		return
	}

	names := make([]string, len(answer.Documents))
	for i, d := range answer.Documents {
		names[i] = d.Filename
	}
	header, _ := json.Marshal(names) //nolint:errchkjson // string slice
	c.Header("X-Documents", string(header))
	c.Header("X-Result-Count", strconv.Itoa(len(names)))
	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.Header("Content-Language", "he")
	c.Status(http.StatusOK)

	if answer.Stream == nil {
		return
	}

	for fragment, err := range answer.Stream {
		if err != nil {
			logger.Warn("Answer stream failed: %v", err)
			fmt.Fprintf(c.Writer, "\n\n[error: %v]", err)
			return
		}
		if _, err := io.WriteString(c.Writer, fragment); err != nil {
			return
		}
		c.Writer.Flush()
	}
}

func (s *Server) uploadDocument(c *gin.Context) {
	if s.ports.Ingest == nil {
		abort(c, errNotEnabled)
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		abort(c, fmt.Errorf("missing file: %v: %w", err, domain.ErrInvalidInput))
		return
	}
	name := filepath.Base(file.Filename)
	if _, err := domain.FormatFromPath(name); err != nil {
		abort(c, fmt.Errorf("%s: %w", name, err))
		return
	}

	dir, err := os.MkdirTemp(s.cfg.UploadDir, "upload-*")
	if err != nil {
		abort(c, fmt.Errorf("creating upload dir: %w", err))
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, name)
	if err := c.SaveUploadedFile(file, path); err != nil {
		abort(c, fmt.Errorf("saving upload: %w", err))
		return
	}

	skip, _ := strconv.ParseBool(c.PostForm("skip_existing"))
	report, err := s.ports.Ingest.Ingest(c.Request.Context(), path, driving.IngestOptions{SkipExisting: skip})
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, report)
}

func (s *Server) listDocuments(c *gin.Context) {
	if s.ports.Document == nil {
		abort(c, errNotEnabled)
		return
	}
	sources, err := s.ports.Document.List(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": sources})
}

func (s *Server) getDocument(c *gin.Context) {
	if s.ports.Document == nil {
		abort(c, errNotEnabled)
		return
	}
	source := c.Param("source")
	chunks, err := s.ports.Document.Chunks(c.Request.Context(), source)
	if err != nil {
		abort(c, err)
		return
	}

	out := make([]chunkJSON, len(chunks))
	for i, ch := range chunks {
		out[i] = chunkJSON{
			Filename:      ch.Source,
			Heading:       ch.Heading,
			PlainText:     ch.PlainText,
			FormattedText: ch.FormattedText,
			Identifier:    ch.IdentityKey(),
			Direction:     domain.Direction(ch.PlainText),
		}
	}
	c.JSON(http.StatusOK, gin.H{"source": source, "chunks": out})
}

func (s *Server) listQuestions(c *gin.Context) {
	if s.ports.Question == nil {
		abort(c, errNotEnabled)
		return
	}
	questions, err := s.ports.Question.List(c.Request.Context())
	if err != nil {
		abort(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

func (s *Server) deleteQuestion(c *gin.Context) {
	if s.ports.Question == nil {
		abort(c, errNotEnabled)
		return
	}
	if err := s.ports.Question.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			abort(c, fmt.Errorf("question %s: %w", c.Param("id"), err))
			return
		}
		abort(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
