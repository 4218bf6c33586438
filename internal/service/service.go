package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sahilm/fuzzy"

	"github.com/ooti/prompt-lab/internal/clipboard"
	"github.com/ooti/prompt-lab/internal/config"
	"github.com/ooti/prompt-lab/internal/errors"
	"github.com/ooti/prompt-lab/internal/export"
	"github.com/ooti/prompt-lab/internal/frameworks"
	"github.com/ooti/prompt-lab/internal/intake"
	"github.com/ooti/prompt-lab/internal/models"
	"github.com/ooti/prompt-lab/internal/renderer"
	"github.com/ooti/prompt-lab/internal/session"
	"github.com/ooti/prompt-lab/internal/vibe"
)

// Service is the single entry point the CLI, API and TUI use for catalog
// lookups, rendering, classification, vibe snippets, export and sessions
type Service struct {
	cfg      *config.Config
	cache    *lru.Cache[string, *models.ClassificationResult]
	sessions *session.Store
	exporter *export.Exporter
	copier   clipboard.Copier
	logger   *slog.Logger

	cacheHits   atomic.Int64
	cacheMisses atomic.Int64
}

// Option customises a Service
type Option func(*Service)

// WithCopier replaces the system clipboard
func WithCopier(c clipboard.Copier) Option {
	return func(s *Service) { s.copier = c }
}

// WithLogger sets the logger used for service events
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithExporter replaces the exporter built from config
func WithExporter(e *export.Exporter) Option {
	return func(s *Service) { s.exporter = e }
}

// NewService creates a new service instance. A nil cfg uses the defaults.
func NewService(cfg *config.Config, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	size := cfg.CacheSize
	if size < 1 {
		size = config.DefaultConfig().CacheSize
	}
	cache, err := lru.New[string, *models.ClassificationResult](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create classification cache: %w", err)
	}

	svc := &Service{
		cfg:      cfg,
		cache:    cache,
		sessions: session.NewStore(),
		exporter: export.NewExporter(cfg.ExportDir, cfg.FrontMatter),
		copier:   clipboard.NewSystem(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Config returns the configuration the service was built with
func (s *Service) Config() *config.Config {
	return s.cfg
}

// ListFrameworks returns the catalog in display order
func (s *Service) ListFrameworks() []models.Framework {
	return frameworks.All()
}

// GetFramework returns one framework by id
func (s *Service) GetFramework(id models.FrameworkID) (*models.Framework, error) {
	fw, ok := frameworks.Get(id)
	if !ok {
		return nil, errors.UnknownFrameworkError(string(id))
	}
	return fw, nil
}

// SearchFrameworks fuzzy-matches query against framework names, taglines,
// ids and field labels. An empty query returns the whole catalog.
func (s *Service) SearchFrameworks(query string) []models.Framework {
	all := frameworks.All()
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}

	searchStrings := make([]string, len(all))
	for i, fw := range all {
		labels := make([]string, len(fw.Fields))
		for j, f := range fw.Fields {
			labels[j] = f.Label
		}
		searchStrings[i] = strings.ToLower(fmt.Sprintf("%s %s %s %s",
			fw.ID,
			fw.Name,
			fw.Tagline,
			strings.Join(labels, " "),
		))
	}

	matches := fuzzy.Find(strings.ToLower(query), searchStrings)

	results := make([]models.Framework, 0, len(matches))
	for _, match := range matches {
		results = append(results, all[match.Index])
	}
	return results
}

// VibeSelection picks a model wrapper and tone preset
type VibeSelection struct {
	Model models.ModelKey `json:"model"`
	Vibe  models.VibeKey  `json:"vibe"`
}

// RenderRequest is everything needed to render one prompt
type RenderRequest struct {
	FrameworkID models.FrameworkID `json:"frameworkId"`
	Values      models.Values      `json:"values,omitempty"`
	Extras      models.Extras      `json:"extras"`
	Vibe        *VibeSelection     `json:"vibe,omitempty"`
}

// Render renders req as plain text, with the vibe snippet prepended when one
// is selected
func (s *Service) Render(req RenderRequest) (string, error) {
	text, err := renderer.Render(req.FrameworkID, req.Values, req.Extras)
	if err != nil {
		return "", err
	}

	snippet, err := s.snippet(req.Vibe)
	if err != nil {
		return "", err
	}
	return vibe.Prepend(snippet, text), nil
}

// RenderJSON renders req as a chat message array. A selected vibe becomes the
// system message instead of being prepended.
func (s *Service) RenderJSON(req RenderRequest) (string, error) {
	r, err := renderer.ForID(req.FrameworkID)
	if err != nil {
		return "", err
	}

	snippet, err := s.snippet(req.Vibe)
	if err != nil {
		return "", err
	}

	out, err := r.RenderJSON(req.Values, req.Extras, snippet)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeInternalError, "failed to render JSON")
	}
	return out, nil
}

func (s *Service) snippet(sel *VibeSelection) (string, error) {
	if sel == nil {
		return "", nil
	}
	return s.Vibe(sel.Model, sel.Vibe)
}

// Classify recommends a framework for text. Results are memoised by input
// text; every call returns its own copy.
func (s *Service) Classify(text string) (*models.ClassificationResult, error) {
	if cached, ok := s.cache.Get(text); ok {
		s.cacheHits.Add(1)
		return cached.Clone(), nil
	}
	s.cacheMisses.Add(1)

	result, err := intake.Classify(text)
	if err != nil {
		return nil, err
	}

	s.cache.Add(text, result)
	s.logger.Debug("classified input", "best", result.BestID, "score", result.Scores[result.BestID])
	return result.Clone(), nil
}

// CacheStats reports classification cache hits, misses and current size
func (s *Service) CacheStats() (hits, misses int64, size int) {
	return s.cacheHits.Load(), s.cacheMisses.Load(), s.cache.Len()
}

// Vibe renders the style snippet for model and tone. Empty keys fall back to
// the configured defaults.
func (s *Service) Vibe(model models.ModelKey, tone models.VibeKey) (string, error) {
	if model == "" {
		model = s.cfg.DefaultModel
	}
	if tone == "" {
		tone = s.cfg.DefaultVibe
	}
	return vibe.Render(model, tone)
}

// Models lists the vibe target models
func (s *Service) Models() []models.ModelInfo {
	return vibe.Models()
}

// Vibes lists the tone presets
func (s *Service) Vibes() []models.VibeInfo {
	return vibe.Vibes()
}

// ExportRequest renders and titles a document for export
type ExportRequest struct {
	RenderRequest
	Title string `json:"title,omitempty"`
	// Dir overrides the configured export directory for Export
	Dir string `json:"-"`
}

func (s *Service) exportMeta(req ExportRequest) (export.Meta, string, error) {
	fw, err := s.GetFramework(req.FrameworkID)
	if err != nil {
		return export.Meta{}, "", err
	}

	output, err := s.Render(req.RenderRequest)
	if err != nil {
		return export.Meta{}, "", err
	}

	meta := export.Meta{Title: strings.TrimSpace(req.Title), Framework: fw.ID}
	if meta.Title == "" {
		meta.Title = export.DefaultTitle(fw)
	}
	if req.Vibe != nil {
		meta.Model = req.Vibe.Model
		meta.Vibe = req.Vibe.Vibe
	}
	return meta, output, nil
}

// BuildExport returns the export filename and document without writing it
func (s *Service) BuildExport(req ExportRequest) (*export.Result, error) {
	meta, output, err := s.exportMeta(req)
	if err != nil {
		return nil, err
	}
	return s.exporter.Build(meta, output)
}

// Export writes the document into the export directory
func (s *Service) Export(req ExportRequest) (*export.Result, error) {
	meta, output, err := s.exportMeta(req)
	if err != nil {
		return nil, err
	}

	exporter := s.exporter
	if req.Dir != "" {
		exporter = export.NewExporter(req.Dir, s.cfg.FrontMatter)
	}

	res, err := exporter.Write(meta, output)
	if err != nil {
		return nil, err
	}
	s.logger.Info("exported prompt", "path", res.Path, "framework", meta.Framework)
	return res, nil
}

// Copy puts text on the clipboard and returns a status message
func (s *Service) Copy(ctx context.Context, text string) (string, error) {
	return clipboard.CopyWithFallback(ctx, s.copier, text)
}

// Sessions returns the session store
func (s *Service) Sessions() *session.Store {
	return s.sessions
}

// CreateSession starts a session, on the configured default framework when id
// is empty
func (s *Service) CreateSession(id models.FrameworkID) (*session.Session, error) {
	if id == "" {
		id = s.cfg.DefaultFramework
	}
	return s.sessions.Create(id)
}

// GetSession returns a session by id
func (s *Service) GetSession(id string) (*session.Session, error) {
	return s.sessions.Get(id)
}

// DeleteSession removes a session
func (s *Service) DeleteSession(id string) error {
	return s.sessions.Delete(id)
}

// SetSessionFields sets field values on a session, switching framework first
// when frameworkID is non-empty
func (s *Service) SetSessionFields(id string, frameworkID models.FrameworkID, values models.Values) (*session.Session, error) {
	return s.sessions.Update(id, func(sess *session.Session) error {
		if frameworkID != "" && frameworkID != sess.FrameworkID {
			if err := sess.Select(frameworkID); err != nil {
				return err
			}
		}
		return sess.SetFields(values)
	})
}

// SetSessionExtras replaces a session's extras and, when title is non-nil, its
// export title
func (s *Service) SetSessionExtras(id string, extras models.Extras, title *string) (*session.Session, error) {
	return s.sessions.Update(id, func(sess *session.Session) error {
		sess.SetExtras(extras)
		if title != nil {
			sess.SetTitle(*title)
		}
		return nil
	})
}

// SetSessionVibe sets or clears the snippet prepended to a session's output
func (s *Service) SetSessionVibe(id string, sel *VibeSelection) (*session.Session, error) {
	snippet, err := s.snippet(sel)
	if err != nil {
		return nil, err
	}
	return s.sessions.Update(id, func(sess *session.Session) error {
		sess.SetVibe(snippet)
		return nil
	})
}

// ResetSession clears a session's values, extras and title
func (s *Service) ResetSession(id string) (*session.Session, error) {
	return s.sessions.Update(id, func(sess *session.Session) error {
		sess.Reset()
		return nil
	})
}

// ApplyIntake classifies text and loads the pre-fill for frameworkID (or the
// recommendation when empty) into the session
func (s *Service) ApplyIntake(id, text string, frameworkID models.FrameworkID) (*session.Session, *models.ClassificationResult, error) {
	result, err := s.Classify(text)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.Update(id, func(sess *session.Session) error {
		return sess.ApplyIntake(result, frameworkID)
	})
	if err != nil {
		return nil, nil, err
	}
	return sess, result, nil
}

// SessionOutput renders a session
func (s *Service) SessionOutput(id string) (string, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return "", err
	}
	return sess.Output()
}
