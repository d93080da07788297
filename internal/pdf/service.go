package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/a3tai/schedify/internal/cache"
	"github.com/a3tai/schedify/internal/logging"
	"github.com/a3tai/schedify/internal/pdf/security"
	"github.com/a3tai/schedify/internal/schedule"
)

// ScheduleCache stores parse results keyed by document content
type ScheduleCache interface {
	Get(key string) (*schedule.ParsedSchedule, bool, error)
	Put(key string, s *schedule.ParsedSchedule) error
	Delete(key string) error
	Stats() cache.Stats
}

// ServiceConfig configures a Service
type ServiceConfig struct {
	MaxFileSize int64
	Directory   string
	PageWorkers int
	Cache       ScheduleCache // optional
	Logger      logrus.FieldLogger
}

// Service orchestrates PDF loading, text extraction and schedule parsing
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	inspector     *Inspector
	search        *Search
	serverInfo    *serverInfo
	cache         ScheduleCache
	pathValidator *security.PathValidator
	logger        logrus.FieldLogger
}

// NewService creates a new PDF service with all components
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.MaxFileSize <= 0 {
		return nil, fmt.Errorf("maxFileSize must be greater than 0")
	}

	pathValidator, err := security.NewPathValidator(cfg.Directory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	logger := logging.OrDiscard(cfg.Logger)
	reader := NewReader(cfg.MaxFileSize, cfg.PageWorkers, logger)

	s := &Service{
		maxFileSize:   cfg.MaxFileSize,
		reader:        reader,
		validator:     NewValidator(cfg.MaxFileSize),
		inspector:     NewInspector(reader),
		search:        NewSearch(cfg.MaxFileSize),
		cache:         cfg.Cache,
		pathValidator: pathValidator,
		logger:        logger,
	}
	s.serverInfo = newServerInfo(s)
	return s, nil
}

// MaxFileSize returns the maximum file size limit
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// Directory returns the directory file access is confined to
func (s *Service) Directory() string {
	return s.pathValidator.ConfiguredDirectory()
}

// CacheEnabled reports whether parse results are cached
func (s *Service) CacheEnabled() bool {
	return s.cache != nil
}

// CacheStats returns lookup counters of the result cache, if one is configured
func (s *Service) CacheStats() (cache.Stats, bool) {
	if s.cache == nil {
		return cache.Stats{}, false
	}
	return s.cache.Stats(), true
}

func (s *Service) resolve(path string) (string, error) {
	resolved, err := s.pathValidator.Resolve(path)
	if err != nil {
		return "", fmt.Errorf("security validation failed: %w", err)
	}
	return resolved, nil
}

// ExtractSchedule reads a registration PDF from disk and parses its schedule
func (s *Service) ExtractSchedule(ctx context.Context, req ScheduleFileRequest) (*ScheduleResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}

	data, _, err := s.reader.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.extract(ctx, path, data, req.Refresh)
}

// ExtractScheduleBytes parses the schedule of an uploaded registration PDF.
// name is the client-supplied file name and may be empty.
func (s *Service) ExtractScheduleBytes(ctx context.Context, name string, data []byte) (*ScheduleResult, error) {
	if err := s.validator.ValidateUpload(name, data); err != nil {
		return nil, err
	}
	return s.extract(ctx, name, data, false)
}

// extract runs the pipeline on data. Results with unreadable pages are
// returned with Report.FailedPages set and are never cached.
func (s *Service) extract(ctx context.Context, path string, data []byte, refresh bool) (*ScheduleResult, error) {
	start := time.Now()
	parseID := uuid.NewString()
	log := s.logger.WithFields(logrus.Fields{
		"parse_id": parseID,
		"path":     path,
	})

	key := cache.Key(data)
	switch {
	case s.cache == nil:
	case refresh:
		if err := s.cache.Delete(key); err != nil {
			log.WithError(err).Warn("failed to drop cached schedule")
		}
	default:
		cached, ok, err := s.cache.Get(key)
		if err != nil {
			log.WithError(err).Warn("schedule cache lookup failed")
		} else if ok {
			log.WithField("courses", len(cached.Courses)).Info("served schedule from cache")
			return &ScheduleResult{Path: path, ParseID: parseID, Cached: true, Schedule: cached}, nil
		}
	}

	extracted, err := s.reader.ExtractPages(ctx, data)
	if err != nil {
		return nil, withPath(err, path)
	}
	pages := extracted.Pages

	text := schedule.Normalize(schedule.JoinPages(pages))
	parsed, report, err := schedule.NewParser(log).ParseWithReport(text)
	if err != nil {
		if len(extracted.Failed) > 0 {
			log = log.WithField("failed_pages", extracted.Failed)
		}
		log.WithError(err).Info("document has no schedule table")
		return nil, err
	}
	report.FailedPages = extracted.Failed

	switch {
	case !report.Complete():
		log.WithField("failed_pages", report.FailedPages).Warn("schedule is incomplete, not caching it")
	case s.cache != nil:
		if err := s.cache.Put(key, parsed); err != nil {
			log.WithError(err).Warn("failed to cache schedule")
		}
	}

	log.WithFields(logrus.Fields{
		"pages":    len(pages),
		"courses":  len(parsed.Courses),
		"meetings": parsed.MeetingCount(),
		"skipped":  len(report.SkippedRows),
		"duration": time.Since(start),
	}).Info("extracted schedule")

	return &ScheduleResult{
		Path:     path,
		Pages:    len(pages),
		ParseID:  parseID,
		Schedule: parsed,
		Report:   report,
	}, nil
}

// ParseText parses schedule text that was extracted elsewhere
func (s *Service) ParseText(text string) (*ScheduleResult, error) {
	parseID := uuid.NewString()
	log := s.logger.WithField("parse_id", parseID)

	parsed, report, err := schedule.NewParser(log).ParseWithReport(schedule.Normalize(text))
	if err != nil {
		return nil, err
	}

	log.WithField("courses", len(parsed.Courses)).Info("parsed schedule text")
	return &ScheduleResult{ParseID: parseID, Schedule: parsed, Report: report}, nil
}

// ReadText returns the page text of a PDF and the normalized parser input
func (s *Service) ReadText(ctx context.Context, req ReadTextRequest) (*ReadTextResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	req.Path = path
	return s.reader.ReadText(ctx, req)
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(req ValidateFileRequest) (*ValidateFileResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	req.Path = path
	return s.validator.ValidateFile(req)
}

// InspectFile returns structural details about a PDF file
func (s *Service) InspectFile(req InspectFileRequest) (*InspectFileResult, error) {
	path, err := s.resolve(req.Path)
	if err != nil {
		return nil, err
	}
	req.Path = path
	return s.inspector.InspectFile(req)
}

// SearchDirectory searches for PDF files, defaulting to the configured directory
func (s *Service) SearchDirectory(req SearchDirectoryRequest) (*SearchDirectoryResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.ConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.search.SearchDirectory(req)
}

// ServerInfo returns server information, usage guidance and the PDFs on hand
func (s *Service) ServerInfo(ctx context.Context, serverName, version string) (*ServerInfoResult, error) {
	return s.serverInfo.get(ctx, serverName, version)
}
