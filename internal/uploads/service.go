package uploads

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"
	"unicode"

	"github.com/gabriel-vasile/mimetype"

	"github.com/imobix/imobix/internal/auth"
	"github.com/imobix/imobix/internal/platform/blob"
	"github.com/imobix/imobix/internal/platform/httpx"
)

const sniffLen = 3072

var categoryPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,62}$`)

// Recorder schedules the follow-up metadata write for an artifact.
type Recorder interface {
	RecordUpload(ctx context.Context, rec Record) error
}

// Observer counts upload outcomes.
type Observer interface {
	ObserveUpload(category, outcome string)
}

// Service implements the upload resource.
type Service struct {
	store    blob.Store
	recorder Recorder
	observer Observer
	logger   *slog.Logger
	now      func() time.Time
}

// ServiceDeps groups Service collaborators. Recorder and Observer are optional.
type ServiceDeps struct {
	Store    blob.Store
	Recorder Recorder
	Observer Observer
	Logger   *slog.Logger
	Now      func() time.Time
}

// NewService constructs a Service.
func NewService(deps ServiceDeps) *Service {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Service{store: deps.Store, recorder: deps.Recorder, observer: deps.Observer, logger: deps.Logger, now: now}
}

// Key builds the storage key for an upload. Two uploads of the same filename
// in the same millisecond map to the same key.
func Key(category string, at time.Time, filename string) string {
	return fmt.Sprintf("%s/%d-%s", category, at.UnixMilli(), filename)
}

// Handle writes the file to blob storage with public visibility.
func (s *Service) Handle(ctx context.Context, principal auth.Principal, in Input) (Artifact, error) {
	if closer, ok := in.File.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}
	if err := ValidateFilename(in.Filename); err != nil {
		return Artifact{}, err
	}
	category, err := NormalizeCategory(in.Category)
	if err != nil {
		return Artifact{}, err
	}
	if in.File == nil {
		return Artifact{}, httpx.Validation(MsgFileMissing)
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(in.File, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		s.observe(category, "error")
		return Artifact{}, fmt.Errorf("uploads: read: %w", err)
	}
	head = head[:n]
	contentType := mimetype.Detect(head).String()

	uploadedAt := s.now()
	key := Key(category, uploadedAt, in.Filename)
	obj, err := s.store.Put(ctx, key, io.MultiReader(bytes.NewReader(head), in.File), blob.PutOptions{Public: true, ContentType: contentType})
	if err != nil {
		if errors.Is(err, blob.ErrInvalidKey) {
			s.observe(category, "rejected")
			return Artifact{}, httpx.Validation(MsgFilenameInvalid)
		}
		s.observe(category, "error")
		return Artifact{}, fmt.Errorf("uploads: put %s: %w", key, err)
	}

	artifact := Artifact{
		Key:         obj.Key,
		URL:         obj.URL,
		Pathname:    obj.Key,
		Filename:    in.Filename,
		Category:    category,
		ContentType: contentType,
		Size:        obj.Size,
		Public:      true,
		UploadedAt:  uploadedAt,
	}
	s.observe(category, "stored")
	s.logger.Info("upload stored",
		slog.String("key", artifact.Key),
		slog.Int64("size", artifact.Size),
		slog.Int64("user_id", principal.ID))

	if s.recorder != nil {
		if err := s.recorder.RecordUpload(ctx, Record{Artifact: artifact, UploadedBy: principal.ID}); err != nil {
			s.logger.Warn("schedule upload record", slog.String("key", artifact.Key), slog.Any("error", err))
		}
	}
	return artifact, nil
}

func (s *Service) observe(category, outcome string) {
	if s.observer != nil {
		s.observer.ObserveUpload(category, outcome)
	}
}

// ValidateFilename rejects empty names and names that could address another path.
func ValidateFilename(name string) error {
	if strings.TrimSpace(name) == "" {
		return httpx.Validation(MsgFilenameMissing)
	}
	if len(name) > 200 || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return httpx.Validation(MsgFilenameInvalid)
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return httpx.Validation(MsgFilenameInvalid)
		}
	}
	return nil
}

// NormalizeCategory applies the default and checks the allowed alphabet.
func NormalizeCategory(category string) (string, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return DefaultCategory, nil
	}
	if !categoryPattern.MatchString(category) {
		return "", httpx.Validation(MsgCategoryInvalid)
	}
	return category, nil
}
