package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"accredapi/internal/model"
	"accredapi/internal/notify"
	"accredapi/internal/rbac"
	"accredapi/internal/repository"
	"accredapi/internal/storage"
)

const (
	DefaultListLimit = 10
	MaxListLimit     = 100
)

var (
	fileExtensions = map[string]bool{
		".pdf": true, ".doc": true, ".docx": true, ".xls": true, ".xlsx": true,
		".ppt": true, ".pptx": true, ".png": true, ".jpg": true, ".jpeg": true,
	}
	videoExtensions = map[string]bool{
		".mp4": true, ".mov": true, ".avi": true, ".webm": true, ".mkv": true,
	}
)

// Upload is one streamed artifact of a create request.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	Size        int64
}

// CreateInput describes a new document. Category is validated here, not by the caller.
type CreateInput struct {
	ProgramID   int64
	AreaID      int64
	ParameterID int64
	Category    string
	File        *Upload
	Video       *Upload
}

// ListQuery holds the optional filters and paging of a document listing.
type ListQuery struct {
	ProgramID   *int64
	AreaID      *int64
	ParameterID *int64
	Category    *model.Category
	Status      *model.Status
	UploaderID  *string
	Limit       int
	Offset      int
}

// Part selects which artifact of a document to stream.
type Part string

const (
	PartFile  Part = "file"
	PartVideo Part = "video"
)

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// DocumentOptions tune upload limits and URL lifetimes.
type DocumentOptions struct {
	MaxUploadBytes int64
	PresignTTL     time.Duration
}

// DocumentService defines the use cases for evidence documents.
type DocumentService interface {
	// Create stores the artifacts, then the row. Stored objects are removed if any later step fails.
	Create(ctx context.Context, actor model.Actor, in CreateInput) (*model.Document, error)

	// Get returns a single document with presigned attachment URLs.
	Get(ctx context.Context, id string) (*model.Document, error)

	// List returns matching documents newest first and the total match count.
	List(ctx context.Context, q ListQuery) (*DocumentListResult, error)

	// Open streams one stored artifact of a document.
	Open(ctx context.Context, id string, part Part) (io.ReadCloser, *model.Attachment, error)

	// Delete removes a pending document. Deleting a missing document succeeds.
	Delete(ctx context.Context, actor model.Actor, id string) error
}

type documentService struct {
	store    storage.Storage
	repo     repository.DocumentRepository
	taxonomy repository.TaxonomyRepository
	pub      notify.Publisher
	log      *slog.Logger
	opts     DocumentOptions
	signer   urlSigner
	now      func() time.Time
}

// NewDocumentService constructs a new DocumentService.
func NewDocumentService(
	store storage.Storage,
	repo repository.DocumentRepository,
	taxonomy repository.TaxonomyRepository,
	pub notify.Publisher,
	log *slog.Logger,
	opts DocumentOptions,
) DocumentService {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 15 * time.Minute
	}
	return &documentService{
		store:    store,
		repo:     repo,
		taxonomy: taxonomy,
		pub:      pub,
		log:      log.With("component", "document_service"),
		opts:     opts,
		signer:   urlSigner{store: store, ttl: opts.PresignTTL},
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *documentService) Create(ctx context.Context, actor model.Actor, in CreateInput) (*model.Document, error) {
	if !rbac.Can(actor.Role, rbac.ActionUpload) {
		return nil, forbidden("role may not upload documents")
	}

	fields := map[string]string{}
	category, ok := model.ParseCategory(in.Category)
	if !ok {
		fields["category"] = "must be one of system, implementation, outcomes"
	}
	if in.ProgramID <= 0 {
		fields["program_id"] = "is required"
	}
	if in.AreaID <= 0 {
		fields["area_id"] = "is required"
	}
	if in.ParameterID <= 0 {
		fields["parameter_id"] = "is required"
	}
	if in.File == nil && in.Video == nil {
		fields["file"] = "a file or a video is required"
	}
	s.checkUpload(fields, "file", in.File, fileExtensions)
	s.checkUpload(fields, "video", in.Video, videoExtensions)
	if len(fields) > 0 {
		return nil, validationError(fields)
	}

	if _, err := s.taxonomy.ResolveParameter(ctx, in.ProgramID, in.AreaID, in.ParameterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, validationError(map[string]string{
				"parameter_id": "parameter does not belong to the selected area and program",
			})
		}
		return nil, fmt.Errorf("resolve parameter: %w", err)
	}

	doc := &model.Document{
		ID:          uuid.NewString(),
		ProgramID:   in.ProgramID,
		AreaID:      in.AreaID,
		ParameterID: in.ParameterID,
		Category:    category,
		UploaderID:  actor.ID,
		Status:      model.StatusPending,
		CreatedAt:   s.now(),
	}

	var stored []string
	rollback := func() {
		for _, key := range stored {
			// The request context may already be cancelled; cleanup gets its own.
			cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
			if err := s.store.Delete(cctx, key); err != nil {
				s.log.Error("rollback delete failed", "document_id", doc.ID, "key", key, "error", err.Error())
			}
			cancel()
		}
	}

	for _, a := range []struct {
		up     *Upload
		prefix string
		dst    **model.Attachment
	}{
		{in.File, storage.PrefixDocuments, &doc.File},
		{in.Video, storage.PrefixVideos, &doc.Video},
	} {
		if a.up == nil {
			continue
		}
		att, err := s.put(ctx, a.prefix, a.up)
		if err != nil {
			rollback()
			return nil, storageError(err)
		}
		stored = append(stored, att.Path)
		*a.dst = att
	}

	created, err := s.repo.Create(ctx, doc)
	if err != nil {
		rollback()
		return nil, fmt.Errorf("db save failed: %w", err)
	}

	s.publish(ctx, model.EventCreated, "New document uploaded", created)

	if err := s.signer.sign(ctx, created); err != nil {
		s.log.Warn("presign after create failed", "document_id", created.ID, "error", err.Error())
	}
	return created, nil
}

func (s *documentService) checkUpload(fields map[string]string, name string, up *Upload, allowed map[string]bool) {
	if up == nil {
		return
	}
	ext := strings.ToLower(path.Ext(up.Filename))
	switch {
	case up.Reader == nil:
		fields[name] = "is unreadable"
	case !allowed[ext]:
		fields[name] = "unsupported file type " + quoteExt(ext)
	case up.Size <= 0:
		fields[name] = "is empty"
	case s.opts.MaxUploadBytes > 0 && up.Size > s.opts.MaxUploadBytes:
		fields[name] = fmt.Sprintf("exceeds the %d byte limit", s.opts.MaxUploadBytes)
	}
}

func quoteExt(ext string) string {
	if ext == "" {
		return "(none)"
	}
	return ext
}

func (s *documentService) put(ctx context.Context, prefix string, up *Upload) (*model.Attachment, error) {
	key := storage.NewKey(prefix, up.Filename)
	ct := up.ContentType
	if ct == "" || ct == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(path.Ext(up.Filename))); byExt != "" {
			ct = byExt
		} else if ct == "" {
			ct = "application/octet-stream"
		}
	}
	info, err := s.store.Put(ctx, key, up.Reader, storage.PutObjectOptions{
		Size:        up.Size,
		ContentType: ct,
		Metadata:    map[string]string{"original-filename": up.Filename},
	})
	if err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}
	size := info.Size
	if size <= 0 {
		size = up.Size
	}
	return &model.Attachment{Path: key, Name: up.Filename, ContentType: ct, Size: size}, nil
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.signer.sign(ctx, doc); err != nil {
		return nil, storageError(err)
	}
	return doc, nil
}

func (s *documentService) find(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, validationError(map[string]string{"id": "is required"})
	}
	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("document not found")
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return doc, nil
}

// List returns paginated documents without exposing repository types.
func (s *documentService) List(ctx context.Context, q ListQuery) (*DocumentListResult, error) {
	limit, offset := q.Limit, q.Offset
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	f := repository.DocumentFilter{
		ProgramID:   q.ProgramID,
		AreaID:      q.AreaID,
		ParameterID: q.ParameterID,
		Category:    q.Category,
		Status:      q.Status,
		UploaderID:  q.UploaderID,
	}
	res, err := s.repo.List(ctx, f, repository.PageQuery{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	for i := range res.Items {
		if err := s.signer.sign(ctx, &res.Items[i]); err != nil {
			return nil, storageError(err)
		}
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Open(ctx context.Context, id string, part Part) (io.ReadCloser, *model.Attachment, error) {
	doc, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	var att *model.Attachment
	switch part {
	case PartFile:
		att = doc.File
	case PartVideo:
		att = doc.Video
	default:
		return nil, nil, validationError(map[string]string{"part": "must be file or video"})
	}
	if att == nil {
		return nil, nil, notFound("document has no " + string(part))
	}

	rc, info, err := s.store.Get(ctx, att.Path)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, notFound("stored " + string(part) + " is missing")
		}
		return nil, nil, storageError(err)
	}
	if info.ContentType != "" {
		att.ContentType = info.ContentType
	}
	if info.Size > 0 {
		att.Size = info.Size
	}
	return rc, att, nil
}

func (s *documentService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if !rbac.Can(actor.Role, rbac.ActionDelete) {
		return forbidden("role may not delete documents")
	}
	if id == "" {
		return validationError(map[string]string{"id": "is required"})
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("find document: %w", err)
	}
	if actor.Role != model.RoleAdmin && doc.UploaderID != actor.ID {
		return forbidden("only the uploader or an admin may delete this document")
	}
	if doc.Status != model.StatusPending {
		return forbidden("decided documents cannot be deleted")
	}

	removed, err := s.repo.DeletePending(ctx, id)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("delete document: %w", err)
		}
		// Lost a race: either someone else deleted it or a reviewer decided it.
		if _, ferr := s.repo.FindByID(ctx, id); errors.Is(ferr, sql.ErrNoRows) {
			return nil
		}
		return forbidden("decided documents cannot be deleted")
	}

	for _, att := range []*model.Attachment{removed.File, removed.Video} {
		if att == nil {
			continue
		}
		if err := s.store.Delete(ctx, att.Path); err != nil {
			s.log.Error("orphaned object after delete", "document_id", id, "key", att.Path, "error", err.Error())
		}
	}

	s.publish(ctx, model.EventDeleted, "Document deleted", removed)
	return nil
}

func (s *documentService) publish(ctx context.Context, t model.EventType, msg string, doc *model.Document) {
	publishEvent(ctx, s.pub, s.log, model.Event{
		Type:       t,
		Message:    msg,
		Scope:      doc.Scope(),
		DocumentID: doc.ID,
		OccurredAt: s.now(),
	})
}

// publishEvent delivers e. Failures are logged, never returned.
func publishEvent(ctx context.Context, pub notify.Publisher, log *slog.Logger, e model.Event) {
	if pub == nil {
		return
	}
	if err := pub.Publish(ctx, e); err != nil {
		log.Warn("event publish failed", "event_type", string(e.Type), "document_id", e.DocumentID, "error", err.Error())
	}
}

// urlSigner fills attachment URLs with presigned GET links.
type urlSigner struct {
	store storage.Storage
	ttl   time.Duration
}

func (u urlSigner) sign(ctx context.Context, doc *model.Document) error {
	for _, att := range []*model.Attachment{doc.File, doc.Video} {
		if att == nil {
			continue
		}
		link, err := u.store.PresignGet(ctx, att.Path, u.ttl)
		if err != nil {
			return err
		}
		att.URL = link
	}
	return nil
}
