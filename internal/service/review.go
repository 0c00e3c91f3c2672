package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"

	"accredapi/internal/model"
	"accredapi/internal/notify"
	"accredapi/internal/rbac"
	"accredapi/internal/repository"
	"accredapi/internal/storage"
)

// MaxCommentLength bounds a disapproval comment, in characters.
const MaxCommentLength = 2000

// DecideInput is a reviewer's decision on a pending document.
type DecideInput struct {
	Status  string
	Comment *string
}

// ReviewService moves documents through the review state machine.
type ReviewService interface {
	// Decide approves or disapproves a pending document. Decided documents are final.
	Decide(ctx context.Context, actor model.Actor, id string, in DecideInput) (*model.Document, error)
}

type reviewService struct {
	repo      repository.DocumentRepository
	pub       notify.Publisher
	log       *slog.Logger
	signer    urlSigner
	decisions *prometheus.CounterVec
	now       func() time.Time
}

// NewReviewService constructs a ReviewService and registers its decision counter on reg.
func NewReviewService(
	repo repository.DocumentRepository,
	store storage.Storage,
	pub notify.Publisher,
	log *slog.Logger,
	reg prometheus.Registerer,
	presignTTL time.Duration,
) (ReviewService, error) {
	decisions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "review_decisions_total",
			Help: "Total number of review decisions recorded, by resulting status.",
		},
		[]string{"status"},
	)
	if err := reg.Register(decisions); err != nil {
		return nil, err
	}
	if presignTTL <= 0 {
		presignTTL = 15 * time.Minute
	}
	return &reviewService{
		repo:      repo,
		pub:       pub,
		log:       log.With("component", "review_service"),
		signer:    urlSigner{store: store, ttl: presignTTL},
		decisions: decisions,
		now:       func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *reviewService) Decide(ctx context.Context, actor model.Actor, id string, in DecideInput) (*model.Document, error) {
	if !rbac.Can(actor.Role, rbac.ActionReview) {
		return nil, forbidden("role may not review documents")
	}

	next, ok := model.ParseStatus(in.Status)
	if !ok || !next.Terminal() {
		return nil, validationError(map[string]string{"status": "must be approved or disapproved"})
	}

	var comment *string
	if next == model.StatusDisapproved && in.Comment != nil {
		c := strings.TrimSpace(*in.Comment)
		if utf8.RuneCountInString(c) > MaxCommentLength {
			return nil, validationError(map[string]string{
				"comment": fmt.Sprintf("must be at most %d characters", MaxCommentLength),
			})
		}
		if c != "" {
			comment = &c
		}
	}

	doc, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("document not found")
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	if !doc.Status.CanTransition(next) {
		return nil, invalidTransition("document is already " + string(doc.Status))
	}

	updated, err := s.repo.Decide(ctx, id, model.Decision{
		Status:     next,
		ReviewerID: actor.ID,
		DecidedAt:  s.now(),
		Comment:    comment,
	})
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("record decision: %w", err)
		}
		// The guarded update matched nothing: the row was decided or deleted meanwhile.
		current, ferr := s.repo.FindByID(ctx, id)
		if errors.Is(ferr, sql.ErrNoRows) {
			return nil, notFound("document not found")
		}
		if ferr != nil {
			return nil, fmt.Errorf("find document: %w", ferr)
		}
		return nil, invalidTransition("document is already " + string(current.Status))
	}

	s.decisions.WithLabelValues(string(next)).Inc()
	s.log.Info("document decided", "document_id", id, "status", string(next), "reviewer_id", actor.ID)

	publishEvent(ctx, s.pub, s.log, model.Event{
		Type:       model.EventUpdated,
		Message:    "Document " + string(next),
		Scope:      updated.Scope(),
		DocumentID: updated.ID,
		OccurredAt: s.now(),
	})

	if err := s.signer.sign(ctx, updated); err != nil {
		s.log.Warn("presign after decision failed", "document_id", id, "error", err.Error())
	}
	return updated, nil
}
