package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"accredapi/internal/logging"
	"accredapi/internal/model"
	repoMocks "accredapi/internal/repository/mocks"
	"accredapi/internal/storage"
)

func strPtr(s string) *string { return &s }

func TestReviewService_Decide(t *testing.T) {
	ctx := context.Background()

	pendingDoc := &model.Document{ID: "doc-1", ProgramID: 1, AreaID: 2, ParameterID: 3, Category: model.CategorySystem, Status: model.StatusPending}
	decided := func(st model.Status, comment *string) *model.Document {
		d := *pendingDoc
		d.Status = st
		d.ReviewerID = strPtr("r-1")
		d.Comment = comment
		return &d
	}

	tests := []struct {
		name       string
		actor      model.Actor
		input      DecideInput
		setupMocks func(mRepo *repoMocks.MockDocumentRepository)
		wantErr    error
		wantStatus model.Status
		wantEvents int
	}{
		{
			name:  "approve",
			actor: reviewer,
			input: DecideInput{Status: "approved", Comment: strPtr("ignored on approval")},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(pendingDoc, nil)
				mRepo.On("Decide", ctx, "doc-1", mock.MatchedBy(func(d model.Decision) bool {
					return d.Status == model.StatusApproved && d.ReviewerID == "r-1" && d.Comment == nil && !d.DecidedAt.IsZero()
				})).Return(decided(model.StatusApproved, nil), nil)
			},
			wantStatus: model.StatusApproved,
			wantEvents: 1,
		},
		{
			name:  "disapprove with trimmed comment",
			actor: admin,
			input: DecideInput{Status: "disapproved", Comment: strPtr("  missing signature  ")},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(pendingDoc, nil)
				mRepo.On("Decide", ctx, "doc-1", mock.MatchedBy(func(d model.Decision) bool {
					return d.Comment != nil && *d.Comment == "missing signature"
				})).Return(decided(model.StatusDisapproved, strPtr("missing signature")), nil)
			},
			wantStatus: model.StatusDisapproved,
			wantEvents: 1,
		},
		{
			name:       "uploader may not review",
			actor:      uploader,
			input:      DecideInput{Status: "approved"},
			setupMocks: func(*repoMocks.MockDocumentRepository) {},
			wantErr:    ErrForbidden,
		},
		{
			name:       "pending is not a decision",
			actor:      reviewer,
			input:      DecideInput{Status: "pending"},
			setupMocks: func(*repoMocks.MockDocumentRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name:       "comment too long",
			actor:      reviewer,
			input:      DecideInput{Status: "disapproved", Comment: strPtr(strings.Repeat("é", MaxCommentLength+1))},
			setupMocks: func(*repoMocks.MockDocumentRepository) {},
			wantErr:    ErrValidation,
		},
		{
			name:  "missing document",
			actor: reviewer,
			input: DecideInput{Status: "approved"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(nil, sql.ErrNoRows)
			},
			wantErr: ErrNotFound,
		},
		{
			name:  "already decided",
			actor: reviewer,
			input: DecideInput{Status: "disapproved"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(decided(model.StatusApproved, nil), nil)
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name:  "lost race to another reviewer",
			actor: reviewer,
			input: DecideInput{Status: "approved"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(pendingDoc, nil).Once()
				mRepo.On("Decide", ctx, "doc-1", mock.Anything).Return(nil, sql.ErrNoRows)
				mRepo.On("FindByID", ctx, "doc-1").Return(decided(model.StatusDisapproved, nil), nil).Once()
			},
			wantErr: ErrInvalidTransition,
		},
		{
			name:  "deleted before the update",
			actor: reviewer,
			input: DecideInput{Status: "approved"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(pendingDoc, nil).Once()
				mRepo.On("Decide", ctx, "doc-1", mock.Anything).Return(nil, sql.ErrNoRows)
				mRepo.On("FindByID", ctx, "doc-1").Return(nil, sql.ErrNoRows).Once()
			},
			wantErr: ErrNotFound,
		},
		{
			name:  "repository failure",
			actor: reviewer,
			input: DecideInput{Status: "approved"},
			setupMocks: func(mRepo *repoMocks.MockDocumentRepository) {
				mRepo.On("FindByID", ctx, "doc-1").Return(pendingDoc, nil)
				mRepo.On("Decide", ctx, "doc-1", mock.Anything).Return(nil, errors.New("db fail"))
			},
			wantErr: errors.New("db fail"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mRepo := new(repoMocks.MockDocumentRepository)
			pub := &recorder{}
			reg := prometheus.NewRegistry()
			svc, err := NewReviewService(mRepo, storage.NewMemory("http://objects"), pub, logging.Discard(), reg, time.Minute)
			require.NoError(t, err)

			tt.setupMocks(mRepo)

			doc, err := svc.Decide(ctx, tt.actor, "doc-1", tt.input)

			if tt.wantErr != nil {
				if KindOf(tt.wantErr) != "" {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.ErrorContains(t, err, tt.wantErr.Error())
				}
				assert.Nil(t, doc)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantStatus, doc.Status)
			}
			require.Len(t, pub.events, tt.wantEvents)
			if tt.wantEvents > 0 {
				assert.Equal(t, model.EventUpdated, pub.events[0].Type)
				assert.Equal(t, model.Scope{ProgramID: 1, AreaID: 2, ParameterID: 3, Category: model.CategorySystem}, pub.events[0].Scope)
			}
			mRepo.AssertExpectations(t)
		})
	}
}

func TestReviewService_PublishFailureIsNotReturned(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	pub := &recorder{err: errors.New("redis down")}
	reg := prometheus.NewRegistry()
	svc, err := NewReviewService(mRepo, storage.NewMemory("http://objects"), pub, logging.Discard(), reg, time.Minute)
	require.NoError(t, err)

	mRepo.On("FindByID", ctx, "doc-1").Return(&model.Document{ID: "doc-1", Status: model.StatusPending}, nil)
	mRepo.On("Decide", ctx, "doc-1", mock.Anything).Return(&model.Document{ID: "doc-1", Status: model.StatusApproved}, nil)

	doc, err := svc.Decide(ctx, reviewer, "doc-1", DecideInput{Status: "approved"})

	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, doc.Status)
	assert.Len(t, pub.events, 1)
}

func TestReviewService_DecisionMetric(t *testing.T) {
	ctx := context.Background()
	mRepo := new(repoMocks.MockDocumentRepository)
	reg := prometheus.NewRegistry()
	svc, err := NewReviewService(mRepo, storage.NewMemory("http://objects"), &recorder{}, logging.Discard(), reg, time.Minute)
	require.NoError(t, err)

	mRepo.On("FindByID", ctx, mock.Anything).Return(&model.Document{Status: model.StatusPending}, nil)
	mRepo.On("Decide", ctx, mock.Anything, mock.Anything).Return(&model.Document{Status: model.StatusDisapproved}, nil)

	_, err = svc.Decide(ctx, reviewer, "doc-1", DecideInput{Status: "disapproved"})
	require.NoError(t, err)
	_, err = svc.Decide(ctx, reviewer, "doc-2", DecideInput{Status: "disapproved"})
	require.NoError(t, err)

	count, err := testutil.GatherAndCount(reg, "review_decisions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, 2.0, testutil.ToFloat64(svc.(*reviewService).decisions.WithLabelValues("disapproved")))

	_, err = NewReviewService(mRepo, nil, nil, logging.Discard(), reg, 0)
	assert.Error(t, err, "registering the counter twice on one registry must fail")
}
