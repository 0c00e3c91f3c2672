package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"accredapi/internal/auth"
	"accredapi/internal/http/middleware"
	"accredapi/internal/logging"
	"accredapi/internal/model"
	"accredapi/internal/service"
	serviceMocks "accredapi/internal/service/mocks"
)

var (
	uploader = model.Actor{ID: "uploader-1", Role: model.RoleUploader}
	reviewer = model.Actor{ID: "reviewer-1", Role: model.RoleReviewer}
)

// newApp mirrors main: global ErrorHandler and request ids, plus a fixed actor when given.
func newApp(actor *model.Actor) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Use(middleware.RequestID())
	if actor != nil {
		a := *actor
		app.Use(func(c *fiber.Ctx) error {
			middleware.SetActor(c, a)
			return c.Next()
		})
	}
	return app
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestHealthCheck(t *testing.T) {
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	defer db.Close()

	app := fiber.New()
	app.Get("/health", HealthCheck(db))

	t.Run("healthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, _ := app.Test(req)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestListDocuments(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp(&reviewer)
	app.Get("/documents", ListDocuments(mockSvc, logging.Discard()))

	t.Run("success", func(t *testing.T) {
		expectedRes := &service.DocumentListResult{
			Items: []model.Document{{ID: uuid.New().String(), Status: model.StatusPending}},
			Total: 1,
		}
		mockSvc.On("List", mock.Anything, service.ListQuery{Limit: 10, Offset: 0}).Return(expectedRes, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents?limit=10&offset=0", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		mockSvc.AssertExpectations(t)
	})

	t.Run("filters are forwarded", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, mock.MatchedBy(func(q service.ListQuery) bool {
			return q.Status != nil && *q.Status == model.StatusPending &&
				q.ProgramID != nil && *q.ProgramID == 1 &&
				q.AreaID != nil && *q.AreaID == 2 &&
				q.ParameterID == nil &&
				q.Category != nil && *q.Category == model.CategoryOutcomes &&
				q.UploaderID != nil && *q.UploaderID == "uploader-1" &&
				q.Limit == 20 && q.Offset == 40
		})).Return(&service.DocumentListResult{Items: []model.Document{}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet,
			"/documents?status=pending&program=1&area=2&category=outcomes&uploader=uploader-1&limit=20&offset=40", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents?limit=abc", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_QUERY", decodeError(t, resp).Error.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents?status=archived&offset=-1", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_FAILED", body.Error.Code)
		assert.Contains(t, body.Error.Details, "status")
		assert.Contains(t, body.Error.Details, "offset")
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc.On("List", mock.Anything, service.ListQuery{}).Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "INTERNAL_ERROR", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})
}

type formFile struct {
	field, name, content string
}

func multipartBody(t *testing.T, fields map[string]string, files ...formFile) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	for _, f := range files {
		part, err := writer.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		part.Write([]byte(f.content))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

var uploadFields = map[string]string{
	"program_id":   "1",
	"area_id":      "2",
	"parameter_id": "3",
	"category":     "system",
}

func TestUploadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp(&uploader)
	app.Post("/documents", UploadDocument(mockSvc, logging.Discard()))

	t.Run("success", func(t *testing.T) {
		body, ct := multipartBody(t, uploadFields,
			formFile{"file", "report.pdf", "%PDF-1.4"},
			formFile{"video", "walkthrough.mp4", "video-bytes"},
		)

		expectedDoc := &model.Document{ID: uuid.New().String(), Status: model.StatusPending}
		mockSvc.On("Create", mock.Anything, uploader, mock.MatchedBy(func(in service.CreateInput) bool {
			return in.ProgramID == 1 && in.AreaID == 2 && in.ParameterID == 3 &&
				in.Category == "system" &&
				in.File != nil && in.File.Filename == "report.pdf" && in.File.Size == 8 &&
				in.Video != nil && in.Video.Filename == "walkthrough.mp4"
		})).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expectedDoc.ID, result.ID)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_FORM", decodeError(t, resp).Error.Code)
	})

	t.Run("missing classification", func(t *testing.T) {
		body, ct := multipartBody(t, nil, formFile{"file", "report.pdf", "%PDF"})

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "VALIDATION_FAILED", res.Error.Code)
		assert.Equal(t, "is required", res.Error.Details["program_id"])
		assert.Equal(t, "is required", res.Error.Details["category"])
	})

	t.Run("service validation details are returned", func(t *testing.T) {
		body, ct := multipartBody(t, uploadFields)

		mockSvc.On("Create", mock.Anything, uploader, mock.MatchedBy(func(in service.CreateInput) bool {
			return in.File == nil && in.Video == nil
		})).Return(nil, &service.Error{
			Kind:    service.KindValidation,
			Message: "validation failed",
			Fields:  map[string]string{"file": "a file or a video is required"},
		}).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "a file or a video is required", res.Error.Details["file"])
		mockSvc.AssertExpectations(t)
	})

	t.Run("storage failure", func(t *testing.T) {
		body, ct := multipartBody(t, uploadFields, formFile{"file", "report.pdf", "%PDF"})

		mockSvc.On("Create", mock.Anything, uploader, mock.Anything).
			Return(nil, &service.Error{Kind: service.KindStorage, Message: "storage temporarily unavailable, try again"}).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		res := decodeError(t, resp)
		assert.Equal(t, "STORAGE_UNAVAILABLE", res.Error.Code)
		assert.Equal(t, "storage temporarily unavailable, try again", res.Error.Message)
		mockSvc.AssertExpectations(t)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		anon := newApp(nil)
		anon.Post("/documents", UploadDocument(mockSvc, logging.Discard()))

		body, ct := multipartBody(t, uploadFields, formFile{"file", "report.pdf", "%PDF"})
		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", ct)
		resp, _ := anon.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", decodeError(t, resp).Error.Code)
	})
}

func TestGetDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp(&reviewer)
	app.Get("/documents/:id", GetDocument(mockSvc, logging.Discard()))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		expectedDoc := &model.Document{
			ID:   id,
			File: &model.Attachment{Name: "report.pdf", URL: "http://blob/documents/x.pdf"},
		}
		mockSvc.On("Get", mock.Anything, id).Return(expectedDoc, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		require.NotNil(t, result.File)
		assert.Equal(t, "http://blob/documents/x.pdf", result.File.URL)
		mockSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).
			Return(nil, &service.Error{Kind: service.KindNotFound, Message: "document not found"}).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/documents/invalid-uuid", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Get", mock.Anything, id).Return(nil, errors.New("db error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "internal server error", body.Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestDownloadDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp(&reviewer)
	app.Get("/documents/:id/content", DownloadDocument(mockSvc, logging.Discard()))

	t.Run("file by default", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Open", mock.Anything, id, service.PartFile).Return(
			io.NopCloser(strings.NewReader("%PDF-1.4")),
			&model.Attachment{Name: "report.pdf", ContentType: "application/pdf", Size: 8},
			nil,
		).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id+"/content", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.Contains(t, resp.Header.Get("Content-Disposition"), `filename="report.pdf"`)
		data, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "%PDF-1.4", string(data))
		mockSvc.AssertExpectations(t)
	})

	t.Run("video part", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Open", mock.Anything, id, service.PartVideo).Return(
			io.NopCloser(strings.NewReader("frames")),
			&model.Attachment{Name: "walkthrough.mp4", ContentType: "video/mp4", Size: 6},
			nil,
		).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id+"/content?part=video", nil))

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "video/mp4", resp.Header.Get("Content-Type"))
		mockSvc.AssertExpectations(t)
	})

	t.Run("no such part", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Open", mock.Anything, id, service.PartVideo).
			Return(nil, nil, &service.Error{Kind: service.KindNotFound, Message: "document has no video"}).Once()

		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id+"/content?part=video", nil))

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "document has no video", decodeError(t, resp).Error.Message)
		mockSvc.AssertExpectations(t)
	})
}

func TestDeleteDocument(t *testing.T) {
	mockSvc := new(serviceMocks.MockDocumentService)
	app := newApp(&uploader)
	app.Delete("/documents/:id", DeleteDocument(mockSvc, logging.Discard()))

	t.Run("success", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, uploader, id).Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})

	t.Run("decided document", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, uploader, id).
			Return(&service.Error{Kind: service.KindForbidden, Message: "decided documents cannot be deleted"}).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", decodeError(t, resp).Error.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodDelete, "/documents/42", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("service error", func(t *testing.T) {
		id := uuid.New().String()
		mockSvc.On("Delete", mock.Anything, uploader, id).Return(errors.New("delete error")).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		mockSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	app := fiber.New(fiber.Config{
		ErrorHandler: ErrorHandler(),
	})
	app.Use(middleware.RequestID())

	secret := []byte("routing-secret")
	aggSvc := new(serviceMocks.MockAggregateService)
	RegisterRoutes(app, Deps{
		Documents:  new(serviceMocks.MockDocumentService),
		Reviews:    new(serviceMocks.MockReviewService),
		Aggregates: aggSvc,
		Auth:       middleware.Authenticate(secret, "accredapi"),
	})

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		// Health endpoint only allows GET
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})

	t.Run("guarded route without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/counts", nil)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		body := decodeError(t, resp)
		assert.Equal(t, "UNAUTHORIZED", body.Error.Code)
		assert.Equal(t, "missing bearer token", body.Error.Message)
	})

	t.Run("guarded route with token", func(t *testing.T) {
		token, err := auth.IssueToken(secret, "accredapi", reviewer, time.Hour)
		require.NoError(t, err)
		aggSvc.On("Counts", mock.Anything, model.Scope{}).Return(model.StatusCounts{Pending: 2}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/counts", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, _ := app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var counts model.StatusCounts
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&counts))
		assert.Equal(t, 2, counts.Pending)
		aggSvc.AssertExpectations(t)
	})

	t.Run("events route absent without subscriber", func(t *testing.T) {
		resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/events", nil))
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
