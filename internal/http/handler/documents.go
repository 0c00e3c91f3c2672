package handler

import (
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"accredapi/internal/http/middleware"
	"accredapi/internal/model"
	"accredapi/internal/service"
)

type uploadRequest struct {
	ProgramID   int64  `form:"program_id" validate:"required,gt=0"`
	AreaID      int64  `form:"area_id" validate:"required,gt=0"`
	ParameterID int64  `form:"parameter_id" validate:"required,gt=0"`
	Category    string `form:"category" validate:"required"`
}

type listRequest struct {
	Status    string `query:"status" validate:"omitempty,oneof=pending approved disapproved"`
	Category  string `query:"category" validate:"omitempty,oneof=system implementation outcomes"`
	Uploader  string `query:"uploader" validate:"omitempty,max=128"`
	Program   int64  `query:"program" validate:"gte=0"`
	Area      int64  `query:"area" validate:"gte=0"`
	Parameter int64  `query:"parameter" validate:"gte=0"`
	Limit     int    `query:"limit" validate:"gte=0"`
	Offset    int    `query:"offset" validate:"gte=0"`
}

// actorFrom returns the authenticated caller or a 401 for the global ErrorHandler.
func actorFrom(c *fiber.Ctx) (model.Actor, error) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		return model.Actor{}, fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	return actor, nil
}

// documentID reads :id and reports whether it is a well-formed uuid.
func documentID(c *fiber.Ctx) (string, bool) {
	id := c.Params("id")
	if _, err := uuid.Parse(id); err != nil {
		return "", false
	}
	return id, true
}

// ListDocuments godoc
// @Summary List documents
// @Tags documents
// @Produce json
// @Param status query string false "pending, approved or disapproved"
// @Param program query int false "program id"
// @Param area query int false "area id"
// @Param parameter query int false "parameter id"
// @Param category query string false "system, implementation or outcomes"
// @Param uploader query string false "uploader id"
// @Param limit query int false "page size (default 10, max 100)"
// @Param offset query int false "rows to skip"
// @Success 200 {object} service.DocumentListResult
// @Router /documents [get]
func ListDocuments(svc service.DocumentService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req listRequest
		if err := c.QueryParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_QUERY", "invalid query parameters")
		}
		if details := validateStruct(req); details != nil {
			return writeErrorDetails(c, fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", "validation failed", details)
		}

		q := service.ListQuery{Limit: req.Limit, Offset: req.Offset}
		if req.Program > 0 {
			q.ProgramID = &req.Program
		}
		if req.Area > 0 {
			q.AreaID = &req.Area
		}
		if req.Parameter > 0 {
			q.ParameterID = &req.Parameter
		}
		if req.Status != "" {
			st := model.Status(req.Status)
			q.Status = &st
		}
		if req.Category != "" {
			cat := model.Category(req.Category)
			q.Category = &cat
		}
		if req.Uploader != "" {
			q.UploaderID = &req.Uploader
		}

		res, err := svc.List(c.UserContext(), q)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(res)
	}
}

// UploadDocument godoc
// @Summary Upload evidence
// @Description multipart/form-data with a file, a video or both.
// @Tags documents
// @Accept mpfd
// @Produce json
// @Param file formData file false "document (pdf, office, image)"
// @Param video formData file false "video"
// @Param program_id formData int true "program id"
// @Param area_id formData int true "area id"
// @Param parameter_id formData int true "parameter id"
// @Param category formData string true "system, implementation or outcomes"
// @Success 201 {object} model.Document
// @Failure 422 {object} errorPayload
// @Router /documents [post]
func UploadDocument(svc service.DocumentService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}

		form, err := c.MultipartForm()
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "multipart/form-data body expected")
		}
		var req uploadRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_FORM", "malformed form fields")
		}
		if details := validateStruct(req); details != nil {
			return writeErrorDetails(c, fiber.StatusUnprocessableEntity, "VALIDATION_FAILED", "validation failed", details)
		}

		in := service.CreateInput{
			ProgramID:   req.ProgramID,
			AreaID:      req.AreaID,
			ParameterID: req.ParameterID,
			Category:    req.Category,
		}
		for _, field := range []string{"file", "video"} {
			fh := firstFile(form, field)
			if fh == nil {
				continue
			}
			f, err := fh.Open()
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "FILE_OPEN_ERROR", "cannot open uploaded "+field)
			}
			defer f.Close()

			up := &service.Upload{
				Reader:      f,
				Filename:    fh.Filename,
				ContentType: fh.Header.Get(fiber.HeaderContentType),
				Size:        fh.Size,
			}
			if field == "file" {
				in.File = up
			} else {
				in.Video = up
			}
		}

		doc, err := svc.Create(c.UserContext(), actor, in)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.Status(fiber.StatusCreated).JSON(doc)
	}
}

func firstFile(form *multipart.Form, field string) *multipart.FileHeader {
	if form == nil || len(form.File[field]) == 0 {
		return nil
	}
	return form.File[field][0]
}

// GetDocument godoc
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param id path string true "document id"
// @Success 200 {object} model.Document
// @Failure 400 {object} errorPayload
// @Failure 404 {object} errorPayload
// @Router /documents/{id} [get]
func GetDocument(svc service.DocumentService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		doc, err := svc.Get(c.UserContext(), id)
		if err != nil {
			return writeServiceError(c, log, err)
		}
		return c.JSON(doc)
	}
}

// DownloadDocument godoc
// @Summary Stream a stored artifact
// @Tags documents
// @Produce octet-stream
// @Param id path string true "document id"
// @Param part query string false "file (default) or video"
// @Success 200 {file} binary
// @Failure 404 {object} errorPayload
// @Router /documents/{id}/content [get]
func DownloadDocument(svc service.DocumentService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		part := service.Part(c.Query("part", string(service.PartFile)))

		rc, att, err := svc.Open(c.UserContext(), id, part)
		if err != nil {
			return writeServiceError(c, log, err)
		}

		ct := att.ContentType
		if ct == "" {
			ct = fiber.MIMEOctetStream
		}
		c.Set(fiber.HeaderContentType, ct)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%q", att.Name))

		size := -1
		if att.Size > 0 {
			size = int(att.Size)
		}
		// fasthttp closes rc once the body has been written.
		return c.SendStream(rc, size)
	}
}

// DeleteDocument godoc
// @Summary Delete a pending document
// @Description Succeeds when the document does not exist.
// @Tags documents
// @Param id path string true "document id"
// @Success 204
// @Failure 403 {object} errorPayload
// @Router /documents/{id} [delete]
func DeleteDocument(svc service.DocumentService, log *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, err := actorFrom(c)
		if err != nil {
			return err
		}
		id, ok := documentID(c)
		if !ok {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}
		if err := svc.Delete(c.UserContext(), actor, id); err != nil {
			return writeServiceError(c, log, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
