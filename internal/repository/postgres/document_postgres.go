package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"accredapi/internal/model"
	"accredapi/internal/repository"
)

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type DocumentPostgres struct {
	db *sql.DB
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db *sql.DB) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

const documentColumns = `id, program_id, area_id, parameter_id, category, uploader_id,
		file_path, file_name, file_content_type, file_size,
		video_path, video_name, video_content_type, video_size,
		status, reviewer_id, decided_at, comment, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*model.Document, error) {
	var (
		d                               model.Document
		category, status                string
		filePath, fileName, fileType    sql.NullString
		videoPath, videoName, videoType sql.NullString
		fileSize, videoSize             sql.NullInt64
		reviewerID, comment             sql.NullString
		decidedAt                       sql.NullTime
	)
	if err := row.Scan(
		&d.ID, &d.ProgramID, &d.AreaID, &d.ParameterID, &category, &d.UploaderID,
		&filePath, &fileName, &fileType, &fileSize,
		&videoPath, &videoName, &videoType, &videoSize,
		&status, &reviewerID, &decidedAt, &comment, &d.CreatedAt,
	); err != nil {
		return nil, err
	}
	d.Category = model.Category(category)
	d.Status = model.Status(status)
	if filePath.Valid {
		d.File = &model.Attachment{Path: filePath.String, Name: fileName.String, ContentType: fileType.String, Size: fileSize.Int64}
	}
	if videoPath.Valid {
		d.Video = &model.Attachment{Path: videoPath.String, Name: videoName.String, ContentType: videoType.String, Size: videoSize.Int64}
	}
	if reviewerID.Valid {
		d.ReviewerID = &reviewerID.String
	}
	if decidedAt.Valid {
		t := decidedAt.Time
		d.DecidedAt = &t
	}
	if comment.Valid {
		d.Comment = &comment.String
	}
	return &d, nil
}

func attachmentArgs(a *model.Attachment) (path, name, contentType sql.NullString, size sql.NullInt64) {
	if a == nil {
		return
	}
	return sql.NullString{String: a.Path, Valid: true},
		sql.NullString{String: a.Name, Valid: true},
		sql.NullString{String: a.ContentType, Valid: true},
		sql.NullInt64{Int64: a.Size, Valid: true}
}

// whereClause renders f as " WHERE ..." with positional args starting at $1.
func whereClause(f repository.DocumentFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	add := func(col string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if f.ProgramID != nil {
		add("program_id", *f.ProgramID)
	}
	if f.AreaID != nil {
		add("area_id", *f.AreaID)
	}
	if f.ParameterID != nil {
		add("parameter_id", *f.ParameterID)
	}
	if f.Category != nil {
		add("category", string(*f.Category))
	}
	if f.Status != nil {
		add("status", string(*f.Status))
	}
	if f.UploaderID != nil {
		add("uploader_id", *f.UploaderID)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, program_id, area_id, parameter_id, category, uploader_id,
			file_path, file_name, file_content_type, file_size,
			video_path, video_name, video_content_type, video_size,
			status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING ` + documentColumns
	fPath, fName, fType, fSize := attachmentArgs(doc.File)
	vPath, vName, vType, vSize := attachmentArgs(doc.Video)
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.ProgramID,
		doc.AreaID,
		doc.ParameterID,
		string(doc.Category),
		doc.UploaderID,
		fPath, fName, fType, fSize,
		vPath, vName, vType, vSize,
		string(doc.Status),
		doc.CreatedAt,
	)
	return scanDocument(row)
}

// FindByID fetches a single document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents WHERE id = $1`
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// List returns documents using LIMIT/OFFSET pagination and a total count.
func (r *DocumentPostgres) List(ctx context.Context, f repository.DocumentFilter, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	where, args := whereClause(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	qList := `SELECT ` + documentColumns + ` FROM documents` + where +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, qList, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{
		Items: items,
		Total: total,
	}, nil
}

// Decide records a review decision with a status-guarded update.
func (r *DocumentPostgres) Decide(ctx context.Context, id string, d model.Decision) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET status = $2, reviewer_id = $3, decided_at = $4, comment = $5
		WHERE id = $1 AND status = 'pending'
		RETURNING ` + documentColumns
	var comment sql.NullString
	if d.Comment != nil {
		comment = sql.NullString{String: *d.Comment, Valid: true}
	}
	row := r.db.QueryRowContext(ctx, q, id, string(d.Status), d.ReviewerID, d.DecidedAt, comment)
	return scanDocument(row)
}

// DeletePending removes a still-pending document and returns the removed row.
func (r *DocumentPostgres) DeletePending(ctx context.Context, id string) (*model.Document, error) {
	const q = `DELETE FROM documents WHERE id = $1 AND status = 'pending' RETURNING ` + documentColumns
	return scanDocument(r.db.QueryRowContext(ctx, q, id))
}

// CountByStatus returns per-status totals of the documents matching f.
func (r *DocumentPostgres) CountByStatus(ctx context.Context, f repository.DocumentFilter) (model.StatusCounts, error) {
	where, args := whereClause(f)
	q := `SELECT status, COUNT(*) FROM documents` + where + ` GROUP BY status`

	var counts model.StatusCounts
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return counts, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return counts, err
		}
		counts.Add(model.Status(status), n)
	}
	return counts, rows.Err()
}

// GroupCounts returns per-status totals grouped at the requested hierarchy level.
func (r *DocumentPostgres) GroupCounts(ctx context.Context, by repository.GroupBy, f repository.DocumentFilter) ([]repository.GroupCount, error) {
	var keys string
	switch by {
	case repository.GroupByProgram:
		keys = "program_id"
	case repository.GroupByArea:
		keys = "program_id, area_id"
	case repository.GroupByParameter:
		keys = "program_id, area_id, parameter_id, category"
	default:
		return nil, fmt.Errorf("unsupported grouping %q", by)
	}

	where, args := whereClause(f)
	q := `SELECT ` + keys + `,
			COUNT(*) FILTER (WHERE status = 'pending'),
			COUNT(*) FILTER (WHERE status = 'approved'),
			COUNT(*) FILTER (WHERE status = 'disapproved')
		FROM documents` + where + `
		GROUP BY ` + keys + `
		ORDER BY ` + keys

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]repository.GroupCount, 0)
	for rows.Next() {
		var (
			g        repository.GroupCount
			category string
			dest     []any
		)
		switch by {
		case repository.GroupByProgram:
			dest = []any{&g.ProgramID}
		case repository.GroupByArea:
			dest = []any{&g.ProgramID, &g.AreaID}
		case repository.GroupByParameter:
			dest = []any{&g.ProgramID, &g.AreaID, &g.ParameterID, &category}
		}
		dest = append(dest, &g.Pending, &g.Approved, &g.Disapproved)
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		g.Category = model.Category(category)
		out = append(out, g)
	}
	return out, rows.Err()
}
