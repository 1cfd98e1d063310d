package repository

import (
	"database/sql"

	"notemart-api/models"

	"github.com/lib/pq"
)

type NotesRepository struct {
	db *sql.DB
}

func NewNotesRepository(db *sql.DB) *NotesRepository {
	return &NotesRepository{db: db}
}

// noteColumns selects a note joined with its uploader profile and the
// viewer-specific flags. Placeholder $1 is always the viewer id so the flags
// are resolved in the same round trip as the row itself.
const noteColumns = `
	n.id, n.uploader_id, n.title, n.description, n.subject, n.class, n.board, n.topic,
	n.file_type, n.file_id, n.thumbnail_id,
	p.name, p.avatar, p.is_verified,
	n.likes, n.dislikes, n.downloads, n.views, n.ad_clicks, n.earnings,
	EXISTS(SELECT 1 FROM reactions re WHERE re.note_id = n.id AND re.user_id = $1 AND re.kind = 'like'),
	EXISTS(SELECT 1 FROM reactions re WHERE re.note_id = n.id AND re.user_id = $1 AND re.kind = 'dislike'),
	EXISTS(SELECT 1 FROM bookmarks b WHERE b.note_id = n.id AND b.user_id = $1),
	n.created_at, n.modified_at`

const noteFrom = `
	FROM notes n
	JOIN profiles p ON p.user_id = n.uploader_id`

func scanNote(s interface{ Scan(...interface{}) error }) (*models.Note, error) {
	var n models.Note
	err := s.Scan(
		&n.ID, &n.UploaderID, &n.Title, &n.Description, &n.Subject, &n.Class, &n.Board, &n.Topic,
		&n.FileType, &n.FileID, &n.ThumbnailID,
		&n.UploaderName, &n.UploaderAvatar, &n.UploaderVerified,
		&n.Likes, &n.Dislikes, &n.Downloads, &n.Views, &n.AdClicks, &n.Earnings,
		&n.IsLiked, &n.IsDisliked, &n.IsBookmarked,
		&n.CreatedAt, &n.ModifiedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

type NoteInput struct {
	Title       string
	Description string
	Subject     string
	Class       string
	Board       string
	Topic       string
	FileType    string
	FileID      string
	ThumbnailID string
}

func (r *NotesRepository) CreateNote(uploaderID int, in NoteInput) (*models.Note, error) {
	var noteID int
	err := r.db.QueryRow(`
		INSERT INTO notes (uploader_id, title, description, subject, class, board, topic,
		                   file_type, file_id, thumbnail_id, created_at, modified_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
		RETURNING id`,
		uploaderID, in.Title, in.Description, in.Subject, in.Class, in.Board, in.Topic,
		in.FileType, in.FileID, in.ThumbnailID).Scan(&noteID)
	if err != nil {
		return nil, err
	}
	return r.GetNoteByID(noteID, uploaderID)
}

func (r *NotesRepository) GetNoteByID(id, viewerID int) (*models.Note, error) {
	row := r.db.QueryRow(`SELECT `+noteColumns+noteFrom+` WHERE n.id = $2`, viewerID, id)
	note, err := scanNote(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return note, nil
}

func (r *NotesRepository) queryNotes(query string, args ...interface{}) ([]*models.Note, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]*models.Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

// GetNotes lists notes newest-first with optional classification filters.
func (r *NotesRepository) GetNotes(viewerID int, f models.NoteFilters) ([]*models.Note, int, error) {
	where := ` WHERE ($2::text IS NULL OR n.subject = $2)
	             AND ($3::text IS NULL OR n.class = $3)
	             AND ($4::text IS NULL OR n.board = $4)
	             AND ($5::text IS NULL OR n.topic = $5)
	             AND ($6::text IS NULL OR n.title ILIKE '%' || $6 || '%')`

	offset := (f.Page - 1) * f.PageSize
	notes, err := r.queryNotes(`SELECT `+noteColumns+noteFrom+where+`
		ORDER BY n.created_at DESC
		LIMIT $7 OFFSET $8`,
		viewerID, f.Subject, f.Class, f.Board, f.Topic, f.Search, f.PageSize, offset)
	if err != nil {
		return nil, 0, err
	}

	var total int
	err = r.db.QueryRow(`
		SELECT COUNT(*) FROM notes n
		WHERE ($1::text IS NULL OR n.subject = $1)
		  AND ($2::text IS NULL OR n.class = $2)
		  AND ($3::text IS NULL OR n.board = $3)
		  AND ($4::text IS NULL OR n.topic = $4)
		  AND ($5::text IS NULL OR n.title ILIKE '%' || $5 || '%')`,
		f.Subject, f.Class, f.Board, f.Topic, f.Search).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

// GetTrendingNotes ranks by weighted engagement over the last 30 days. The
// Redis zset is the fast path; this is the authoritative fallback.
func (r *NotesRepository) GetTrendingNotes(viewerID, limit int) ([]*models.Note, error) {
	return r.queryNotes(`SELECT `+noteColumns+noteFrom+`
		WHERE n.created_at > NOW() - INTERVAL '30 days'
		ORDER BY (n.likes * 3 + n.downloads * 2 + n.views) DESC, n.created_at DESC
		LIMIT $2`, viewerID, limit)
}

// GetNotesByIDs returns the given notes in the order of ids (trending cache path).
func (r *NotesRepository) GetNotesByIDs(viewerID int, ids []int) ([]*models.Note, error) {
	if len(ids) == 0 {
		return []*models.Note{}, nil
	}
	notes, err := r.queryNotes(`SELECT `+noteColumns+noteFrom+`
		WHERE n.id = ANY($2)`, viewerID, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	byID := make(map[int]*models.Note, len(notes))
	for _, n := range notes {
		byID[n.ID] = n
	}
	ordered := make([]*models.Note, 0, len(ids))
	for _, id := range ids {
		if n, ok := byID[id]; ok {
			ordered = append(ordered, n)
		}
	}
	return ordered, nil
}

// GetRecommendedNotes matches the viewer's interest list against note subjects.
func (r *NotesRepository) GetRecommendedNotes(viewerID int, interests []string, page, pageSize int) ([]*models.Note, error) {
	if len(interests) == 0 {
		return []*models.Note{}, nil
	}
	offset := (page - 1) * pageSize
	return r.queryNotes(`SELECT `+noteColumns+noteFrom+`
		WHERE n.subject = ANY($2) AND n.uploader_id <> $1
		ORDER BY n.created_at DESC
		LIMIT $3 OFFSET $4`, viewerID, pq.Array(interests), pageSize, offset)
}

func (r *NotesRepository) GetBookmarkedNotes(viewerID, page, pageSize int) ([]*models.Note, int, error) {
	offset := (page - 1) * pageSize
	notes, err := r.queryNotes(`SELECT `+noteColumns+noteFrom+`
		JOIN bookmarks bm ON bm.note_id = n.id AND bm.user_id = $1
		ORDER BY bm.created_at DESC
		LIMIT $2 OFFSET $3`, viewerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	var total int
	err = r.db.QueryRow(`SELECT COUNT(*) FROM bookmarks WHERE user_id = $1`, viewerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (r *NotesRepository) GetDownloadedNotes(viewerID, page, pageSize int) ([]*models.Note, int, error) {
	offset := (page - 1) * pageSize
	notes, err := r.queryNotes(`SELECT `+noteColumns+noteFrom+`
		JOIN downloads d ON d.note_id = n.id AND d.user_id = $1
		ORDER BY d.created_at DESC
		LIMIT $2 OFFSET $3`, viewerID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	var total int
	err = r.db.QueryRow(`SELECT COUNT(*) FROM downloads WHERE user_id = $1`, viewerID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

func (r *NotesRepository) GetNotesByUploader(viewerID, uploaderID, page, pageSize int) ([]*models.Note, int, error) {
	offset := (page - 1) * pageSize
	notes, err := r.queryNotes(`SELECT `+noteColumns+noteFrom+`
		WHERE n.uploader_id = $2
		ORDER BY n.created_at DESC
		LIMIT $3 OFFSET $4`, viewerID, uploaderID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	var total int
	err = r.db.QueryRow(`SELECT COUNT(*) FROM notes WHERE uploader_id = $1`, uploaderID).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return notes, total, nil
}

// DeleteNote removes the note and its dependent engagement rows in one
// transaction, scoped to the owner. Returns false when no owned row matched,
// leaving everything untouched.
func (r *NotesRepository) DeleteNote(id, ownerID int) (bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var exists bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM notes WHERE id = $1 AND uploader_id = $2)`,
		id, ownerID).Scan(&exists)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, nil
	}

	for _, stmt := range []string{
		`DELETE FROM bookmarks WHERE note_id = $1`,
		`DELETE FROM reactions WHERE note_id = $1`,
		`DELETE FROM downloads WHERE note_id = $1`,
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			return false, err
		}
	}

	res, err := tx.Exec(`DELETE FROM notes WHERE id = $1 AND uploader_id = $2`, id, ownerID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}
	return true, tx.Commit()
}

// AddViews flushes batched view counts from the cache into the table.
func (r *NotesRepository) AddViews(noteID, delta int) error {
	_, err := r.db.Exec(`UPDATE notes SET views = views + $1 WHERE id = $2`, delta, noteID)
	return err
}
