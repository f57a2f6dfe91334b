package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/share2teach-api/internal/models"
)

var documentRowColumns = []string{"file_id", "file_name", "original_name", "mime_type", "subject_id", "subject_name", "grade_id", "grade_name", "rating", "storage_path", "uploaded_by", "status", "created_at", "updated_at"}

var fileRowColumns = []string{"file_id", "file_name", "original_name", "mime_type", "subject_id", "grade_id", "rating", "storage_path", "uploaded_by", "status", "created_at", "updated_at"}

func TestBuildDocumentWhereEmpty(t *testing.T) {
	where, args := buildDocumentWhere(models.DocumentFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildDocumentWhereCombinesFilters(t *testing.T) {
	minRating := 3.5
	uploader := int64(2)
	where, args := buildDocumentWhere(models.DocumentFilter{
		FileName:   "algebra",
		Subject:    "4",
		Grade:      "Grade 10",
		MinRating:  &minRating,
		UploadedBy: &uploader,
		Status:     models.DocumentApproved,
		Keywords:   []string{"math"},
	})

	assert.Equal(t, " WHERE f.file_name ILIKE $1 AND f.subject_id = $2 AND g.grade_name ILIKE $3 AND f.rating >= $4 AND f.uploaded_by = $5 AND f.status = $6 AND f.file_id IN (SELECT fk.file_id FROM file_keywords fk JOIN keywords k ON k.keyword_id = fk.keyword_id WHERE k.keyword ILIKE ANY($7))", where)
	require.Len(t, args, 7)
	assert.Equal(t, "%algebra%", args[0])
	assert.Equal(t, int64(4), args[1])
	assert.Equal(t, "Grade 10", args[2])
	assert.Equal(t, 3.5, args[3])
	assert.Equal(t, int64(2), args[4])
	assert.Equal(t, "approved", args[5])
}

func TestBuildDocumentWhereKeepsInjectionInArguments(t *testing.T) {
	where, args := buildDocumentWhere(models.DocumentFilter{FileName: "x'; DROP TABLE files; --"})
	assert.Equal(t, " WHERE f.file_name ILIKE $1", where)
	assert.Equal(t, []interface{}{"%x'; DROP TABLE files; --%"}, args)
}

func TestDocumentRepositoryListApprovedOnly(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	rows := sqlmock.NewRows(documentRowColumns).
		AddRow(1, "Algebra.pdf", "algebra.pdf", "application/pdf", 1, "Maths", 2, "Grade 10", 4.5, "http://store/1", 3, "approved", now, now)
	mock.ExpectQuery("(?s)" + regexp.QuoteMeta("FROM files f") + ".*" + regexp.QuoteMeta("WHERE f.status = $1 ORDER BY f.created_at DESC")).
		WithArgs("approved").
		WillReturnRows(rows)

	docs, err := NewDocumentRepository(db).List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "Maths", *docs[0].SubjectName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE f.file_id = $1")).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(documentRowColumns))

	_, err := NewDocumentRepository(db).FindByID(context.Background(), 99)
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestDocumentRepositoryKeywords(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("JOIN file_keywords fk ON fk.keyword_id = k.keyword_id WHERE fk.file_id = $1")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"keyword"}).AddRow("algebra").AddRow("grade10"))

	keywords, err := NewDocumentRepository(db).Keywords(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"algebra", "grade10"}, keywords)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryCreateLinksKeywords(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO files")).
		WillReturnRows(sqlmock.NewRows(fileRowColumns).
			AddRow(10, "notes.pdf", "notes.pdf", "application/pdf", nil, nil, 0, "http://store/10", 1, "pending", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO keywords")).
		WithArgs("math").
		WillReturnRows(sqlmock.NewRows([]string{"keyword_id"}).AddRow(5))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO file_keywords")).
		WithArgs(int64(10), int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	doc, err := NewDocumentRepository(db).Create(context.Background(), models.NewDocument{
		FileName:     "notes.pdf",
		OriginalName: "notes.pdf",
		MimeType:     "application/pdf",
		StoragePath:  "http://store/10",
		UploadedBy:   1,
		Keywords:     []string{"math"},
	})
	require.NoError(t, err)
	require.Equal(t, models.DocumentPending, doc.Status)
	require.Equal(t, []string{"math"}, doc.Keywords)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryCreateRollsBackOnKeywordFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO files")).
		WillReturnRows(sqlmock.NewRows(fileRowColumns).
			AddRow(10, "notes.pdf", "notes.pdf", "application/pdf", nil, nil, 0, "http://store/10", 1, "pending", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO keywords")).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	_, err := NewDocumentRepository(db).Create(context.Background(), models.NewDocument{FileName: "notes.pdf", Keywords: []string{"math"}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentRepositoryCreateUnknownSubject(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO files")).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "files_subject_id_fkey"})
	mock.ExpectRollback()

	_, err := NewDocumentRepository(db).Create(context.Background(), models.NewDocument{FileName: "notes.pdf"})
	require.ErrorIs(t, err, ErrForeignKeyViolation)
}

func TestDocumentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM files WHERE file_id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows(fileRowColumns).
			AddRow(10, "notes.pdf", "notes.pdf", "application/pdf", nil, nil, 0, "http://store/10", 1, "approved", now, now))

	doc, err := NewDocumentRepository(db).Delete(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, "http://store/10", doc.StoragePath)
}

func TestSplitKeywords(t *testing.T) {
	assert.Equal(t, []string{"math", "algebra"}, SplitKeywords(" Math, algebra,,math , "))
	assert.Nil(t, SplitKeywords(""))
}
