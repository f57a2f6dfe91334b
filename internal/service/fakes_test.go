package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/noah-isme/share2teach-api/internal/models"
	"github.com/noah-isme/share2teach-api/internal/repository"
	"github.com/noah-isme/share2teach-api/pkg/jobs"
	"github.com/noah-isme/share2teach-api/pkg/mailer"
	"github.com/noah-isme/share2teach-api/pkg/objectstore"
)

type fakeUserRepo struct {
	mu        sync.Mutex
	users     map[int64]*models.User
	nextID    int64
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (r *fakeUserRepo) add(u models.User) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = &u
	return &u
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user: %w", repository.ErrUniqueViolation)
		}
	}
	r.nextID++
	user.ID = r.nextID
	user.CreatedAt = time.Now()
	stored := *user
	r.users[user.ID] = &stored
	return nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) TokenState(_ context.Context, id int64) (*models.TokenState, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.TokenState{TokenVersion: u.TokenVersion, Role: u.Role}, nil
}

func (r *fakeUserRepo) UpdateLastLogin(_ context.Context, id int64, ts time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		u.LastLogin = &ts
	}
	return nil
}

func (r *fakeUserRepo) IncrementTokenVersion(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.TokenVersion++
	return nil
}

func (r *fakeUserRepo) SetResetToken(_ context.Context, id int64, digest string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.ResetPasswordToken = &digest
	u.ResetPasswordExpires = &expires
	return nil
}

func (r *fakeUserRepo) FindByResetToken(_ context.Context, digest string, now time.Time) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ResetPasswordToken != nil && *u.ResetPasswordToken == digest && u.ResetPasswordExpires.After(now) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (r *fakeUserRepo) ResetPassword(_ context.Context, id int64, digest, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok || u.ResetPasswordToken == nil || *u.ResetPasswordToken != digest {
		return sql.ErrNoRows
	}
	u.PasswordHash = passwordHash
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
	u.TokenVersion++
	return nil
}

func (r *fakeUserRepo) ClearExpiredResetTokens(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, u := range r.users {
		if u.ResetPasswordToken != nil && !u.ResetPasswordExpires.After(now) {
			u.ResetPasswordToken = nil
			u.ResetPasswordExpires = nil
			n++
		}
	}
	return n, nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id int64, role models.UserRole) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	u.Role = role
	cp := *u
	return &cp, nil
}

// fakeDocumentRepo keeps documents, ratings and moderation history in memory.
type fakeDocumentRepo struct {
	mu        sync.Mutex
	docs      map[int64]*models.Document
	nextID    int64
	ratings   map[int64]map[string]int
	history   []models.ModerationRecord
	createErr error
	updateErr error
	lastQuery *models.DocumentFilter
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: make(map[int64]*models.Document), ratings: make(map[int64]map[string]int)}
}

func (r *fakeDocumentRepo) Create(_ context.Context, in models.NewDocument) (*models.Document, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	uploader := in.UploadedBy
	now := time.Now().Add(time.Duration(r.nextID) * time.Millisecond)
	doc := &models.Document{
		ID: r.nextID, FileName: in.FileName, OriginalName: in.OriginalName, MimeType: in.MimeType,
		SubjectID: in.SubjectID, GradeID: in.GradeID, StoragePath: in.StoragePath, UploadedBy: &uploader,
		Status: models.DocumentPending, CreatedAt: now, UpdatedAt: now, Keywords: in.Keywords,
	}
	r.docs[doc.ID] = doc
	cp := *doc
	return &cp, nil
}

func (r *fakeDocumentRepo) List(ctx context.Context, approvedOnly bool) ([]models.Document, error) {
	f := models.DocumentFilter{}
	if approvedOnly {
		f.Status = models.DocumentApproved
	}
	return r.Search(ctx, f)
}

func (r *fakeDocumentRepo) Search(_ context.Context, f models.DocumentFilter) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastQuery = &f
	out := make([]models.Document, 0)
	for _, d := range r.docs {
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.FileName != "" && !strings.Contains(strings.ToLower(d.FileName), strings.ToLower(f.FileName)) {
			continue
		}
		if f.MinRating != nil && d.Rating < *f.MinRating {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeDocumentRepo) FindByID(_ context.Context, id int64) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) Update(_ context.Context, id int64, upd models.DocumentUpdate) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	if upd.FileName != nil {
		d.FileName = *upd.FileName
	}
	if upd.SubjectID != nil {
		d.SubjectID = upd.SubjectID
	}
	if upd.GradeID != nil {
		d.GradeID = upd.GradeID
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) UpdateStorage(_ context.Context, id int64, path, mime, name string) (*models.Document, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d.StoragePath, d.MimeType, d.FileName = path, mime, name
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) Delete(_ context.Context, id int64) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	delete(r.docs, id)
	delete(r.ratings, id)
	return d, nil
}

func (r *fakeDocumentRepo) Moderate(_ context.Context, rec models.ModerationRecord) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[rec.FileID]
	if !ok {
		return nil, fmt.Errorf("insert moderation history: %w", repository.ErrForeignKeyViolation)
	}
	r.history = append(r.history, rec)
	d.Status = rec.Action
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) Keywords(_ context.Context, id int64) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return append([]string(nil), d.Keywords...), nil
}

func (r *fakeDocumentRepo) History(_ context.Context, fileID int64) ([]models.ModerationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.ModerationRecord
	for i := len(r.history) - 1; i >= 0; i-- {
		if r.history[i].FileID == fileID {
			out = append(out, r.history[i])
		}
	}
	return out, nil
}

func (r *fakeDocumentRepo) Rate(_ context.Context, fileID int64, rater models.RaterIdentity, score int) (float64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[fileID]
	if !ok {
		return 0, sql.ErrNoRows
	}
	key := "s:" + rater.SessionID
	if rater.UserID != nil {
		key = fmt.Sprintf("u:%d", *rater.UserID)
	}
	if r.ratings[fileID] == nil {
		r.ratings[fileID] = make(map[string]int)
	}
	r.ratings[fileID][key] = score
	var sum int
	for _, v := range r.ratings[fileID] {
		sum += v
	}
	d.Rating = float64(sum) / float64(len(r.ratings[fileID]))
	return d.Rating, nil
}

// fakeStore is an in-memory objectstore.Store.
type fakeStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	putErr    error
	deleteErr error
	getErr    error
	deletes   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Put(_ context.Context, name, _ string, data []byte) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	url := "http://store.local/" + name
	s.objects[url] = append([]byte(nil), data...)
	return url, nil
}

func (s *fakeStore) Get(_ context.Context, url string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[url]
	if !ok {
		return nil, objectstore.ErrNotFound
	}
	return data, nil
}

func (s *fakeStore) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.objects[url]; !ok {
		return objectstore.ErrNotFound
	}
	delete(s.objects, url)
	return nil
}

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

type fakeMarker struct {
	applied int
	err     error
}

func (m *fakeMarker) Supports(mime string) bool {
	return mime != "application/msword"
}

func (m *fakeMarker) Apply(_ string, data []byte) ([]byte, error) {
	m.applied++
	if m.err != nil {
		return nil, m.err
	}
	return append(append([]byte(nil), data...), []byte("\nLICENSED")...), nil
}

type fakeMailer struct {
	sent []mailer.Message
	err  error
}

func (m *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type fakeActivity struct {
	mu      sync.Mutex
	entries []string
}

func (a *fakeActivity) Record(_ context.Context, _ *int64, activityType, _ string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, activityType)
}

type fakeQueue struct {
	jobs []jobs.Job
	err  error
}

func (q *fakeQueue) Enqueue(job jobs.Job) error {
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

var errBoom = errors.New("boom")
