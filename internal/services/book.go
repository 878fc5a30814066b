package services

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/poojapi/ullekhanam/internal/data/repos/entities"
	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/filestore"
	"github.com/poojapi/ullekhanam/internal/imaging"
	"github.com/poojapi/ullekhanam/internal/pkg/dbctx"
	apperr "github.com/poojapi/ullekhanam/internal/pkg/errors"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
)

// File names stored per page: the untouched upload plus derived
// variants for display and thumbnailing.
const (
	OriginalPrefix  = "original__"
	ContentFileName = "content.jpg"
	DisplayFileName = "content__resized_for_uniform_display.jpg"
	ThumbFileName   = "thumb.jpg"
)

var allowedExtensions = []string{".jpg", ".png", ".gif"}

// UploadedFile is one page scan received in a book upload.
type UploadedFile struct {
	Filename string
	Data     []byte
}

// BookService lists books and handles multi-file book uploads with
// compensating rollback when page files fail to persist.
type BookService interface {
	ListBooks(dbc dbctx.Context) ([]*domain.Entity, error)
	Upload(dbc dbctx.Context, book *domain.Entity, files []UploadedFile, actor *domain.Actor) (*domain.TreeNode, error)
}

type bookService struct {
	repo   entities.EntityRepo
	entity EntityService
	tree   TreeService
	files  filestore.Store
	log    *logger.Logger
}

func NewBookService(repo entities.EntityRepo, entity EntityService, tree TreeService, files filestore.Store, log *logger.Logger) BookService {
	return &bookService{
		repo:   repo,
		entity: entity,
		tree:   tree,
		files:  files,
		log:    log.With("service", "BookService"),
	}
}

func (s *bookService) ListBooks(dbc dbctx.Context) ([]*domain.Entity, error) {
	return s.repo.ListBooks(dbc)
}

func (s *bookService) Upload(dbc dbctx.Context, book *domain.Entity, files []UploadedFile, actor *domain.Actor) (*domain.TreeNode, error) {
	// Prevalidate everything we can before the first write.
	if book == nil || book.EntityType != domain.EntityTypeBookPortion || book.BaseData != domain.BaseDataImage {
		return nil, &apperr.SchemaValidationError{
			EntityType: entityType(book),
			Detail:     "only image books can be uploaded with this API",
		}
	}
	if book.Persisted() {
		return nil, fmt.Errorf("overwriting %s is not allowed: %w", book.ID, apperr.ErrInvalidArgument)
	}
	book.PortionClass = domain.PortionClassBook
	if err := domain.ValidateSchema(book); err != nil {
		return nil, err
	}
	for _, f := range files {
		name := SanitizeFilename(f.Filename)
		if !extensionAllowed(name) {
			return nil, &apperr.UnsupportedMediaError{Filename: name, Allowed: allowedExtensions}
		}
	}

	book, err := s.entity.Upsert(dbc, book, actor)
	if err != nil {
		return nil, err
	}

	created := []uuid.UUID{book.ID}
	if err := s.savePages(dbc, book, files, actor, &created); err != nil {
		s.rollback(dbc, created)
		return nil, err
	}

	return s.tree.Build(dbc, book, DefaultTargetterDepth, "")
}

func (s *bookService) savePages(dbc dbctx.Context, book *domain.Entity, files []UploadedFile, actor *domain.Actor, created *[]uuid.UUID) error {
	for i, f := range files {
		page := domain.NewPage(fmt.Sprintf("pg_%03d", i), book.ID, i)
		page, err := s.entity.Upsert(dbc, page, actor)
		if err != nil {
			return err
		}
		*created = append(*created, page.ID)

		if err := s.savePageFiles(dbc, page, f); err != nil {
			return err
		}
	}
	return nil
}

func (s *bookService) savePageFiles(dbc dbctx.Context, page *domain.Entity, f UploadedFile) error {
	dir := PathFor(page)
	name := SanitizeFilename(f.Filename)

	originalKey := dir + "/" + OriginalPrefix + name
	if err := s.files.Save(dbc.Ctx, originalKey, bytes.NewReader(f.Data)); err != nil {
		return &apperr.StorageWriteError{Path: originalKey, Cause: err}
	}

	img, err := imaging.Decode(f.Data)
	if err != nil {
		return &apperr.StorageWriteError{Path: originalKey, Cause: err}
	}

	content, err := imaging.EncodeJPEG(img)
	if err != nil {
		return &apperr.StorageWriteError{Path: dir + "/" + ContentFileName, Cause: err}
	}
	if err := s.files.Save(dbc.Ctx, dir+"/"+ContentFileName, bytes.NewReader(content)); err != nil {
		return &apperr.StorageWriteError{Path: dir + "/" + ContentFileName, Cause: err}
	}

	display, err := imaging.EncodeJPEG(imaging.Resize(img, imaging.DisplayWidth, imaging.DisplayHeight, false))
	if err != nil {
		return &apperr.StorageWriteError{Path: dir + "/" + DisplayFileName, Cause: err}
	}
	if err := s.files.Save(dbc.Ctx, dir+"/"+DisplayFileName, bytes.NewReader(display)); err != nil {
		return &apperr.StorageWriteError{Path: dir + "/" + DisplayFileName, Cause: err}
	}

	thumb, err := imaging.EncodeJPEG(imaging.Resize(img, imaging.ThumbSide, imaging.ThumbSide, true))
	if err != nil {
		return &apperr.StorageWriteError{Path: dir + "/" + ThumbFileName, Cause: err}
	}
	if err := s.files.Save(dbc.Ctx, dir+"/"+ThumbFileName, bytes.NewReader(thumb)); err != nil {
		return &apperr.StorageWriteError{Path: dir + "/" + ThumbFileName, Cause: err}
	}
	return nil
}

// rollback is best-effort compensation: the book tree created so far
// is removed so a failed upload leaves no residue.
func (s *bookService) rollback(dbc dbctx.Context, created []uuid.UUID) {
	s.log.Error("Rolling back and deleting the book!", "entity_count", len(created))
	if err := s.repo.FullDeleteByIDs(dbc, created); err != nil {
		s.log.Error("rollback delete failed", "error", err)
	}
	for _, id := range created {
		if err := s.files.DeletePrefix(dbc.Ctx, id.String()); err != nil {
			s.log.Warn("rollback file cleanup failed (ignored)", "entity_id", id, "error", err)
		}
	}
}

// PathFor returns the storage directory for an entity's files.
func PathFor(e *domain.Entity) string {
	return e.ID.String()
}

// SanitizeFilename strips any path components from an uploaded name.
func SanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := filepath.Base(name)
	if base == "." || base == "/" {
		return ""
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}

func extensionAllowed(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range allowedExtensions {
		if ext == allowed {
			return true
		}
	}
	return false
}

func entityType(e *domain.Entity) string {
	if e == nil {
		return ""
	}
	return e.EntityType
}
