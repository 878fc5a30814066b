package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/poojapi/ullekhanam/internal/domain"
	"github.com/poojapi/ullekhanam/internal/http/response"
	"github.com/poojapi/ullekhanam/internal/pkg/ctxutil"
	"github.com/poojapi/ullekhanam/internal/pkg/dbctx"
	"github.com/poojapi/ullekhanam/internal/pkg/logger"
	"github.com/poojapi/ullekhanam/internal/services"
)

const defaultUploadMemory = 32 << 20

type BookHandler struct {
	log             *logger.Logger
	books           services.BookService
	maxUploadMemory int64
}

func NewBookHandler(log *logger.Logger, books services.BookService, maxUploadMemory int64) *BookHandler {
	if maxUploadMemory <= 0 {
		maxUploadMemory = defaultUploadMemory
	}
	return &BookHandler{
		log:             log.With("handler", "BookHandler"),
		books:           books,
		maxUploadMemory: maxUploadMemory,
	}
}

// GET /api/v1/books
func (h *BookHandler) List(c *gin.Context) {
	dbc := dbctx.Context{Ctx: c.Request.Context()}
	books, err := h.books.ListBooks(dbc)
	if err != nil {
		respondAppError(c, err)
		return
	}
	response.RespondOK(c, books)
}

// POST /api/v1/books
//
// Multipart upload: a "book_json" form field describing the book plus
// one "in_files" part per page image. Responds with the book tree
// including the created pages.
func (h *BookHandler) Upload(c *gin.Context) {
	actor := actorFrom(c)
	if actor == nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	if err := c.Request.ParseMultipartForm(h.maxUploadMemory); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_multipart_form", err)
		return
	}

	bookJSON := c.Request.FormValue("book_json")
	if bookJSON == "" {
		response.RespondError(c, http.StatusBadRequest, "missing_book_json", nil)
		return
	}
	var book domain.Entity
	if err := json.Unmarshal([]byte(bookJSON), &book); err != nil {
		response.RespondError(c, statusSchemaValidation, "schema_validation_failed", err)
		return
	}
	if book.Persisted() {
		response.RespondError(c, http.StatusMethodNotAllowed, "book_already_exists", nil)
		return
	}

	var files []services.UploadedFile
	if form := c.Request.MultipartForm; form != nil {
		for _, fh := range form.File["in_files"] {
			f, err := fh.Open()
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
				return
			}
			data, err := io.ReadAll(f)
			_ = f.Close()
			if err != nil {
				response.RespondError(c, http.StatusBadRequest, "unreadable_file", err)
				return
			}
			files = append(files, services.UploadedFile{Filename: fh.Filename, Data: data})
		}
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	tree, err := h.books.Upload(dbc, &book, files, actor)
	if err != nil {
		h.log.Error("book upload failed", "error", err)
		respondAppError(c, err)
		return
	}
	response.RespondOK(c, tree)
}

func actorFrom(c *gin.Context) *domain.Actor {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil {
		return nil
	}
	return &domain.Actor{ID: rd.UserID, Email: rd.Email}
}
