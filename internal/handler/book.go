package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/paging"
	"github.com/maxviazov/shelf-trivia-service/internal/service"
	"github.com/maxviazov/shelf-trivia-service/pkg/response"
)

type BookHandler struct {
	svc service.BookService
}

func NewBookHandler(svc service.BookService) *BookHandler { return &BookHandler{svc: svc} }

func (h *BookHandler) Register(r *gin.RouterGroup) {
	g := r.Group(booksPath)
	{
		g.GET("", h.list)
		g.POST("", h.create)
		g.PATCH("/:book_id", h.updateRating)
		g.DELETE("/:book_id", h.delete)
	}
}

// bookEnvelope is the shelf response. Mutation fields are set only by the matching verb.
type bookEnvelope struct {
	Success    bool         `json:"success"`
	Created    int64        `json:"created,omitempty"`
	Updated    int64        `json:"updated,omitempty"`
	Deleted    int64        `json:"deleted,omitempty"`
	Book       *model.Book  `json:"book,omitempty"`
	Books      []model.Book `json:"books"`
	TotalBooks int          `json:"total_books"`
	NextPage   string       `json:"next_page,omitempty"`
	PrevPage   string       `json:"prev_page,omitempty"`
}

func shelfEnvelope(p paging.Page[model.Book]) bookEnvelope {
	links := p.Links(booksPath)
	return bookEnvelope{
		Success:    true,
		Books:      p.Items,
		TotalBooks: p.Total,
		NextPage:   links.Next,
		PrevPage:   links.Prev,
	}
}

type createBookRequest struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	Rating *int   `json:"rating"`
}

type updateRatingRequest struct {
	Rating *int `json:"rating"`
}

func (h *BookHandler) list(c *gin.Context) {
	shelf, err := h.svc.ListBooks(c.Request.Context(), pageParam(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, shelfEnvelope(shelf))
}

func (h *BookHandler) create(c *gin.Context) {
	var req createBookRequest
	if err := bindJSON(c, &req); err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.CreateBook(c.Request.Context(), service.NewBook(req), pageParam(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	out := shelfEnvelope(res.Shelf)
	out.Created = res.Book.ID
	response.WriteData(c, http.StatusCreated, out)
}

// updateRating only reads the rating; other fields in the body are ignored.
func (h *BookHandler) updateRating(c *gin.Context) {
	id, err := pathID(c, "book_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	var req updateRatingRequest
	if err := bindJSON(c, &req); err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.UpdateRating(c.Request.Context(), id, req.Rating, pageParam(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	out := shelfEnvelope(res.Shelf)
	out.Updated = res.Book.ID
	out.Book = &res.Book
	response.WriteData(c, http.StatusOK, out)
}

func (h *BookHandler) delete(c *gin.Context) {
	id, err := pathID(c, "book_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.DeleteBook(c.Request.Context(), id, pageParam(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	out := shelfEnvelope(res.Shelf)
	out.Deleted = res.Book.ID
	response.WriteData(c, http.StatusOK, out)
}
