package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/shelf-trivia-service/internal/model"
	"github.com/maxviazov/shelf-trivia-service/internal/service"
	"github.com/maxviazov/shelf-trivia-service/pkg/response"
)

type TriviaHandler struct {
	svc service.TriviaService
}

func NewTriviaHandler(svc service.TriviaService) *TriviaHandler { return &TriviaHandler{svc: svc} }

func (h *TriviaHandler) Register(r *gin.RouterGroup) {
	r.GET("/categories", h.categories)
	r.GET("/categories/:category_id/questions", h.listByCategory)

	g := r.Group(questionsPath)
	{
		g.GET("", h.list)
		g.POST("", h.create)
		g.POST("/search", h.search)
		g.PATCH("/:question_id", h.update)
		g.DELETE("/:question_id", h.delete)
	}

	r.POST("/quizzes", h.quiz)
}

// questionEnvelope is the question listing response. CurrentCategory is null outside
// category-scoped listings.
type questionEnvelope struct {
	Success         bool             `json:"success"`
	Created         int64            `json:"created,omitempty"`
	Updated         int64            `json:"updated,omitempty"`
	Deleted         int64            `json:"deleted,omitempty"`
	Question        *model.Question  `json:"question,omitempty"`
	Questions       []model.Question `json:"questions"`
	TotalQuestions  int              `json:"total_questions"`
	Categories      map[int64]string `json:"categories"`
	CurrentCategory *int64           `json:"current_category"`
	NextPage        string           `json:"next_page,omitempty"`
	PrevPage        string           `json:"prev_page,omitempty"`
}

func categoryMap(cats []model.Category) map[int64]string {
	m := make(map[int64]string, len(cats))
	for _, c := range cats {
		m[c.ID] = c.Type
	}
	return m
}

func listingEnvelope(l service.QuestionListing, base string) questionEnvelope {
	links := l.Page.Links(base)
	return questionEnvelope{
		Success:         true,
		Questions:       l.Page.Items,
		TotalQuestions:  l.Page.Total,
		Categories:      categoryMap(l.Categories),
		CurrentCategory: l.CurrentCategory,
		NextPage:        links.Next,
		PrevPage:        links.Prev,
	}
}

type createQuestionRequest struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   flexID `json:"category"`
	Difficulty int    `json:"difficulty"`
}

type updateQuestionRequest struct {
	Question   *string `json:"question"`
	Answer     *string `json:"answer"`
	Category   *flexID `json:"category"`
	Difficulty *int    `json:"difficulty"`
}

func (r updateQuestionRequest) patch() model.QuestionPatch {
	p := model.QuestionPatch{Question: r.Question, Answer: r.Answer, Difficulty: r.Difficulty}
	if r.Category != nil {
		id := int64(*r.Category)
		p.Category = &id
	}
	return p
}

type searchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

type quizRequest struct {
	PreviousQuestions []int64 `json:"previous_questions"`
	QuizCategory      struct {
		ID   flexID `json:"id"`
		Type string `json:"type"`
	} `json:"quiz_category"`
}

type quizResponse struct {
	Success  bool            `json:"success"`
	Question *model.Question `json:"question"`
}

func (h *TriviaHandler) categories(c *gin.Context) {
	cats, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, gin.H{"success": true, "categories": categoryMap(cats)})
}

func (h *TriviaHandler) list(c *gin.Context) {
	listing, err := h.svc.ListQuestions(c.Request.Context(), pageParam(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, listingEnvelope(listing, questionsPath))
}

func (h *TriviaHandler) listByCategory(c *gin.Context) {
	id, err := pathID(c, "category_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	listing, err := h.svc.ListQuestionsByCategory(c.Request.Context(), id, pageParam(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	base := fmt.Sprintf("/categories/%d/questions", id)
	response.WriteData(c, http.StatusOK, listingEnvelope(listing, base))
}

func (h *TriviaHandler) search(c *gin.Context) {
	var req searchRequest
	if err := bindJSON(c, &req); err != nil {
		response.WriteError(c, err)
		return
	}
	listing, err := h.svc.SearchQuestions(c.Request.Context(), req.SearchTerm, pageParam(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, listingEnvelope(listing, searchPath))
}

func (h *TriviaHandler) create(c *gin.Context) {
	var req createQuestionRequest
	if err := bindJSON(c, &req); err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.CreateQuestion(c.Request.Context(), service.NewQuestion{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   int64(req.Category),
		Difficulty: req.Difficulty,
	}, pageParam(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	out := listingEnvelope(res.Listing, questionsPath)
	out.Created = res.Question.ID
	response.WriteData(c, http.StatusCreated, out)
}

// update applies the declared mutable fields; id and unknown keys in the body are ignored.
func (h *TriviaHandler) update(c *gin.Context) {
	id, err := pathID(c, "question_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	var req updateQuestionRequest
	if err := bindJSON(c, &req); err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.UpdateQuestion(c.Request.Context(), id, req.patch(), pageParam(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	out := listingEnvelope(res.Listing, questionsPath)
	out.Updated = res.Question.ID
	out.Question = &res.Question
	response.WriteData(c, http.StatusOK, out)
}

func (h *TriviaHandler) delete(c *gin.Context) {
	id, err := pathID(c, "question_id")
	if err != nil {
		response.WriteError(c, err)
		return
	}
	res, err := h.svc.DeleteQuestion(c.Request.Context(), id, pageParam(c))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	out := listingEnvelope(res.Listing, questionsPath)
	out.Deleted = res.Question.ID
	response.WriteData(c, http.StatusOK, out)
}

// quiz returns the next unseen question of the selected category; category 0 means all.
func (h *TriviaHandler) quiz(c *gin.Context) {
	var req quizRequest
	if err := bindJSON(c, &req); err != nil {
		response.WriteError(c, err)
		return
	}
	q, err := h.svc.NextQuizQuestion(c.Request.Context(), int64(req.QuizCategory.ID), req.PreviousQuestions)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.WriteData(c, http.StatusOK, quizResponse{Success: true, Question: q})
}
