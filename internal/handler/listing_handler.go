package handler

import (
	"net/http"
	"strconv"

	"github.com/MohdZaidRapid/BooksBackend/internal/domain"
	"github.com/MohdZaidRapid/BooksBackend/internal/repository"
	"github.com/MohdZaidRapid/BooksBackend/internal/services"
	"github.com/MohdZaidRapid/BooksBackend/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ListingHandler struct {
	listings *services.ListingService
}

func NewListingHandler(listings *services.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// Query serves the cached listing search. The filter/sort/paging params
// become the cache key, so identical requests share one cached shape.
func (h *ListingHandler) Query(c *gin.Context) {
	filters := make(map[string]string)
	for _, key := range []string{"author", "status", "listed_by", "title"} {
		if v := c.Query(key); v != "" {
			filters[key] = v
		}
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	books, err := h.listings.Query(c.Request.Context(), repository.ListingQuery{
		Filters:  filters,
		Sort:     c.DefaultQuery("sort", "newest"),
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(books))
}

func (h *ListingHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid book id", "INVALID_REQUEST"))
		return
	}

	book, err := h.listings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(book))
}

func (h *ListingHandler) Create(c *gin.Context) {
	var req httpdto.CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	book := domain.Book{
		Title:    req.Title,
		Author:   req.Author,
		Price:    req.Price,
		ListedBy: userID,
	}
	if err := h.listings.Create(c.Request.Context(), &book); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(book))
}

func (h *ListingHandler) Update(c *gin.Context) {
	var req httpdto.UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid book id", "INVALID_REQUEST"))
		return
	}

	book, err := h.listings.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if req.Title != "" {
		book.Title = req.Title
	}
	if req.Author != "" {
		book.Author = req.Author
	}
	if req.Price != 0 {
		book.Price = req.Price
	}
	if req.Status != "" {
		book.Status = req.Status
	}

	if err := h.listings.Update(c.Request.Context(), userID, book); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(book))
}

func (h *ListingHandler) Delete(c *gin.Context) {
	userID, ok := services.UserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid book id", "INVALID_REQUEST"))
		return
	}

	// Moderator removal arrives through the admin surface upstream; this
	// endpoint only ever deletes on behalf of the owner.
	if err := h.listings.Delete(c.Request.Context(), userID, id, false); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "listing deleted"}))
}
