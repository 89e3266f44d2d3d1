package handlers

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/GunarsK-portfolio/review-service/internal/repository"
	"github.com/gin-gonic/gin"
)

// maxPageSize caps the limit query parameter.
const maxPageSize = 100

// PageResponse is the envelope for paginated lists.
type PageResponse[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// pageParams reads limit and offset, falling back to defaultLimit.
func pageParams(c *gin.Context, defaultLimit int) (repository.Page, bool) {
	page := repository.Page{Limit: defaultLimit}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			RespondError(c, http.StatusBadRequest, "limit must be a positive integer")
			return page, false
		}
		page.Limit = min(limit, maxPageSize)
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			RespondError(c, http.StatusBadRequest, "offset must be a non-negative integer")
			return page, false
		}
		page.Offset = offset
	}
	return page, true
}

// newPage builds the envelope, linking neighbouring pages on the request URL.
func newPage[T any](c *gin.Context, results []T, total int64, page repository.Page) PageResponse[T] {
	if results == nil {
		results = []T{}
	}
	resp := PageResponse[T]{Count: total, Results: results}

	if int64(page.Offset+page.Limit) < total {
		resp.Next = pageURL(c, page.Limit, page.Offset+page.Limit)
	}
	if page.Offset > 0 {
		resp.Previous = pageURL(c, page.Limit, max(page.Offset-page.Limit, 0))
	}
	return resp
}

func pageURL(c *gin.Context, limit, offset int) *string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := c.GetHeader("X-Forwarded-Proto"); forwarded != "" {
		scheme = forwarded
	}

	query := c.Request.URL.Query()
	query.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		query.Set("offset", strconv.Itoa(offset))
	} else {
		query.Del("offset")
	}

	u := url.URL{
		Scheme:   scheme,
		Host:     c.Request.Host,
		Path:     c.Request.URL.Path,
		RawQuery: query.Encode(),
	}
	link := u.String()
	return &link
}
