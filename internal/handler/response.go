package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 全APIで共通のレスポンス形
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: "ok", Data: data})
}

func okMessage(c echo.Context, msg string, data interface{}) error {
	return c.JSON(http.StatusOK, Response{Success: true, Message: msg, Data: data})
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, Response{Success: false, Message: msg})
}

// 一覧系レスポンスのページング情報
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// 一覧系はdataと並べてpaginationを持つ
type PaginatedResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

func okPaginated(c echo.Context, data interface{}, p Pagination) error {
	return c.JSON(http.StatusOK, PaginatedResponse{
		Success:    true,
		Message:    "ok",
		Data:       data,
		Pagination: p,
	})
}

func newPagination(page int, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// usecaseのエラーをHTTPステータスに変換する
func writeError(c echo.Context, err error) error {
	if he, ok := usecase.AsHTTPError(err); ok {
		return fail(c, he.Status, he.Message)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return fail(c, http.StatusNotFound, "not found")
	}
	return fail(c, http.StatusInternalServerError, "internal error")
}

// middlewareがcontextに入れたuser_idを取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	raw := c.Get(middleware.CtxUserIDKey)
	userID, ok := raw.(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// clientIP はX-Forwarded-Forの先頭、無ければsocketのIPを返す。
func clientIP(c echo.Context) string {
	if xff := c.Request().Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	return c.RealIP()
}

// ?page= ?limit= をデフォルト込みで読む
func parsePageLimit(c echo.Context) (page int, limit int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	limit, _ = strconv.Atoi(c.QueryParam("limit"))
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 10
	}
	return page, limit
}
