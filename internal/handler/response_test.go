package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newTestContext() (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	return rec, e.NewContext(req, rec)
}

// 一覧レスポンスはdataの外側にpaginationを持つ
func TestOkPaginated_Envelope(t *testing.T) {
	rec, c := newTestContext()

	items := []map[string]string{{"order_code": "ORD-2026-001"}}
	err := okPaginated(c, items, newPagination(2, 10, 25))

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]json.RawMessage
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body, "success")
	assert.Contains(t, body, "message")
	assert.Contains(t, body, "data")
	assert.Contains(t, body, "pagination")

	var p Pagination
	assert.NoError(t, json.Unmarshal(body["pagination"], &p))
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, int64(25), p.Total)
	assert.Equal(t, 3, p.TotalPages)

	// ページングフィールドはdata側には混ざらない
	var data []map[string]string
	assert.NoError(t, json.Unmarshal(body["data"], &data))
	assert.Len(t, data, 1)
}

func TestNewPagination_TotalPages(t *testing.T) {
	cases := []struct {
		limit int
		total int64
		want  int
	}{
		{10, 0, 0},
		{10, 1, 1},
		{10, 10, 1},
		{10, 11, 2},
		{20, 100, 5},
		{0, 5, 0},
	}

	for _, tc := range cases {
		p := newPagination(1, tc.limit, tc.total)
		assert.Equal(t, tc.want, p.TotalPages)
	}
}
