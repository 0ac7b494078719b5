package util

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(url string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", url, nil)
	return c
}

func TestParsePage(t *testing.T) {
	cases := []struct {
		url      string
		page     int
		pageSize int
	}{
		{"/?page=2&pageSize=50", 2, 50},
		{"/", 1, 20},
		{"/?page=0&pageSize=0", 1, 20},
		{"/?page=-1&pageSize=-5", 1, 20},
		{"/?page=abc&pageSize=xyz", 1, 20},
	}
	for _, tc := range cases {
		page, pageSize := ParsePage(testContext(tc.url), 20)
		if page != tc.page || pageSize != tc.pageSize {
			t.Errorf("ParsePage(%q) = (%d, %d), want (%d, %d)",
				tc.url, page, pageSize, tc.page, tc.pageSize)
		}
	}
}

func TestParseID(t *testing.T) {
	c := testContext("/")
	c.Params = gin.Params{{Key: "id", Value: "42"}}
	if got := ParseID(c, "id"); got != 42 {
		t.Errorf("ParseID = %d, want 42", got)
	}

	for _, bad := range []string{"", "0", "-3", "abc"} {
		c.Params = gin.Params{{Key: "id", Value: bad}}
		if got := ParseID(c, "id"); got != 0 {
			t.Errorf("ParseID(%q) = %d, want 0", bad, got)
		}
	}
}

func TestParseQueryUint(t *testing.T) {
	if v := ParseQueryUint(testContext("/?unit_id=7"), "unit_id"); v == nil || *v != 7 {
		t.Errorf("ParseQueryUint = %v, want 7", v)
	}
	if v := ParseQueryUint(testContext("/"), "unit_id"); v != nil {
		t.Errorf("ParseQueryUint(missing) = %v, want nil", v)
	}
	if v := ParseQueryUint(testContext("/?unit_id=abc"), "unit_id"); v != nil {
		t.Errorf("ParseQueryUint(invalid) = %v, want nil", v)
	}
}

func TestPickFields(t *testing.T) {
	body := map[string]interface{}{
		"name":     "测试",
		"password": "secret",
		"extra":    "x",
	}
	picked := PickFields(body, "name", "phone")
	if len(picked) != 1 || picked["name"] != "测试" {
		t.Errorf("PickFields = %v", picked)
	}
	if _, ok := picked["password"]; ok {
		t.Error("PickFields kept a field outside the whitelist")
	}
}

func TestNewPageResult(t *testing.T) {
	cases := []struct {
		total      int64
		pageSize   int
		totalPages int64
	}{
		{0, 20, 0},
		{1, 20, 1},
		{20, 20, 1},
		{21, 20, 2},
		{100, 20, 5},
	}
	for _, tc := range cases {
		result := NewPageResult(nil, tc.total, 1, tc.pageSize)
		if result.TotalPages != tc.totalPages {
			t.Errorf("NewPageResult(total=%d, pageSize=%d).TotalPages = %d, want %d",
				tc.total, tc.pageSize, result.TotalPages, tc.totalPages)
		}
	}
}
