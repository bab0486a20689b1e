package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestErrorBodies(t *testing.T) {
	tests := []struct {
		name       string
		write      func(c *gin.Context)
		wantStatus int
		wantMsg    string
	}{
		{"校验失败", ValidationError, http.StatusBadRequest, MsgValidation},
		{"未认证", Unauthorized, http.StatusUnauthorized, MsgUnauthorized},
		{"冲突", func(c *gin.Context) { Conflict(c, "IC number already exists") }, http.StatusConflict, "IC number already exists"},
		{"限流", func(c *gin.Context) { TooManyRequests(c, "Too many requests") }, http.StatusTooManyRequests, "Too many requests"},
		{"内部错误", InternalError, http.StatusInternalServerError, MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			tt.write(c)

			if w.Code != tt.wantStatus {
				t.Errorf("期望状态码 %d，实际 %d", tt.wantStatus, w.Code)
			}
			var body map[string]interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("响应体解析失败: %v", err)
			}
			if body["message"] != tt.wantMsg {
				t.Errorf("期望 message=%q，实际 %v", tt.wantMsg, body["message"])
			}
			if len(body) != 1 {
				t.Errorf("错误响应只应包含 message 字段，实际 %v", body)
			}
		})
	}
}

func TestOKWritesBareJSON(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	OK(c, []int{1, 2})

	if w.Code != http.StatusOK {
		t.Errorf("期望状态码 200，实际 %d", w.Code)
	}
	if w.Body.String() != "[1,2]" {
		t.Errorf("期望裸 JSON 数组，实际 %s", w.Body.String())
	}
}
