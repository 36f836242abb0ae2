package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func multipartImageRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	part.Write([]byte(content))
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/uploads/image", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestUploadImageValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing file", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/api/uploads/image", nil)

		UploadImage(nil)(c)

		if w.Code != http.StatusBadRequest {
			t.Errorf("got %d", w.Code)
		}
	})

	t.Run("wrong field name", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = multipartImageRequest(t, "file", "a.png", "data")

		UploadImage(nil)(c)

		if w.Code != http.StatusBadRequest {
			t.Errorf("got %d", w.Code)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = multipartImageRequest(t, "image", "malware.exe", "data")

		UploadImage(nil)(c)

		if w.Code != http.StatusBadRequest {
			t.Errorf("got %d", w.Code)
		}
	})
}
