package handlers

import (
	"context"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"gopts/internal/imghost"
)

const maxImageSize = 5 << 20 // 5 MB

var allowedImageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// UploadImage proxies a multipart image upload to the hosting service and
// returns the public URL.
func UploadImage(host *imghost.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/uploads/image"
		defer handlePanic(c, route)

		fileHeader, err := c.FormFile("image")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
			return
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		if !allowedImageExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type: " + ext})
			return
		}
		if fileHeader.Size > maxImageSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds 5MB limit"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "could not read upload")
			return
		}
		defer file.Close()

		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()

		url, err := host.Upload(ctx, fileHeader.Filename, file)
		if err != nil {
			log.Println("[UPLOAD] [ERROR] image host:", err)
			respondWithError(c, http.StatusBadGateway, route, "image host unavailable")
			return
		}

		log.Println("[UPLOAD] [INFO] image uploaded:", fileHeader.Filename)
		c.JSON(http.StatusCreated, gin.H{"url": url})
	}
}
