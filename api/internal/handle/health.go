package handle

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handle) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": h.toolName})
}

func (h *Handle) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "Design Tutor API",
		"description": "Upload design screenshots, get React tutorials",
		"docs":        "/docs",
	})
}
