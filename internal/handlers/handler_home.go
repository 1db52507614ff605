package handlers

import "github.com/gin-gonic/gin"

// GetHealth reports service liveness.
func GetHealth(c *gin.Context) {
	c.String(200, "OK")
}
