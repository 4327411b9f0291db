package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

// JSONValidationErrors returns the full set of field-level problems in one
// response instead of failing on the first.
func JSONValidationErrors(c *gin.Context, code int, errs map[string][]string) {
	c.JSON(code, gin.H{"success": false, "errors": errs})
}
