package middleware

import (
	"net/http"
	"senlin/internal/db"
	"senlin/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckMemberKey = "member"
const UnreadCountKey = "unread_count"

// AuthRequired ensures a member is logged in
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckMemberKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}

// AdminRequired ensures the current member is an admin
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		member, exists := c.Get(CheckMemberKey)
		if !exists || member.(*models.Member).Role != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin only"})
			return
		}
		c.Next()
	}
}

// LoadMember retrieves member from session and sets to context
func LoadMember() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		memberID := session.Get("member_id")

		if memberID != nil {
			var member models.Member
			result := db.DB.First(&member, memberID)
			if result.Error == nil {
				c.Set(CheckMemberKey, &member)

				// Fetch Unread Notification Count
				var count int64
				db.DB.Model(&models.Notification{}).Where("recipient_id = ? AND is_read = ?", member.ID, false).Count(&count)
				c.Set(UnreadCountKey, count)
			}
		}
		c.Next()
	}
}
