package handler

import "github.com/gin-gonic/gin"

// Register mounts the news routes on r.
func Register(r gin.IRouter, h *NewsHandler) {
	r.GET("/api/news.json", h.GetNews)
	r.GET("/api/news/:file", h.GetNewsByPath)
	r.GET("/api/categories", h.GetCategories)
	r.GET("/api/probe/:adapter", h.GetProbe)
	r.GET("/health", h.GetHealth)
}
