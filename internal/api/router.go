package api

import "github.com/gin-gonic/gin"

func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/health", h.Health)
	router.POST("/account", h.CreateAccount)
	router.GET("/account/:account_number", h.GetAccount)
	router.POST("/deposit", h.Deposit)
	router.POST("/withdrawal", h.Withdrawal)

	return router
}
