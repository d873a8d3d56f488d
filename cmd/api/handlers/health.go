package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bluepayhq/bluepay/framework/web"
)

// Health reports service liveness for the load balancer.
func Health(ctx *gin.Context) error {
	return web.Respond(ctx, map[string]string{"status": "ok"}, http.StatusOK)
}
