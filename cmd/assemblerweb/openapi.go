package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// openAPIHandler serves a small, hand-authored OpenAPI document
// describing the two routes this server exposes. No codegen is
// involved; this is just enough for API clients to discover the
// request/response shapes.
func openAPIHandler() gin.HandlerFunc {
	doc := gin.H{
		"openapi": "3.0.3",
		"info": gin.H{
			"title":   "Site Template Assembler",
			"version": "1.0.0",
		},
		"paths": gin.H{
			"/merge": gin.H{
				"post": gin.H{
					"summary": "Merge one site template through the selected engine",
					"requestBody": gin.H{
						"required": true,
						"content": gin.H{
							"application/json": gin.H{
								"schema": gin.H{
									"type": "object",
									"required": []string{
										"appSite", "appFile", "engineType",
									},
									"properties": gin.H{
										"appSite":       gin.H{"type": "string"},
										"appFile":       gin.H{"type": "string"},
										"appView":       gin.H{"type": "string"},
										"appViewPrefix": gin.H{"type": "string"},
										"engineType":    gin.H{"type": "string", "enum": []string{"Normal", "PreProcess"}},
									},
								},
							},
						},
					},
					"responses": gin.H{
						"200": gin.H{
							"description": "Merged HTML and timing information",
							"content": gin.H{
								"application/json": gin.H{
									"schema": gin.H{
										"type": "object",
										"properties": gin.H{
											"html": gin.H{"type": "string"},
											"timing": gin.H{
												"type": "object",
												"properties": gin.H{
													"serverTimeMs": gin.H{"type": "number"},
													"engineTimeMs": gin.H{"type": "number"},
												},
											},
										},
									},
								},
							},
						},
						"400": gin.H{"description": "A required field was missing"},
					},
				},
			},
			"/": gin.H{
				"get": gin.H{
					"summary":   "Render an HTML index of every discoverable merge scenario",
					"responses": gin.H{"200": gin.H{"description": "HTML page"}},
				},
			},
		},
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, doc)
	}
}
