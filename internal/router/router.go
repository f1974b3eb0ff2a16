package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plateful/recipe-api/internal/api"
	"github.com/plateful/recipe-api/internal/middleware"
)

// Options carries the handlers and cross-cutting pieces the router wires
// together. WriteLimiter is optional; without it write endpoints are not
// rate limited.
type Options struct {
	Users       *api.UserHandler
	Recipes     *api.RecipeHandler
	Tags        *api.TagHandler
	Ingredients *api.IngredientHandler

	TokenValidator middleware.TokenValidator
	WriteLimiter   *middleware.RateLimiter
	CORSOrigins    []string
}

// SetupRouter configures the application routes
func SetupRouter(opts Options) *gin.Engine {
	router := gin.Default()
	router.HandleMethodNotAllowed = true
	router.Use(middleware.CORS(opts.CORSOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	limit := func() gin.HandlerFunc {
		if opts.WriteLimiter != nil {
			return opts.WriteLimiter.Middleware()
		}
		return func(c *gin.Context) { c.Next() }
	}()

	auth := middleware.AuthMiddleware(opts.TokenValidator)

	user := router.Group("/user")
	{
		user.POST("/create", opts.Users.Create)
		user.POST("/token", opts.Users.Token)
		user.GET("/me", auth, opts.Users.Me)
		user.PATCH("/me", auth, opts.Users.UpdateMe)
	}

	recipes := router.Group("/recipes", auth)
	{
		recipes.GET("", opts.Recipes.List)
		recipes.POST("", limit, opts.Recipes.Create)
		recipes.GET("/:id", opts.Recipes.Get)
		recipes.PUT("/:id", limit, opts.Recipes.Replace)
		recipes.PATCH("/:id", limit, opts.Recipes.Patch)
		recipes.DELETE("/:id", limit, opts.Recipes.Delete)
		recipes.POST("/:id/image", limit, opts.Recipes.UploadImage)
	}

	tags := router.Group("/tags", auth)
	{
		tags.GET("", opts.Tags.List)
		tags.PATCH("/:id", limit, opts.Tags.Rename)
		tags.DELETE("/:id", limit, opts.Tags.Delete)
	}

	ingredients := router.Group("/ingredients", auth)
	{
		ingredients.GET("", opts.Ingredients.List)
		ingredients.PATCH("/:id", limit, opts.Ingredients.Rename)
		ingredients.DELETE("/:id", limit, opts.Ingredients.Delete)
	}

	return router
}
