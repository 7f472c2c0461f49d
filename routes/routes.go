package routes

import (
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tastytrail/auth"
	"tastytrail/home"
	"tastytrail/middleware"
	"tastytrail/printout"
	"tastytrail/profile"
	"tastytrail/ratelim"
	"tastytrail/recipes"
	"tastytrail/search"
	"tastytrail/views"
)

// Options carries what the route groups need.
type Options struct {
	Deps        *views.Deps
	Guard       *middleware.Guard
	RateLimiter *ratelim.RateLimiter
	PublicURL   string
	Photos      *http.Client
}

// Setup builds the router with every route group and wraps it in the
// session middleware.
func Setup(o Options) http.Handler {
	router := httprouter.New()

	AddUtilityRoutes(router)
	AddStaticRoutes(router)
	AddHomeRoutes(router, home.New(o.Deps), o.Guard)
	AddAuthRoutes(router, auth.New(o.Deps), o.Guard, o.RateLimiter)
	AddSearchRoutes(router, search.New(o.Deps), o.Guard)
	AddRecipeRoutes(router, recipes.New(o.Deps), o.Guard)
	AddPrintRoutes(router, printout.New(o.Deps, o.PublicURL, o.Photos), o.Guard)
	AddProfileRoutes(router, profile.New(o.Deps), o.Guard)

	return o.Guard.WithSession(router)
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

func AddUtilityRoutes(router *httprouter.Router) {
	router.GET("/health", Index)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())
}

func AddStaticRoutes(router *httprouter.Router) {
	router.ServeFiles("/static/*filepath", http.FS(views.Static()))
}

func AddHomeRoutes(router *httprouter.Router, h *home.Handler, g *middleware.Guard) {
	router.GET("/", h.Welcome)
	router.GET("/dashboard", g.RequireSession(h.Dashboard))
}

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, g *middleware.Guard, rl *ratelim.RateLimiter) {
	router.GET("/login", h.LoginPage)
	router.POST("/login", rl.Limit(g.CSRF(h.Login)))
	router.GET("/signup", h.SignupPage)
	router.POST("/signup", rl.Limit(g.CSRF(h.Register)))
	router.POST("/logout", g.CSRF(h.LogoutUser))
}

func AddSearchRoutes(router *httprouter.Router, h *search.Handler, g *middleware.Guard) {
	router.GET("/discover", g.RequireSession(h.Discover))
	router.GET("/api/discover", g.RequireSession(h.DiscoverJSON))
}

func AddRecipeRoutes(router *httprouter.Router, h *recipes.Handler, g *middleware.Guard) {
	router.GET("/recipe/:id", g.RequireSession(h.GetRecipe))
	router.GET("/recipe/:id/edit", g.RequireSession(h.EditRecipeForm))
	router.POST("/recipe/:id/edit", g.Protected(h.UpdateRecipe))
	router.GET("/post-recipe", g.RequireSession(h.PostRecipeForm))
	router.POST("/post-recipe", g.Protected(h.CreateRecipe))
	router.GET("/my-recipes", g.RequireSession(h.GetMyRecipes))
	router.POST("/my-recipes/:id/delete", g.Protected(h.DeleteRecipe))
}

func AddPrintRoutes(router *httprouter.Router, h *printout.Handler, g *middleware.Guard) {
	router.GET("/recipe/:id/print", g.RequireSession(h.PrintRecipe))
	router.GET("/recipe/:id/qr.png", g.RequireSession(h.RecipeQR))
}

func AddProfileRoutes(router *httprouter.Router, h *profile.Handler, g *middleware.Guard) {
	router.GET("/profile", g.RequireSession(h.GetProfile))
	router.POST("/profile", g.Protected(h.EditProfile))
}
