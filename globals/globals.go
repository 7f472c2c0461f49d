package globals

// Context keys
type ContextKey string

const SessionKey ContextKey = "session"
const UserIDKey ContextKey = "userId"

// Cookie and path names shared by the session layer and the pages.
const (
	SessionCookie = "tt_session"
	CSRFField     = "csrf_token"
	LoginPath     = "/login"
	FallbackPath  = "/dashboard"
)

// Categories offered by the recipe forms and the discover filters.
var Categories = []string{"Breakfast", "Lunch", "Dinner", "Desserts", "Snacks", "Beverages"}

// Cuisines offered by the recipe forms.
var Cuisines = []string{"Italian", "Mexican", "Indian", "Asian", "Mediterranean", "American", "French", "Thai", "Chinese", "Japanese", "Other"}
