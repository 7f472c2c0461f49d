package printout

import (
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"tastytrail/globals"
	"tastytrail/utils"
	"tastytrail/views"
)

type Handler struct {
	*views.Deps
	publicURL string
	photos    *http.Client
}

// New serves printouts whose links point at publicURL. photos fetches
// recipe images; nil gets NewPhotoClient.
func New(d *views.Deps, publicURL string, photos *http.Client) *Handler {
	if photos == nil {
		photos = NewPhotoClient(10 * time.Second)
	}
	return &Handler{Deps: d, publicURL: publicURL, photos: photos}
}

// PrintRecipe streams the recipe card as a PDF. A missing photo only drops
// the picture from the card.
func (h *Handler) PrintRecipe(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(ps, "id")
	if !ok {
		h.Redirect(w, r, globals.FallbackPath)
		return
	}

	rec, err := h.API.GetRecipe(r.Context(), h.Token(r), id)
	if err != nil {
		if h.HandleAuthError(w, r, err) {
			return
		}
		h.Logger.Info("print: recipe unavailable", zap.Int64("id", id), zap.Error(err))
		h.Redirect(w, r, globals.FallbackPath)
		return
	}

	photo, err := h.loadPhoto(r.Context(), rec.ImageURL)
	if err != nil {
		h.Logger.Debug("print: photo skipped", zap.Int64("id", id), zap.Error(err))
	}

	pdf, err := RecipePDF(rec, RecipeURL(h.publicURL, id), photo)
	if err != nil {
		h.Logger.Error("print: build pdf", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "Failed to generate PDF", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "inline; filename=recipe-"+strconv.FormatInt(id, 10)+".pdf")
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// RecipeQR serves a PNG QR code linking to the recipe page.
func (h *Handler) RecipeQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := utils.ParseID(ps, "id")
	if !ok {
		http.NotFound(w, r)
		return
	}

	png, err := QR(RecipeURL(h.publicURL, id), 256)
	if err != nil {
		h.Logger.Error("qr code", zap.Int64("id", id), zap.Error(err))
		http.Error(w, "Failed to generate QR code", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
