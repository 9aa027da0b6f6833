// internal/app/features/home/handler.go
package home

import (
	"net/http"

	"github.com/dalemusser/reliefhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// Handler serves the landing page.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

type homeData struct {
	viewdata.BaseVM
	// PrimaryHref is where the call-to-action button points.
	PrimaryHref  string
	PrimaryLabel string
}

func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := homeData{
		BaseVM:       viewdata.NewBaseVM(r, "Welcome", "/"),
		PrimaryHref:  "/login",
		PrimaryLabel: "Sign in",
	}
	if data.IsLoggedIn {
		data.PrimaryHref = "/dashboard"
		data.PrimaryLabel = "Open dashboard"
	}

	templates.Render(w, r, "home", data)
}
