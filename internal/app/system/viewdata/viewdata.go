// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"
	"sync"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/authz"
	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
)

// DefaultSiteName is shown until SetSiteName is called.
const DefaultSiteName = "ReliefHub"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
// Usage:
//
//	type myPageData struct {
//	    viewdata.BaseVM
//	    // page-specific fields...
//	}
//
//	data := myPageData{
//	    BaseVM: viewdata.NewBaseVM(r, "Page Title", "/default-back"),
//	}
type BaseVM struct {
	SiteName string

	// User context (from auth middleware)
	IsLoggedIn bool
	Role       string
	UserName   string
	IsAdmin    bool

	// Page context
	Title       string
	BackURL     string
	CurrentPath string

	CSRFToken string

	// One-shot messages carried across a redirect.
	Flashes []string
}

var (
	mu       sync.RWMutex
	siteName = DefaultSiteName
)

// SetSiteName sets the name shown in page titles and the header.
// Call this once at startup from bootstrap.
func SetSiteName(name string) {
	if name == "" {
		return
	}
	mu.Lock()
	siteName = name
	mu.Unlock()
}

func SiteName() string {
	mu.RLock()
	defer mu.RUnlock()
	return siteName
}

// NewBaseVM creates a fully populated BaseVM for a page.
func NewBaseVM(r *http.Request, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)
	return BaseVM{
		SiteName:    SiteName(),
		IsLoggedIn:  signedIn,
		Role:        role,
		UserName:    name,
		IsAdmin:     signedIn && role == "admin",
		Title:       title,
		BackURL:     httpnav.ResolveBackURL(r, backDefault),
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
		Flashes:     auth.FlashesFrom(r),
	}
}
