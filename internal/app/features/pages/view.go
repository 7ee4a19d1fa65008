// internal/app/features/pages/view.go
package pages

import (
	"net/http"

	"github.com/dalemusser/acmelearning/internal/app/site"
	"github.com/dalemusser/acmelearning/internal/app/system/auth"
	"github.com/dalemusser/acmelearning/internal/app/system/navigation"
	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
	"github.com/dalemusser/acmelearning/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Template-data                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

// PageVM is the view model every page template receives. The sign-in and
// sign-up features reuse it when they re-render their forms.
type PageVM struct {
	viewdata.BaseVM

	Route  string
	Path   string
	Params map[string]string

	// Profile
	UserID string

	// Forms
	Username  string
	ReturnURL string
	Error     string // sanitized message shown above the form
	Notice    string
}

// NewFormVM builds the view model for re-rendering an auth form outside a
// navigation (after a failed POST).
func NewFormVM(r *http.Request, route, username, errMsg string) PageVM {
	return PageVM{
		BaseVM:    viewdata.NewBaseVM(r, site.DocumentTitle(route), site.HomePath),
		Route:     route,
		Path:      r.URL.Path,
		Username:  username,
		ReturnURL: navigation.ReturnURL(r, navigation.AuthReturn),
		Error:     errMsg,
	}
}

func newPageVM(r *http.Request, title string, m *routetable.Match) PageVM {
	vm := PageVM{
		BaseVM: viewdata.NewBaseVM(r, title, site.HomePath),
		Route:  m.Name(),
		Path:   m.Path,
		Params: m.Params,
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.UserID = u.ID
	}
	switch vm.Route {
	case site.RouteSignIn:
		vm.ReturnURL = navigation.ReturnURL(r, navigation.AuthReturn)
		if query.Get(r, "created") != "" {
			vm.Notice = vm.T("AccountCreated")
		}
	}
	return vm
}
