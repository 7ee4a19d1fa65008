// Package site defines the ACME Learning Center route table.
package site

import (
	"context"

	"github.com/dalemusser/acmelearning/internal/app/system/navguard"
	"github.com/dalemusser/acmelearning/internal/app/system/routetable"
)

// AppName prefixes every document title.
const AppName = "ACME Learning Center"

// Route names.
const (
	RouteHome     = "home"
	RouteAbout    = "about"
	RouteSignIn   = "sign-in"
	RouteSignUp   = "sign-up"
	RouteProfile  = "profile"
	RouteDefault  = "default"
	RouteNotFound = "not-found"
)

// Paths the handlers redirect to.
const (
	HomePath   = "/home"
	SignInPath = "/sign-in"
	SignUpPath = "/sign-up"
)

// Template names, one per page.
const (
	HomeTemplate     = "home_page"
	AboutTemplate    = "about_page"
	SignInTemplate   = "signin_page"
	SignUpTemplate   = "signup_page"
	ProfileTemplate  = "profile_page"
	NotFoundTemplate = "notfound_page"
)

// lazy defers building a page descriptor until the route is first loaded.
func lazy(name, tmpl string) routetable.Component {
	return routetable.Lazy(func(ctx context.Context) (routetable.Page, error) {
		if err := ctx.Err(); err != nil {
			return routetable.Page{}, err
		}
		return routetable.Page{Name: name, Template: tmpl}, nil
	})
}

// Entries returns the site's routes in declaration order. The catch-all is last.
func Entries() []routetable.Entry {
	return []routetable.Entry{
		{
			Path:      HomePath,
			Name:      RouteHome,
			Component: routetable.Direct(routetable.Page{Name: RouteHome, Template: HomeTemplate}),
			Meta:      routetable.Meta{Title: "Home"},
		},
		{
			Path:      "/about",
			Name:      RouteAbout,
			Component: lazy(RouteAbout, AboutTemplate),
			Meta:      routetable.Meta{Title: "About"},
		},
		{
			Path:      SignInPath,
			Name:      RouteSignIn,
			Component: lazy(RouteSignIn, SignInTemplate),
			Meta:      routetable.Meta{Title: "Sign In", GuestOnly: true},
		},
		{
			Path:      SignUpPath,
			Name:      RouteSignUp,
			Component: lazy(RouteSignUp, SignUpTemplate),
			Meta:      routetable.Meta{Title: "Sign Up", GuestOnly: true},
		},
		{
			Path:      "/profile",
			Name:      RouteProfile,
			Component: lazy(RouteProfile, ProfileTemplate),
			Meta:      routetable.Meta{Title: "Profile", RequiresAuth: true},
		},
		{
			Path:     "/",
			Name:     RouteDefault,
			Redirect: HomePath,
		},
		{
			Path:      "/*pathMatch",
			Name:      RouteNotFound,
			Component: lazy(RouteNotFound, NotFoundTemplate),
			Meta:      routetable.Meta{Title: "Page Not Found"},
		},
	}
}

// NewTable builds and validates the site's route table.
func NewTable(opts ...routetable.Option) (*routetable.Table, error) {
	return routetable.New(Entries(), opts...)
}

// DocumentTitle composes the document title for the named route. Unknown
// names yield the app name alone.
func DocumentTitle(name string) string {
	for _, e := range Entries() {
		if e.Name == name {
			return navguard.FormatTitle(AppName, e.Meta.Title)
		}
	}
	return AppName
}
