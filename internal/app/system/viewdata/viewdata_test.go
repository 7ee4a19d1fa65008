package viewdata_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/acmelearning/internal/app/system/viewdata"
	"github.com/dalemusser/acmelearning/internal/testutil"
)

func TestNewBaseVM_Anonymous(t *testing.T) {
	r := httptest.NewRequest("GET", "/about", nil)
	vm := viewdata.NewBaseVM(r, "ACME Learning Center | About", "/home")

	if vm.SiteName != viewdata.DefaultSiteName {
		t.Errorf("SiteName: got %q", vm.SiteName)
	}
	if vm.IsLoggedIn || vm.UserName != "" {
		t.Errorf("expected anonymous view, got %+v", vm)
	}
	if vm.Lang != "en" {
		t.Errorf("Lang: got %q, want en", vm.Lang)
	}
	if vm.Title != "ACME Learning Center | About" {
		t.Errorf("Title: got %q", vm.Title)
	}
	if vm.T == nil {
		t.Fatal("T must be set")
	}
	// Outside the i18n middleware ids come back unchanged.
	if got := vm.T("NavHome"); got != "NavHome" {
		t.Errorf("T: got %q", got)
	}
}

func TestNewBaseVM_SignedIn(t *testing.T) {
	user := testutil.LearnerUser()
	r := testutil.NewAuthenticatedRequest("GET", "/profile", user)
	vm := viewdata.NewBaseVM(r, "t", "/home")

	if !vm.IsLoggedIn || vm.UserName != user.Username {
		t.Errorf("expected signed-in view for %q, got %+v", user.Username, vm)
	}
}
