package viewdata_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/reliefhub/internal/app/system/auth"
	"github.com/dalemusser/reliefhub/internal/app/system/viewdata"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNewBaseVM_Visitor(t *testing.T) {
	req := httptest.NewRequest("GET", "/reports?return=/dashboard", nil)
	vm := viewdata.NewBaseVM(req, "Reports", "/")

	if vm.IsLoggedIn {
		t.Error("visitor should not be logged in")
	}
	if vm.Role != "visitor" {
		t.Errorf("Role = %q, want visitor", vm.Role)
	}
	if vm.Title != "Reports" {
		t.Errorf("Title = %q", vm.Title)
	}
	if vm.SiteName == "" {
		t.Error("SiteName should default")
	}
}

func TestNewBaseVM_Admin(t *testing.T) {
	req := httptest.NewRequest("GET", "/dashboard", nil)
	req = auth.WithTestUser(req, &auth.SessionUser{
		ID:   primitive.NewObjectID().Hex(),
		Name: "ops",
		Role: "Admin",
	})
	vm := viewdata.NewBaseVM(req, "Dashboard", "/")

	if !vm.IsLoggedIn || !vm.IsAdmin {
		t.Errorf("admin flags wrong: %+v", vm)
	}
	if vm.UserName != "ops" {
		t.Errorf("UserName = %q", vm.UserName)
	}
}

func TestSetSiteName_IgnoresEmpty(t *testing.T) {
	viewdata.SetSiteName("Relief Ops")
	t.Cleanup(func() { viewdata.SetSiteName(viewdata.DefaultSiteName) })

	viewdata.SetSiteName("")
	if got := viewdata.SiteName(); got != "Relief Ops" {
		t.Errorf("SiteName = %q, want Relief Ops", got)
	}
}
