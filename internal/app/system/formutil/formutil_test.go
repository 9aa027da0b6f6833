package formutil

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/reliefhub/internal/testutil"
	"github.com/stretchr/testify/assert"
)

func TestSetBase(t *testing.T) {
	r := testutil.NewAuthenticatedRequest("GET", "/reports/new", testutil.AdminUser())
	var b Base
	SetBase(&b, r, "New Report", "/reports")

	assert.Equal(t, "New Report", b.Title)
	assert.True(t, b.IsLoggedIn)
	assert.True(t, b.IsAdmin)
	assert.Equal(t, "admin", b.Role)
}

func TestSetBase_Anonymous(t *testing.T) {
	var b Base
	SetBase(&b, httptest.NewRequest("GET", "/register", nil), "Register", "/")
	assert.False(t, b.IsLoggedIn)
	assert.Equal(t, "visitor", b.Role)
}

func TestSetError_Escapes(t *testing.T) {
	var b Base
	b.SetError(`<b>"bad"</b>`)
	assert.Equal(t, "&lt;b&gt;&#34;bad&#34;&lt;/b&gt;", string(b.Error))
}

func TestSetFieldError(t *testing.T) {
	var b Base
	b.SetFieldError("username", "Username already exists.")
	assert.Equal(t, "Username already exists.", b.FieldErrors["username"])
}
