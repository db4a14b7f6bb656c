package server

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"warbler/internal/models"
	"warbler/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type trio struct {
	george, hector, irene *models.User
}

// seedTrio creates george, hector and irene. George follows irene and
// hector; irene follows hector.
func seedTrio(t *testing.T, db *gorm.DB) trio {
	t.Helper()
	tr := trio{
		george: createUser(t, db, "george", "abc123"),
		hector: createUser(t, db, "hector", "abc124"),
		irene:  createUser(t, db, "irene", "abc125"),
	}
	testutil.Follow(t, db, tr.george, tr.irene)
	testutil.Follow(t, db, tr.george, tr.hector)
	testutil.Follow(t, db, tr.irene, tr.hector)
	return tr
}

func statLink(id uint, kind string, n int) string {
	return fmt.Sprintf("<a href=\"/users/%d/%s\"\n                >%d", id, kind, n)
}

func TestListUsers(t *testing.T) {
	app, db := newTestApp(t)
	seedTrio(t, db)
	client := newTestClient(t, app)
	client.login("george", "abc123")

	tests := []struct {
		query   string
		present []string
		absent  []string
	}{
		{"", []string{"george", "hector", "irene"}, nil},
		{"geo", []string{"george"}, []string{"hector", "irene"}},
		{"ene", []string{"irene"}, []string{"george", "hector"}},
		{"GEO", []string{"george"}, []string{"hector", "irene"}},
	}
	for _, tt := range tests {
		t.Run("q="+tt.query, func(t *testing.T) {
			p := client.get("/users?q=" + url.QueryEscape(tt.query))
			require.Equal(t, http.StatusOK, p.Status)
			for _, name := range tt.present {
				assert.Contains(t, p.Body, "<p>@"+name+"</p>")
			}
			for _, name := range tt.absent {
				assert.NotContains(t, p.Body, "<p>@"+name+"</p>")
			}
		})
	}

	none := client.get("/users?q=zzz")
	assert.Contains(t, none.Body, "Sorry, no users found")
}

func TestListUsers_RequiresLogin(t *testing.T) {
	app, db := newTestApp(t)
	seedTrio(t, db)
	client := newTestClient(t, app)

	p := client.get("/users")
	require.Equal(t, http.StatusFound, p.Status)
	assert.Contains(t, client.follow(p).Body, "Access unauthorized")
}

func TestFollowingAndFollowers(t *testing.T) {
	app, db := newTestApp(t)
	tr := seedTrio(t, db)
	client := newTestClient(t, app)

	client.login("george", "abc123")
	p := client.get(fmt.Sprintf("/users/%d/following", tr.george.ID))
	require.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, "Image for hector")
	assert.Contains(t, p.Body, statLink(tr.george.ID, "following", 2))
	client.logout()

	client.login("irene", "abc125")
	p = client.get(fmt.Sprintf("/users/%d/following", tr.irene.ID))
	require.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, "Image for irene")
	assert.Contains(t, p.Body, "Image for hector")
	assert.Contains(t, p.Body, statLink(tr.irene.ID, "following", 1))

	p = client.get(fmt.Sprintf("/users/%d/following", tr.hector.ID))
	assert.Equal(t, http.StatusFound, p.Status, "irene cannot see who hector follows")

	p = client.get(fmt.Sprintf("/users/%d/followers", tr.irene.ID))
	require.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, "Image for george")
	assert.Contains(t, p.Body, statLink(tr.irene.ID, "followers", 1))
	client.logout()

	client.login("hector", "abc124")
	p = client.get(fmt.Sprintf("/users/%d/followers", tr.hector.ID))
	require.Equal(t, http.StatusOK, p.Status)
	assert.Contains(t, p.Body, "Image for george")
	assert.Contains(t, p.Body, "Image for irene")
	assert.Contains(t, p.Body, statLink(tr.hector.ID, "followers", 2))

	p = client.get(fmt.Sprintf("/users/%d/followers", tr.george.ID))
	require.Equal(t, http.StatusFound, p.Status)
	denied := client.follow(p)
	assert.Equal(t, http.StatusOK, denied.Status)
	assert.Contains(t, denied.Body, "Access unauthorized")
}

func TestGraphPages_RequireLogin(t *testing.T) {
	app, db := newTestApp(t)
	tr := seedTrio(t, db)
	client := newTestClient(t, app)

	for _, kind := range []string{"following", "followers"} {
		t.Run(kind, func(t *testing.T) {
			p := client.get(fmt.Sprintf("/users/%d/%s", tr.irene.ID, kind))
			require.Equal(t, http.StatusFound, p.Status)
			page := client.follow(p)
			assert.Equal(t, http.StatusOK, page.Status)
			assert.Contains(t, page.Body, "Access unauthorized")
		})
	}
}

func TestShowUser(t *testing.T) {
	app, db := newTestApp(t)
	tr := seedTrio(t, db)
	testutil.CreateMessage(t, db, tr.hector, "I am Hector", nowUTC())
	client := newTestClient(t, app)

	t.Run("anonymous", func(t *testing.T) {
		p := client.get(fmt.Sprintf("/users/%d", tr.hector.ID))
		require.Equal(t, http.StatusOK, p.Status)
		assert.Contains(t, p.Body, "@hector")
		assert.Contains(t, p.Body, "<p>I am Hector</p>")
		assert.Contains(t, p.Body, statLink(tr.hector.ID, "followers", 2))
		assert.NotContains(t, p.Body, "Edit Profile")
		assert.NotContains(t, p.Body, ">Follow</button>")
	})

	client.login("irene", "abc125")

	t.Run("followed user", func(t *testing.T) {
		p := client.get(fmt.Sprintf("/users/%d", tr.hector.ID))
		assert.Contains(t, p.Body, ">Unfollow</button>")
	})

	t.Run("unfollowed user", func(t *testing.T) {
		p := client.get(fmt.Sprintf("/users/%d", tr.george.ID))
		assert.Contains(t, p.Body, ">Follow</button>")
	})

	t.Run("own profile", func(t *testing.T) {
		p := client.get(fmt.Sprintf("/users/%d", tr.irene.ID))
		assert.Contains(t, p.Body, "Edit Profile")
		assert.Contains(t, p.Body, "Delete Profile")
	})
}

func TestFollowAndStopFollowing(t *testing.T) {
	app, db := newTestApp(t)
	tr := seedTrio(t, db)
	client := newTestClient(t, app)
	client.login("hector", "abc124")

	p := client.post(fmt.Sprintf("/users/follow/%d", tr.george.ID), nil)
	require.Equal(t, http.StatusFound, p.Status)
	assert.Equal(t, fmt.Sprintf("/users/%d/following", tr.hector.ID), p.Location)

	following := client.follow(p)
	assert.Contains(t, following.Body, "Image for george")
	assert.Contains(t, following.Body, statLink(tr.hector.ID, "following", 1))

	// following twice changes nothing
	client.follow(client.post(fmt.Sprintf("/users/follow/%d", tr.george.ID), nil))
	var edges int64
	require.NoError(t, db.Model(&models.Follow{}).Where("user_following_id = ?", tr.hector.ID).Count(&edges).Error)
	assert.Equal(t, int64(1), edges)

	p = client.post(fmt.Sprintf("/users/stop-following/%d", tr.george.ID), nil)
	require.Equal(t, http.StatusFound, p.Status)
	following = client.follow(p)
	assert.NotContains(t, following.Body, "Image for george")
	assert.Contains(t, following.Body, statLink(tr.hector.ID, "following", 0))
}

func TestFollow_Rejected(t *testing.T) {
	app, db := newTestApp(t)
	tr := seedTrio(t, db)
	client := newTestClient(t, app)
	client.login("hector", "abc124")

	self := client.follow(client.post(fmt.Sprintf("/users/follow/%d", tr.hector.ID), nil))
	assert.Equal(t, http.StatusOK, self.Status)
	assert.Contains(t, self.Body, "You cannot follow yourself")

	missing := client.post("/users/follow/9999", nil)
	assert.Equal(t, http.StatusNotFound, missing.Status)
}

func TestEditProfile(t *testing.T) {
	app, db := newTestApp(t)
	tr := seedTrio(t, db)
	client := newTestClient(t, app)
	client.login("george", "abc123")

	form := client.get("/users/profile")
	require.Equal(t, http.StatusOK, form.Status)
	assert.Contains(t, form.Body, `value="george"`)
	assert.Contains(t, form.Body, `value="george@example.com"`)

	t.Run("wrong password", func(t *testing.T) {
		p := client.post("/users/profile", url.Values{
			"username": {"georgie"},
			"password": {"nope123"},
		})
		assert.Equal(t, http.StatusUnauthorized, p.Status)
		assert.Contains(t, p.Body, "Wrong password, please try again.")
		assert.Contains(t, p.Body, `value="georgie"`, "submitted values are kept")
	})

	t.Run("taken username", func(t *testing.T) {
		p := client.post("/users/profile", url.Values{
			"username": {"hector"},
			"password": {"abc123"},
		})
		assert.Equal(t, http.StatusConflict, p.Status)
		assert.Contains(t, p.Body, "Username or email already taken")
	})

	t.Run("invalid image", func(t *testing.T) {
		p := client.post("/users/profile", url.Values{
			"image_url": {"javascript:alert(1)"},
			"password":  {"abc123"},
		})
		assert.Equal(t, http.StatusBadRequest, p.Status)
	})

	t.Run("success", func(t *testing.T) {
		p := client.post("/users/profile", url.Values{
			"username": {"georgie"},
			"bio":      {"Hello there"},
			"location": {"Boston"},
			"password": {"abc123"},
		})
		require.Equal(t, http.StatusFound, p.Status, p.Body)
		assert.Equal(t, fmt.Sprintf("/users/%d", tr.george.ID), p.Location)

		profile := client.follow(p)
		assert.Contains(t, profile.Body, "Profile updated.")
		assert.Contains(t, profile.Body, "@georgie")
		assert.Contains(t, profile.Body, "Hello there")
		assert.Contains(t, profile.Body, "Boston")
	})

	var stored models.User
	require.NoError(t, db.First(&stored, tr.george.ID).Error)
	assert.Equal(t, "georgie", stored.Username)
	assert.Equal(t, "george@example.com", stored.Email, "fields left out of the form are unchanged")

	// the password hash survives the update
	client.logout()
	client.login("georgie", "abc123")
}

func TestDeleteAccount(t *testing.T) {
	app, db := newTestApp(t)
	tr := seedTrio(t, db)
	testutil.CreateMessage(t, db, tr.george, "bye", nowUTC())
	client := newTestClient(t, app)
	client.login("george", "abc123")

	p := client.post("/users/delete", nil)
	require.Equal(t, http.StatusFound, p.Status)
	assert.Equal(t, "/signup", p.Location)
	signup := client.follow(p)
	assert.Contains(t, signup.Body, "Your account has been deleted.")

	var users, messages, follows int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", tr.george.ID).Count(&users).Error)
	require.NoError(t, db.Model(&models.Message{}).Where("user_id = ?", tr.george.ID).Count(&messages).Error)
	require.NoError(t, db.Model(&models.Follow{}).Where("user_following_id = ? OR user_being_followed_id = ?", tr.george.ID, tr.george.ID).Count(&follows).Error)
	assert.Zero(t, users)
	assert.Zero(t, messages)
	assert.Zero(t, follows)

	login := client.post("/login", url.Values{"username": {"george"}, "password": {"abc123"}})
	assert.Equal(t, http.StatusUnauthorized, login.Status)
}
