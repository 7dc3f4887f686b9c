package web_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"postboard/internal/auth"
	"postboard/internal/database"
	"postboard/internal/models"
	"postboard/internal/storage"
	"postboard/internal/store"
	"postboard/internal/web"
)

type testServer struct {
	srv      *web.Server
	store    *store.Store
	sessions *auth.Sessions
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.Open("sqlite")
	require.NoError(t, err)
	require.NoError(t, db.Connect(":memory:"))
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	require.NoError(t, st.Migrate(context.Background()))

	images, err := storage.NewImageStore(t.TempDir())
	require.NoError(t, err)

	sessions := auth.NewSessions("test-secret", time.Hour)
	srv, err := web.NewServer(st, sessions, images, zap.NewNop())
	require.NoError(t, err)

	return &testServer{srv: srv, store: st, sessions: sessions}
}

func (ts *testServer) createUser(t *testing.T, username string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("password")
	require.NoError(t, err)
	user, err := ts.store.Users.Create(context.Background(), username, hash)
	require.NoError(t, err)
	return user
}

func (ts *testServer) sessionCookie(t *testing.T, user *models.User) *http.Cookie {
	t.Helper()
	token, err := ts.sessions.Issue(user.ID)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.CookieName, Value: token}
}

func (ts *testServer) get(path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) postForm(path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.srv.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) createPost(t *testing.T, author *models.User, text string) *models.Post {
	t.Helper()
	post := &models.Post{Text: text, AuthorID: author.ID}
	require.NoError(t, ts.store.Posts.Create(context.Background(), post))
	return post
}

func TestHomeRendersEmpty(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.get("/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No posts yet.")
}

func TestProtectedRoutesRedirectToLogin(t *testing.T) {
	ts := newTestServer(t)

	paths := []string{
		"/create/",
		"/posts/some-id/edit/",
		"/follow/",
		"/profile/alice/follow/",
		"/profile/alice/unfollow/",
	}
	for _, path := range paths {
		rec := ts.get(path, nil)
		require.Equal(t, http.StatusFound, rec.Code, path)
		location := rec.Header().Get("Location")
		assert.Equal(t, "/auth/login/?next="+url.QueryEscape(path), location)
	}
}

func TestSignupAndLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.postForm("/auth/signup/", url.Values{
		"username": {"alice"},
		"password": {"password"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	require.NotEmpty(t, rec.Result().Cookies(), "signup should start a session")

	// Duplicate usernames come back as a field error, not a new account.
	rec = ts.postForm("/auth/signup/", url.Values{
		"username": {"alice"},
		"password": {"other"},
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "already taken")

	rec = ts.postForm("/auth/login/", url.Values{
		"username": {"alice"},
		"password": {"password"},
		"next":     {"/create/"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/create/", rec.Header().Get("Location"))

	var session *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == auth.CookieName {
			session = c
		}
	}
	require.NotNil(t, session)

	rec = ts.get("/create/", session)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "alice")

	rec := ts.postForm("/auth/login/", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wrong username or password.")

	rec = ts.postForm("/auth/login/", url.Values{
		"username": {"nobody"},
		"password": {"password"},
	}, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Wrong username or password.")
}

func TestLoginNextStaysLocal(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "alice")

	rec := ts.postForm("/auth/login/", url.Values{
		"username": {"alice"},
		"password": {"password"},
		"next":     {"https://evil.example/"},
	}, nil)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestCreatePost(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	cookie := ts.sessionCookie(t, alice)

	rec := ts.postForm("/create/", url.Values{"text": {"my first post"}}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile/alice/", rec.Header().Get("Location"))

	n, err := ts.store.Posts.CountByAuthor(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	page, err := ts.store.Posts.List(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, alice.ID, page.Items[0].AuthorID)
}

func TestCreatePostRejectsBlankText(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	cookie := ts.sessionCookie(t, alice)

	for _, text := range []string{"", "   ", "\n\t "} {
		rec := ts.postForm("/create/", url.Values{"text": {text}}, cookie)
		assert.Equal(t, http.StatusOK, rec.Code, "validation failures re-display the form")
		assert.Contains(t, rec.Body.String(), "cannot be empty")
	}

	n, err := ts.store.Posts.CountByAuthor(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestEditPostByAuthor(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	cookie := ts.sessionCookie(t, alice)
	post := ts.createPost(t, alice, "original")

	rec := ts.postForm("/posts/"+post.ID+"/edit/", url.Values{"text": {"edited"}}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/posts/"+post.ID+"/", rec.Header().Get("Location"))

	got, err := ts.store.Posts.ByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)

	n, err := ts.store.Posts.CountByAuthor(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "editing must not change the post count")
}

func TestEditPostByNonAuthorForbidden(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")
	post := ts.createPost(t, alice, "original")
	bobCookie := ts.sessionCookie(t, bob)

	rec := ts.postForm("/posts/"+post.ID+"/edit/", url.Values{"text": {"hijacked"}}, bobCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only the author can edit this post.")

	got, err := ts.store.Posts.ByID(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", got.Text)

	rec = ts.get("/posts/"+post.ID+"/edit/", bobCookie)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHomePagination(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	for i := 0; i < 15; i++ {
		ts.createPost(t, alice, fmt.Sprintf("post %d", i))
	}

	rec := ts.get("/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 10, strings.Count(rec.Body.String(), "<article>"))
	assert.Contains(t, rec.Body.String(), "page 1 of 2")

	rec = ts.get("/?page=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, strings.Count(rec.Body.String(), "<article>"))
	assert.Contains(t, rec.Body.String(), "page 2 of 2")

	// Out-of-range pages clamp instead of erroring.
	rec = ts.get("/?page=99", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "page 2 of 2")
}

func TestGroupListing(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	group, err := ts.store.Groups.Create(context.Background(), "Go", "go", "gophers")
	require.NoError(t, err)

	post := &models.Post{Text: "grouped", AuthorID: alice.ID, GroupID: &group.ID}
	require.NoError(t, ts.store.Posts.Create(context.Background(), post))
	ts.createPost(t, alice, "ungrouped")

	rec := ts.get("/group/go/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "grouped")
	assert.NotContains(t, rec.Body.String(), "ungrouped")

	rec = ts.get("/group/rust/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")
	ts.createPost(t, alice, "one")
	ts.createPost(t, alice, "two")

	rec := ts.get("/profile/alice/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2 posts")

	// A logged-in visitor sees the follow control.
	rec = ts.get("/profile/alice/", ts.sessionCookie(t, bob))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/profile/alice/follow/")

	rec = ts.get("/profile/nobody/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostDetail(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	post := ts.createPost(t, alice, "read me")
	ts.createPost(t, alice, "another")

	rec := ts.get("/posts/"+post.ID+"/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "read me")
	assert.Contains(t, rec.Body.String(), "(2 posts)")

	rec = ts.get("/posts/no-such-post/", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddComment(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")
	post := ts.createPost(t, alice, "discuss")
	cookie := ts.sessionCookie(t, bob)

	// A blank comment is surfaced as a field error on the detail page.
	rec := ts.postForm("/posts/"+post.ID+"/comment/", url.Values{"text": {"  "}}, cookie)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "The comment cannot be empty.")

	comments, err := ts.store.Comments.ListByPost(context.Background(), post.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)

	rec = ts.postForm("/posts/"+post.ID+"/comment/", url.Values{"text": {"great post"}}, cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/posts/"+post.ID+"/", rec.Header().Get("Location"))

	comments, err = ts.store.Comments.ListByPost(context.Background(), post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, bob.ID, comments[0].AuthorID)
}

func TestFollowAndUnfollow(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")
	cookie := ts.sessionCookie(t, alice)
	ctx := context.Background()

	rec := ts.get("/profile/bob/follow/", cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/profile/bob/", rec.Header().Get("Location"))

	following, err := ts.store.Follows.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, following)

	// Following twice stays a single edge: one unfollow fully removes it.
	rec = ts.get("/profile/bob/follow/", cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	rec = ts.get("/profile/bob/unfollow/", cookie)
	require.Equal(t, http.StatusFound, rec.Code)

	following, err = ts.store.Follows.Exists(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	// Unfollowing an absent edge still redirects quietly.
	rec = ts.get("/profile/bob/unfollow/", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)

	// Following yourself creates no edge.
	rec = ts.get("/profile/alice/follow/", cookie)
	require.Equal(t, http.StatusFound, rec.Code)
	self, err := ts.store.Follows.Exists(ctx, alice.ID, alice.ID)
	require.NoError(t, err)
	assert.False(t, self)

	rec = ts.get("/profile/nobody/follow/", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFollowFeed(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	bob := ts.createUser(t, "bob")
	carol := ts.createUser(t, "carol")
	cookie := ts.sessionCookie(t, alice)

	ts.createPost(t, bob, "from bob")
	ts.createPost(t, carol, "from carol")

	require.NoError(t, ts.store.Follows.Create(context.Background(), alice.ID, bob.ID))

	rec := ts.get("/follow/", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "from bob")
	assert.NotContains(t, rec.Body.String(), "from carol")
}

func TestStats(t *testing.T) {
	ts := newTestServer(t)
	ts.get("/", nil)

	rec := ts.get("/internal/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"requests"`)
}

func TestStaleSessionIsAnonymous(t *testing.T) {
	ts := newTestServer(t)
	alice := ts.createUser(t, "alice")
	cookie := ts.sessionCookie(t, alice)

	require.NoError(t, ts.store.Users.Delete(context.Background(), alice.ID))

	rec := ts.get("/create/", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Location"), "/auth/login/")
}
