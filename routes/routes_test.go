package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"blogicum/config"
	"blogicum/forms"
	"blogicum/middleware"
	"blogicum/models"
	"blogicum/testutil"
	"blogicum/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const csrfToken = "test-csrf-token"

func init() {
	gin.SetMode(gin.TestMode)
}

type app struct {
	t   *testing.T
	db  *gorm.DB
	cfg *config.Config
	r   *gin.Engine
	jwt *utils.JWTManager
}

func newApp(t *testing.T) *app {
	t.Helper()

	cfg := &config.Config{
		Env:           "test",
		JWTSecret:     "test-secret",
		JWTTTL:        time.Hour,
		PostsPerPage:  10,
		AdminPageSize: 7,
		MediaRoot:     t.TempDir(),
		MaxUploadMB:   1,
	}
	db := testutil.NewDB(t)

	r, err := NewRouter(db, cfg, zap.NewNop())
	require.NoError(t, err)

	return &app{t: t, db: db, cfg: cfg, r: r, jwt: utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)}
}

// client issues requests as user, or anonymously when user is nil.
type client struct {
	app  *app
	user *models.User
}

func (a *app) as(user *models.User) *client { return &client{app: a, user: user} }

func (a *app) anon() *client { return &client{app: a} }

func (cl *client) do(req *http.Request) *httptest.ResponseRecorder {
	cl.app.t.Helper()
	req.AddCookie(&http.Cookie{Name: middleware.CSRFCookie, Value: csrfToken})
	if cl.user != nil {
		token, err := cl.app.jwt.GenerateJWT(cl.user.ID)
		require.NoError(cl.app.t, err)
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	}
	w := httptest.NewRecorder()
	cl.app.r.ServeHTTP(w, req)
	return w
}

func (cl *client) get(path string) *httptest.ResponseRecorder {
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (cl *client) post(path string, form url.Values) *httptest.ResponseRecorder {
	if form == nil {
		form = url.Values{}
	}
	form.Set(middleware.CSRFField, csrfToken)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

// api calls the JSON API with a bearer token.
func (cl *client) api(method, path string, body any) *httptest.ResponseRecorder {
	cl.app.t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(cl.app.t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if cl.user != nil {
		token, err := cl.app.jwt.GenerateJWT(cl.user.ID)
		require.NoError(cl.app.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	cl.app.r.ServeHTTP(w, req)
	return w
}

func countCards(body string) int {
	return strings.Count(body, `<article class="post">`)
}

func postValues(title string, cat *models.Category) url.Values {
	return url.Values{
		"title":    {title},
		"text":     {"Body of " + title},
		"pub_date": {time.Now().UTC().Add(-time.Minute).Format(forms.DateTimeInputLayout)},
		"category": {fmt.Sprint(cat.ID)},
	}
}

func reload[T any](t *testing.T, db *gorm.DB, id uint) *T {
	t.Helper()
	var row T
	require.NoError(t, db.First(&row, id).Error)
	return &row
}

func TestOps(t *testing.T) {
	a := newApp(t)

	w := a.anon().get("/health")
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.anon().get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "blogicum_http_requests_total")

	w = a.anon().get("/no/such/page/")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")

	w = a.anon().get("/api/v1/nothing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	for _, path := range []string{"/pages/about/", "/pages/rules/", "/auth/login/", "/auth/registration/"} {
		assert.Equal(t, http.StatusOK, a.anon().get(path).Code, path)
	}
}

func TestIndex_VisibilityFilter(t *testing.T) {
	a := newApp(t)

	author := testutil.CreateUser(t, a.db, "author")
	open := testutil.CreateCategory(t, a.db, "Open", true)
	closed := testutil.CreateCategory(t, a.db, "Closed", false)

	testutil.PublicPost(t, a.db, author, open, "Visible post")
	testutil.CreatePost(t, a.db, testutil.PostOpts{Title: "Future post", Author: author, Category: open, Published: true, PubDate: time.Now().Add(48 * time.Hour)})
	testutil.CreatePost(t, a.db, testutil.PostOpts{Title: "Closed category post", Author: author, Category: closed, Published: true})
	testutil.CreatePost(t, a.db, testutil.PostOpts{Title: "Unpublished post", Author: author, Category: open})

	w := a.anon().get("/")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Equal(t, 1, countCards(body))
	assert.Contains(t, body, "Visible post")
	assert.NotContains(t, body, "Future post")
	assert.NotContains(t, body, "Closed category post")
	assert.NotContains(t, body, "Unpublished post")
}

func TestPostDetail_AuthorOverride(t *testing.T) {
	a := newApp(t)

	author := testutil.CreateUser(t, a.db, "author")
	other := testutil.CreateUser(t, a.db, "other")
	cat := testutil.CreateCategory(t, a.db, "News", true)
	future := testutil.CreatePost(t, a.db, testutil.PostOpts{Title: "Scheduled", Author: author, Category: cat, Published: true, PubDate: time.Now().Add(24 * time.Hour)})
	path := fmt.Sprintf("/posts/%d/", future.ID)

	assert.Equal(t, http.StatusNotFound, a.anon().get(path).Code)
	assert.Equal(t, http.StatusNotFound, a.as(other).get(path).Code)

	w := a.as(author).get(path)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Scheduled")
	assert.Contains(t, w.Body.String(), fmt.Sprintf("/posts/%d/edit/", future.ID))

	assert.Equal(t, http.StatusNotFound, a.anon().get("/posts/999/").Code)
	assert.Equal(t, http.StatusNotFound, a.anon().get("/posts/abc/").Code)
}

func TestPostDetail_CommentsAscending(t *testing.T) {
	a := newApp(t)

	author := testutil.CreateUser(t, a.db, "author")
	post := testutil.PublicPost(t, a.db, author, testutil.CreateCategory(t, a.db, "C", true), "Post")
	testutil.CreateComment(t, a.db, post, author, "first comment")
	testutil.CreateComment(t, a.db, post, author, "second comment")

	w := a.anon().get(post.URL())
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()

	assert.Less(t, strings.Index(body, "first comment"), strings.Index(body, "second comment"))
	assert.Contains(t, body, "to leave a comment")
}

func TestCategoryPage(t *testing.T) {
	a := newApp(t)

	author := testutil.CreateUser(t, a.db, "author")
	open := testutil.CreateCategory(t, a.db, "Open", true)
	closed := testutil.CreateCategory(t, a.db, "Closed", false)
	other := testutil.CreateCategory(t, a.db, "Other", true)

	testutil.PublicPost(t, a.db, author, open, "In open")
	testutil.PublicPost(t, a.db, author, other, "In other")
	testutil.CreatePost(t, a.db, testutil.PostOpts{Title: "Later", Author: author, Category: open, Published: true, PubDate: time.Now().Add(time.Hour)})

	w := a.anon().get("/category/" + open.Slug + "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, countCards(w.Body.String()))
	assert.Contains(t, w.Body.String(), "In open")

	assert.Equal(t, http.StatusNotFound, a.anon().get("/category/"+closed.Slug+"/").Code)
	assert.Equal(t, http.StatusNotFound, a.anon().get("/category/missing/").Code)
}

func TestIndex_Pagination(t *testing.T) {
	a := newApp(t)

	author := testutil.CreateUser(t, a.db, "author")
	cat := testutil.CreateCategory(t, a.db, "C", true)
	for i := 0; i < 25; i++ {
		testutil.CreatePost(t, a.db, testutil.PostOpts{
			Title:     fmt.Sprintf("Post %02d", i),
			Author:    author,
			Category:  cat,
			Published: true,
			PubDate:   time.Now().Add(-time.Duration(i+1) * time.Minute),
		})
	}

	for page, want := range map[string]int{"": 10, "?page=2": 10, "?page=3": 5, "?page=99": 5, "?page=x": 10, "?page=-4": 10} {
		w := a.anon().get("/" + page)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, want, countCards(w.Body.String()), page)
	}

	w := a.anon().get("/?page=99")
	assert.Contains(t, w.Body.String(), "Page 3 of 3")
}

func TestIndex_CommentCounts(t *testing.T) {
	a := newApp(t)

	author := testutil.CreateUser(t, a.db, "author")
	post := testutil.PublicPost(t, a.db, author, testutil.CreateCategory(t, a.db, "C", true), "Chatty")
	testutil.CreateComment(t, a.db, post, author, "one")
	testutil.CreateComment(t, a.db, post, author, "two")

	w := a.anon().get("/")
	assert.Contains(t, w.Body.String(), "Comments (2)")
}

func TestCreatePost_RequiresLogin(t *testing.T) {
	a := newApp(t)

	w := a.anon().get("/posts/create/")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/auth/login/?next=%2Fposts%2Fcreate%2F", w.Header().Get("Location"))

	cat := testutil.CreateCategory(t, a.db, "C", true)
	w = a.anon().post("/posts/create/", postValues("Sneaky", cat))
	assert.Equal(t, http.StatusFound, w.Code)

	var n int64
	require.NoError(t, a.db.Model(&models.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreatePost_AssignsSlugs(t *testing.T) {
	a := newApp(t)

	user := testutil.CreateUser(t, a.db, "writer")
	cat := testutil.CreateCategory(t, a.db, "C", true)

	assert.Equal(t, http.StatusOK, a.as(user).get("/posts/create/").Code)

	for i := 0; i < 2; i++ {
		w := a.as(user).post("/posts/create/", postValues("Hello World", cat))
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/profile/writer/", w.Header().Get("Location"))
	}

	var posts []models.Post
	require.NoError(t, a.db.Order("id").Find(&posts).Error)
	require.Len(t, posts, 2)
	assert.Equal(t, "hello-world", posts[0].Slug)
	assert.Equal(t, "hello-world-1", posts[1].Slug)
	assert.Equal(t, user.ID, posts[0].AuthorID)
	assert.True(t, posts[0].IsPublished)
}

func TestCreatePost_InvalidRerenders(t *testing.T) {
	a := newApp(t)

	user := testutil.CreateUser(t, a.db, "writer")
	cat := testutil.CreateCategory(t, a.db, "C", true)

	form := postValues("", cat)
	form.Set("pub_date", "yesterday-ish")
	form.Set("location", "4242")
	w := a.as(user).post("/posts/create/", form)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, forms.MsgRequired)
	assert.Contains(t, body, forms.MsgInvalidDate)

	form = postValues("Good title", cat)
	form.Set("location", "4242")
	w = a.as(user).post("/posts/create/", form)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Select a valid choice")

	var n int64
	require.NoError(t, a.db.Model(&models.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}

// upload submits values plus an image as multipart form data.
func (cl *client) upload(path string, values url.Values, filename string, content []byte) *httptest.ResponseRecorder {
	cl.app.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range values {
		require.NoError(cl.app.t, mw.WriteField(k, v[0]))
	}
	require.NoError(cl.app.t, mw.WriteField(middleware.CSRFField, csrfToken))
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(cl.app.t, err)
	_, err = fw.Write(content)
	require.NoError(cl.app.t, err)
	require.NoError(cl.app.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return cl.do(req)
}

func (a *app) mediaPath(rel string) string {
	return filepath.Join(a.cfg.MediaRoot, filepath.FromSlash(rel))
}

func TestCreatePost_WithImage(t *testing.T) {
	a := newApp(t)

	user := testutil.CreateUser(t, a.db, "writer")
	cat := testutil.CreateCategory(t, a.db, "C", true)

	w := a.as(user).upload("/posts/create/", postValues("Pictured", cat), "photo.PNG", []byte("not really a png"))
	require.Equal(t, http.StatusSeeOther, w.Code)

	var post models.Post
	require.NoError(t, a.db.First(&post).Error)
	require.True(t, strings.HasPrefix(post.Image, "post_images/"))
	assert.True(t, strings.HasSuffix(post.Image, ".png"))

	stored, err := os.ReadFile(a.mediaPath(post.Image))
	require.NoError(t, err)
	assert.Equal(t, "not really a png", string(stored))

	served := a.anon().get("/media/" + post.Image)
	assert.Equal(t, http.StatusOK, served.Code)
}

func TestPostImages_RemovedWhenReplacedOrDeleted(t *testing.T) {
	a := newApp(t)

	user := testutil.CreateUser(t, a.db, "writer")
	cat := testutil.CreateCategory(t, a.db, "C", true)

	w := a.as(user).upload("/posts/create/", postValues("Pictured", cat), "first.jpg", []byte("first"))
	require.Equal(t, http.StatusSeeOther, w.Code)
	var post models.Post
	require.NoError(t, a.db.First(&post).Error)
	first := post.Image

	// An edit without a new file keeps the image.
	w = a.as(user).post(fmt.Sprintf("/posts/%d/edit/", post.ID), postValues("Renamed", cat))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.FileExists(t, a.mediaPath(first))

	w = a.as(user).upload(fmt.Sprintf("/posts/%d/edit/", post.ID), postValues("Repictured", cat), "second.jpg", []byte("second"))
	require.Equal(t, http.StatusSeeOther, w.Code)
	second := reload[models.Post](t, a.db, post.ID).Image
	require.NotEqual(t, first, second)
	assert.NoFileExists(t, a.mediaPath(first))
	assert.FileExists(t, a.mediaPath(second))

	w = a.as(user).post(fmt.Sprintf("/posts/%d/delete/", post.ID), nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.NoFileExists(t, a.mediaPath(second))
}

func TestCreatePost_ImageOverLimitIsFieldError(t *testing.T) {
	a := newApp(t)

	user := testutil.CreateUser(t, a.db, "writer")
	cat := testutil.CreateCategory(t, a.db, "C", true)

	big := bytes.Repeat([]byte("x"), 3<<19)
	w := a.as(user).upload("/posts/create/", postValues("Heavy", cat), "big.jpg", big)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The image must not exceed 1 MB.")

	var n int64
	require.NoError(t, a.db.Model(&models.Post{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestCreatePost_OversizedBodyRejected(t *testing.T) {
	a := newApp(t)

	user := testutil.CreateUser(t, a.db, "writer")
	cat := testutil.CreateCategory(t, a.db, "C", true)

	huge := bytes.Repeat([]byte("x"), 3<<20)
	w := a.as(user).upload("/posts/create/", postValues("Huge", cat), "huge.jpg", huge)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "Upload too large")

	var n int64
	require.NoError(t, a.db.Model(&models.Post{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.NoDirExists(t, a.mediaPath("post_images"))
}

func TestEditPost_NonAuthorRedirected(t *testing.T) {
	a := newApp(t)

	author := testutil.CreateUser(t, a.db, "author")
	intruder := testutil.CreateUser(t, a.db, "intruder")
	cat := testutil.CreateCategory(t, a.db, "C", true)
	post := testutil.PublicPost(t, a.db, author, cat, "Original")
	editPath := fmt.Sprintf("/posts/%d/edit/", post.ID)

	w := a.as(intruder).get(editPath)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, post.URL(), w.Header().Get("Location"))

	w = a.as(intruder).post(editPath, postValues("Hijacked", cat))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, post.URL(), w.Header().Get("Location"))

	w = a.as(intruder).post(fmt.Sprintf("/posts/%d/delete/", post.ID), nil)
	assert.Equal(t, http.StatusFound, w.Code)

	got := reload[models.Post](t, a.db, post.ID)
	assert.Equal(t, "Original", got.Title)

	w = a.anon().get(editPath)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Location"), "/auth/login/?next="))
}

func TestEditPost_Author(t *testing.T) {
	a := newApp(t)

	author := testutil.CreateUser(t, a.db, "author")
	cat := testutil.CreateCategory(t, a.db, "C", true)
	post := testutil.PublicPost(t, a.db, author, cat, "Original")
	editPath := fmt.Sprintf("/posts/%d/edit/", post.ID)

	w := a.as(author).get(editPath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Original"`)

	w = a.as(author).post(editPath, postValues("Rewritten", cat))
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, post.URL(), w.Header().Get("Location"))

	got := reload[models.Post](t, a.db, post.ID)
	assert.Equal(t, "Rewritten", got.Title)
	assert.Equal(t, post.Slug, got.Slug)

	assert.Equal(t, http.StatusNotFound, a.as(author).get("/posts/9999/edit/").Code)
}

func TestDeletePost(t *testing.T) {
	a := newApp(t)

	author := testutil.CreateUser(t, a.db, "author")
	post := testutil.PublicPost(t, a.db, author, testutil.CreateCategory(t, a.db, "C", true), "Doomed")
	testutil.CreateComment(t, a.db, post, author, "bye")
	deletePath := fmt.Sprintf("/posts/%d/delete/", post.ID)

	w := a.as(author).get(deletePath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Doomed")
	reload[models.Post](t, a.db, post.ID)

	w = a.as(author).post(deletePath, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile/author/", w.Header().Get("Location"))

	var n int64
	require.NoError(t, a.db.Model(&models.Post{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, a.db.Model(&models.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestAddComment(t *testing.T) {
	a := newApp(t)

	author := testutil.CreateUser(t, a.db, "author")
	reader := testutil.CreateUser(t, a.db, "reader")
	cat := testutil.CreateCategory(t, a.db, "C", true)
	post := testutil.PublicPost(t, a.db, author, cat, "Discuss")
	hidden := testutil.CreatePost(t, a.db, testutil.PostOpts{Title: "Hidden", Author: author, Category: cat})
	commentPath := fmt.Sprintf("/posts/%d/comment/", post.ID)

	w := a.anon().post(commentPath, url.Values{"text": {"anon"}})
	assert.Equal(t, http.StatusFound, w.Code)

	w = a.as(reader).post(commentPath, url.Values{"text": {"   "}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), forms.MsgRequired)

	w = a.as(reader).post(commentPath, url.Values{"text": {"Nice post"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, post.URL(), w.Header().Get("Location"))

	w = a.as(reader).post(fmt.Sprintf("/posts/%d/comment/", hidden.ID), url.Values{"text": {"peek"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	var comments []models.Comment
	require.NoError(t, a.db.Find(&comments).Error)
	require.Len(t, comments, 1)
	assert.Equal(t, "Nice post", comments[0].Text)
	assert.Equal(t, reader.ID, comments[0].AuthorID)
}

func TestEditComment(t *testing.T) {
	a := newApp(t)

	author := testutil.CreateUser(t, a.db, "author")
	intruder := testutil.CreateUser(t, a.db, "intruder")
	post := testutil.PublicPost(t, a.db, author, testutil.CreateCategory(t, a.db, "C", true), "Post")
	comment := testutil.CreateComment(t, a.db, post, author, "original")
	editPath := fmt.Sprintf("/posts/%d/comment/%d/edit/", post.ID, comment.ID)
	deletePath := fmt.Sprintf("/posts/%d/comment/%d/delete/", post.ID, comment.ID)

	assert.Equal(t, http.StatusNotFound, a.as(intruder).get(editPath).Code)
	assert.Equal(t, http.StatusNotFound, a.as(intruder).post(editPath, url.Values{"text": {"hacked"}}).Code)
	assert.Equal(t, http.StatusNotFound, a.as(intruder).get(deletePath).Code)
	assert.Equal(t, http.StatusNotFound, a.as(intruder).post(deletePath, nil).Code)

	w := a.as(author).get(editPath)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "original")

	w = a.as(author).post(editPath, url.Values{"text": {""}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), forms.MsgRequired)
	assert.Equal(t, "original", reload[models.Comment](t, a.db, comment.ID).Text)

	w = a.as(author).post(editPath, url.Values{"text": {"improved"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, post.URL(), w.Header().Get("Location"))
	assert.Equal(t, "improved", reload[models.Comment](t, a.db, comment.ID).Text)

	assert.Equal(t, http.StatusOK, a.as(author).get(deletePath).Code)
	w = a.as(author).post(deletePath, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	var n int64
	require.NoError(t, a.db.Model(&models.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestProfile(t *testing.T) {
	a := newApp(t)

	owner := testutil.CreateUser(t, a.db, "owner")
	visitor := testutil.CreateUser(t, a.db, "visitor")
	cat := testutil.CreateCategory(t, a.db, "C", true)
	testutil.PublicPost(t, a.db, owner, cat, "Public one")
	testutil.CreatePost(t, a.db, testutil.PostOpts{Title: "Draft one", Author: owner, Category: cat})

	w := a.as(owner).get("/profile/owner/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, countCards(w.Body.String()))
	assert.Contains(t, w.Body.String(), "Edit profile")

	w = a.as(visitor).get("/profile/owner/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, countCards(w.Body.String()))
	assert.NotContains(t, w.Body.String(), "Draft one")

	assert.Equal(t, 1, countCards(a.anon().get("/profile/owner/").Body.String()))
	assert.Equal(t, http.StatusNotFound, a.anon().get("/profile/ghost/").Code)
}

func TestEditProfile(t *testing.T) {
	a := newApp(t)

	user := testutil.CreateUser(t, a.db, "alice")
	testutil.CreateUser(t, a.db, "taken")

	assert.Equal(t, http.StatusFound, a.anon().get("/profile/edit/").Code)

	w := a.as(user).get("/profile/edit/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="alice"`)

	w = a.as(user).post("/profile/edit/", url.Values{"username": {"taken"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	w = a.as(user).post("/profile/edit/", url.Values{"username": {"alice2"}, "first_name": {"Alice"}, "email": {"a@example.com"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/profile/alice2/", w.Header().Get("Location"))

	got := reload[models.User](t, a.db, user.ID)
	assert.Equal(t, "alice2", got.Username)
	assert.Equal(t, "Alice", got.FirstName)
}

func TestRegistrationAndLogin(t *testing.T) {
	a := newApp(t)

	w := a.anon().post("/auth/registration/", url.Values{
		"username": {"newbie"}, "password1": {"long-enough-1"}, "password2": {"different-1"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "didn’t match")

	w = a.anon().post("/auth/registration/", url.Values{
		"username": {"newbie"}, "password1": {"long-enough-1"}, "password2": {"long-enough-1"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.NotEmpty(t, tokenCookie(w))

	w = a.anon().post("/auth/login/", url.Values{"username": {"newbie"}, "password": {"wrong"}})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a correct username and password")
	assert.Empty(t, tokenCookie(w))

	w = a.anon().post("/auth/login/", url.Values{"username": {"newbie"}, "password": {"long-enough-1"}, "next": {"/posts/create/"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/posts/create/", w.Header().Get("Location"))
	token := tokenCookie(w)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/posts/create/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	w = httptest.NewRecorder()
	a.r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.anon().post("/auth/login/", url.Values{"username": {"newbie"}, "password": {"long-enough-1"}, "next": {"//evil.test/"}})
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = a.anon().post("/auth/logout/", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie {
			assert.Negative(t, c.MaxAge)
		}
	}
}

func TestForms_RejectMissingCSRF(t *testing.T) {
	a := newApp(t)
	user := testutil.CreateUser(t, a.db, "writer")
	cat := testutil.CreateCategory(t, a.db, "C", true)

	req := httptest.NewRequest(http.MethodPost, "/posts/create/", strings.NewReader(postValues("No token", cat).Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	token, err := a.jwt.GenerateJWT(user.ID)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: token})
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "CSRF verification failed")
}

func tokenCookie(w *httptest.ResponseRecorder) string {
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.TokenCookie && c.MaxAge > 0 {
			return c.Value
		}
	}
	return ""
}
