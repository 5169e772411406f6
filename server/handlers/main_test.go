package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/problog/problog/model"
	"github.com/problog/problog/server"
	"github.com/problog/problog/server/auth"
	"github.com/problog/problog/server/file_store"
	"github.com/problog/problog/server/handlers"
	"github.com/problog/problog/utils"
	"github.com/problog/problog/utils/dotenv"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	dotenv.LoadDotEnvsInTests()
	if os.Getenv("SESSION_SECRET") == "" {
		os.Setenv("SESSION_SECRET", "test_only_session_secret")
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// newTestServer builds a router with the full route table against a temp DB
// and an in-memory file store. No Redis, so hydrate always reads the DB.
func newTestServer(t *testing.T) (*gorm.DB, *gin.Engine, *file_store.FakeFileStore) {
	t.Helper()
	db, _ := utils.CreateTempDB(t)
	fakeStore := file_store.NewFakeFileStore()

	router := gin.New()
	server.RegisterRoutes(router, handlers.New(db, fakeStore, nil), auth.NewHandler(db))
	return db, router, fakeStore
}

func createTestUser(t *testing.T, db *gorm.DB, name string) *model.User {
	t.Helper()
	user := model.User{
		Id:        uuid.New().String(),
		CreatedAt: time.Now(),
		Name:      name,
		Email:     name + "@example.com",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestPost(t *testing.T, db *gorm.DB, author *model.User, topic model.Topic, title string) *model.Post {
	t.Helper()
	post := model.Post{
		CreatedAt:   time.Now(),
		Topic:       topic,
		Title:       title,
		Description: "description of " + title,
		AuthorID:    author.Id,
	}
	require.NoError(t, db.Create(&post).Error)
	return &post
}

func sessionToken(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := auth.IssueSessionToken(user.Id)
	require.NoError(t, err)
	return token
}

func performRequest(router *gin.Engine, method, path, token, contentType string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getJSON(t *testing.T, router *gin.Engine, path, token string, out interface{}) int {
	t.Helper()
	w := performRequest(router, http.MethodGet, path, token, "", nil)
	if out != nil && w.Code < 400 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func postJSON(t *testing.T, router *gin.Engine, path, token string, in, out interface{}) int {
	t.Helper()
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	w := performRequest(router, http.MethodPost, path, token, "application/json", bytes.NewReader(raw))
	if out != nil && w.Code < 400 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func putJSON(t *testing.T, router *gin.Engine, path, token string, in, out interface{}) int {
	t.Helper()
	raw, err := json.Marshal(in)
	require.NoError(t, err)
	w := performRequest(router, http.MethodPut, path, token, "application/json", bytes.NewReader(raw))
	if out != nil && w.Code < 400 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

// postForm builds a multipart form from field name/value pairs and posts it.
func postForm(t *testing.T, router *gin.Engine, path, token string, fields [][2]string, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	for _, field := range fields {
		require.NoError(t, form.WriteField(field[0], field[1]))
	}
	require.NoError(t, form.Close())

	w := performRequest(router, http.MethodPost, path, token, form.FormDataContentType(), &buf)
	if out != nil && w.Code < 400 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out))
	}
	return w.Code
}

func feedIds(page *model.PostPage) []uint {
	ids := []uint{}
	for _, post := range page.Posts {
		ids = append(ids, post.Id)
	}
	return ids
}

func postPath(id uint, suffix string) string {
	return fmt.Sprintf("/api/posts/%d%s", id, suffix)
}
