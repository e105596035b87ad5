package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"estatehub/api/internal/config"
	"estatehub/api/internal/models"
	"estatehub/api/internal/repository"
	"estatehub/api/internal/security"
	"estatehub/api/internal/service"
)

// fakeUsers backs both the handler user store and the auth service store.
type fakeUsers struct {
	byID        map[primitive.ObjectID]models.User
	byEmail     map[string]models.User
	lastFilter  bson.M
	lastUpdates bson.M
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:    map[primitive.ObjectID]models.User{},
		byEmail: map[string]models.User{},
	}
}

func (f *fakeUsers) put(user models.User) {
	f.byID[user.ID] = user
	f.byEmail[user.Email] = user
}

func (f *fakeUsers) Create(_ context.Context, user models.User) (models.User, error) {
	if _, exists := f.byEmail[user.Email]; exists {
		return models.User{}, repository.ErrDuplicateEmail
	}
	user.ID = primitive.NewObjectID()
	f.put(user)
	return user, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) FindByEmail(_ context.Context, email string) (models.User, error) {
	user, ok := f.byEmail[email]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	return user, nil
}

func (f *fakeUsers) Find(_ context.Context, filter bson.M) ([]models.User, error) {
	f.lastFilter = filter
	users := []models.User{}
	for _, user := range f.byID {
		users = append(users, user)
	}
	return users, nil
}

func (f *fakeUsers) UpdateByID(_ context.Context, id primitive.ObjectID, updates bson.M) (models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return models.User{}, repository.ErrNotFound
	}
	f.lastUpdates = updates
	if name, ok := updates["name"].(string); ok {
		user.Name = name
	}
	if email, ok := updates["email"].(string); ok {
		user.Email = email
	}
	if photo, ok := updates["photo"].(string); ok {
		user.Photo = photo
	}
	f.put(user)
	return user, nil
}

func (f *fakeUsers) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	user, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.byEmail, user.Email)
	return nil
}

func (f *fakeUsers) SetResetToken(_ context.Context, id primitive.ObjectID, tokenHash string, expires time.Time) error {
	user, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordResetToken = tokenHash
	user.PasswordResetExpires = &expires
	f.put(user)
	return nil
}

func (f *fakeUsers) ClearResetToken(_ context.Context, id primitive.ObjectID) error {
	user, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
	f.put(user)
	return nil
}

func (f *fakeUsers) FindByResetToken(_ context.Context, tokenHash string, now time.Time) (models.User, error) {
	for _, user := range f.byID {
		if user.PasswordResetToken == tokenHash && user.PasswordResetExpires != nil && user.PasswordResetExpires.After(now) {
			return user, nil
		}
	}
	return models.User{}, repository.ErrNotFound
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id primitive.ObjectID, passwordHash string, changedAt time.Time) error {
	user, ok := f.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Password = passwordHash
	user.PasswordChangedAt = &changedAt
	user.PasswordResetToken = ""
	user.PasswordResetExpires = nil
	f.put(user)
	return nil
}

type fakeProperties struct {
	byID        map[primitive.ObjectID]models.Property
	created     []models.Property
	lastFilter  bson.M
	lastUpdates bson.M
	lastSearch  *repository.PropertySearch
	getCalls    int
	viewBumps   int
}

func newFakeProperties() *fakeProperties {
	return &fakeProperties{byID: map[primitive.ObjectID]models.Property{}}
}

func (f *fakeProperties) Create(_ context.Context, property models.Property) (models.Property, error) {
	property.ID = primitive.NewObjectID()
	f.byID[property.ID] = property
	f.created = append(f.created, property)
	return property, nil
}

func (f *fakeProperties) GetByID(_ context.Context, id primitive.ObjectID) (models.Property, error) {
	f.getCalls++
	property, ok := f.byID[id]
	if !ok {
		return models.Property{}, repository.ErrNotFound
	}
	return property, nil
}

func (f *fakeProperties) Find(_ context.Context, filter bson.M) ([]models.Property, error) {
	f.lastFilter = filter
	properties := []models.Property{}
	for _, property := range f.byID {
		properties = append(properties, property)
	}
	return properties, nil
}

func (f *fakeProperties) UpdateByID(_ context.Context, id primitive.ObjectID, updates bson.M) (models.Property, error) {
	property, ok := f.byID[id]
	if !ok {
		return models.Property{}, repository.ErrNotFound
	}
	f.lastUpdates = updates
	if name, ok := updates["name"].(string); ok {
		property.Name = name
	}
	f.byID[id] = property
	return property, nil
}

func (f *fakeProperties) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeProperties) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	f.viewBumps++
	return nil
}

func (f *fakeProperties) Search(_ context.Context, search repository.PropertySearch) ([]models.Property, error) {
	f.lastSearch = &search
	return []models.Property{}, nil
}

type fakeBlogs struct {
	byID        map[primitive.ObjectID]models.Blog
	lastFilter  bson.M
	lastUpdates bson.M
}

func newFakeBlogs() *fakeBlogs {
	return &fakeBlogs{byID: map[primitive.ObjectID]models.Blog{}}
}

func (f *fakeBlogs) Create(_ context.Context, blog models.Blog) (models.Blog, error) {
	blog.ID = primitive.NewObjectID()
	f.byID[blog.ID] = blog
	return blog, nil
}

func (f *fakeBlogs) GetByID(_ context.Context, id primitive.ObjectID) (models.Blog, error) {
	blog, ok := f.byID[id]
	if !ok {
		return models.Blog{}, repository.ErrNotFound
	}
	return blog, nil
}

func (f *fakeBlogs) Find(_ context.Context, filter bson.M) ([]models.Blog, error) {
	f.lastFilter = filter
	blogs := []models.Blog{}
	for _, blog := range f.byID {
		blogs = append(blogs, blog)
	}
	return blogs, nil
}

func (f *fakeBlogs) UpdateByID(_ context.Context, id primitive.ObjectID, updates bson.M) (models.Blog, error) {
	blog, ok := f.byID[id]
	if !ok {
		return models.Blog{}, repository.ErrNotFound
	}
	f.lastUpdates = updates
	return blog, nil
}

func (f *fakeBlogs) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeBlogs) IncrementViews(_ context.Context, _ primitive.ObjectID) error {
	return nil
}

type fakeRequests struct {
	byID map[primitive.ObjectID]models.UserRequest
}

func newFakeRequests() *fakeRequests {
	return &fakeRequests{byID: map[primitive.ObjectID]models.UserRequest{}}
}

func (f *fakeRequests) Create(_ context.Context, request models.UserRequest) (models.UserRequest, error) {
	request.ID = primitive.NewObjectID()
	f.byID[request.ID] = request
	return request, nil
}

func (f *fakeRequests) GetByID(_ context.Context, id primitive.ObjectID) (models.UserRequest, error) {
	request, ok := f.byID[id]
	if !ok {
		return models.UserRequest{}, repository.ErrNotFound
	}
	return request, nil
}

func (f *fakeRequests) FindAll(_ context.Context) ([]models.UserRequest, error) {
	requests := []models.UserRequest{}
	for _, request := range f.byID {
		requests = append(requests, request)
	}
	return requests, nil
}

func (f *fakeRequests) DeleteByID(_ context.Context, id primitive.ObjectID) error {
	if _, ok := f.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeObjects struct {
	objects map[string]string
}

func (f *fakeObjects) Put(_ context.Context, objectKey string, reader io.Reader, _ int64, contentType string) error {
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return err
	}
	if f.objects == nil {
		f.objects = map[string]string{}
	}
	f.objects[objectKey] = contentType
	return nil
}

func (f *fakeObjects) PublicURL(objectKey string) string {
	return "https://media.example.com/" + objectKey
}

type stubMailer struct {
	lastURL string
}

func (m *stubMailer) SendPasswordReset(_, _, resetURL string) error {
	m.lastURL = resetURL
	return nil
}

type testEnv struct {
	cfg        *config.AppConfig
	users      *fakeUsers
	properties *fakeProperties
	blogs      *fakeBlogs
	requests   *fakeRequests
	objects    *fakeObjects
	mail       *stubMailer
	router     *gin.Engine
}

func newTestEnv() *testEnv {
	gin.SetMode(gin.TestMode)

	cfg := &config.AppConfig{
		Environment: "test",
		Security: config.SecurityConfig{
			JWTSecret:     "handler-test-secret",
			JWTTTL:        time.Hour,
			CookieTTL:     time.Hour,
			ResetTokenTTL: 10 * time.Minute,
		},
	}

	users := newFakeUsers()
	properties := newFakeProperties()
	blogs := newFakeBlogs()
	requests := newFakeRequests()
	objects := &fakeObjects{}
	mail := &stubMailer{}

	h := HandlerSet{
		log:         zerolog.Nop(),
		cfg:         cfg,
		authService: service.NewAuthService(users, mail, cfg, zerolog.Nop()),
		uploads:     service.NewUploadService(objects, zerolog.Nop()),
		users:       users,
		properties:  properties,
		blogs:       blogs,
		requests:    requests,
	}

	router := gin.New()
	h.Register(router.Group("/api"))

	return &testEnv{
		cfg:        cfg,
		users:      users,
		properties: properties,
		blogs:      blogs,
		requests:   requests,
		objects:    objects,
		mail:       mail,
		router:     router,
	}
}

func (env *testEnv) seedUser(t *testing.T, email, password string, role models.UserRole) models.User {
	t.Helper()
	hash, err := security.HashPassword(password)
	require.NoError(t, err)
	user := models.User{
		ID:       primitive.NewObjectID(),
		Name:     "Ada",
		Email:    email,
		Role:     role,
		Password: hash,
		Active:   true,
	}
	env.users.put(user)
	return user
}

func (env *testEnv) tokenFor(t *testing.T, user models.User) string {
	t.Helper()
	token, err := security.GenerateSessionToken(env.cfg.Security.JWTSecret, user.ID.Hex(), env.cfg.Security.JWTTTL)
	require.NoError(t, err)
	return token
}

type requestOption func(*http.Request)

func withBearer(token string) requestOption {
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

func (env *testEnv) do(method, target, body string, opts ...requestOption) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

type multipartFile struct {
	field       string
	filename    string
	contentType string
}

// multipartBody builds a form with a "data" JSON value plus the given files.
func multipartBody(t *testing.T, data string, files ...multipartFile) (io.Reader, string) {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if data != "" {
		require.NoError(t, writer.WriteField("data", data))
	}
	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.filename))
		header.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("file-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &body, writer.FormDataContentType()
}

func (env *testEnv) doMultipart(method, target string, body io.Reader, contentType string, opts ...requestOption) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set("Content-Type", contentType)
	for _, opt := range opts {
		opt(req)
	}
	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}
