package router

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edugen/studio/internal/config"
	"github.com/edugen/studio/internal/handler"
	"github.com/edugen/studio/internal/model"
	"github.com/edugen/studio/internal/repository"
	"github.com/edugen/studio/internal/response"
	"github.com/edugen/studio/internal/service"
	"github.com/edugen/studio/internal/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Setup()
	os.Exit(m.Run())
}

type testServer struct {
	*httptest.Server
	http *http.Client
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cfg := &config.Config{
		GinMode:        gin.TestMode,
		JWTSecret:      "router-test",
		JWTExpiry:      time.Hour,
		BcryptCost:     4,
		SessionCookie:  "session",
		MaxUploadBytes: 1 << 20,
		AuthRateLimit:  100,
	}
	log := zerolog.Nop()

	authService := service.NewAuthService(cfg, repository.NewUserRepository())
	materialService := service.NewMaterialService(repository.NewMaterialRepository(), service.MockGenerator{}, log)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	r := SetupRouter(ctx, authService, &Handlers{
		Auth:     handler.NewAuthHandler(authService, cfg),
		Material: handler.NewMaterialHandler(materialService, log),
		Generate: handler.NewGenerateHandler(materialService, cfg, log),
		Export:   handler.NewExportHandler(materialService, log),
	}, cfg)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testServer{Server: srv, http: &http.Client{Jar: jar}}
}

func (s *testServer) call(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, s.URL+path, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.http.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (s *testServer) register(t *testing.T) {
	t.Helper()
	status := s.call(t, http.MethodPost, "/api/auth/register",
		model.RegisterRequest{Email: "lecturer@school.lv", Password: "secret1"}, nil)
	require.Equal(t, http.StatusCreated, status)
}

func (s *testServer) generate(t *testing.T, fields map[string]string, file []byte) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if file != nil {
		part, err := mw.CreateFormFile("file", "notes.txt")
		require.NoError(t, err)
		_, err = part.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	resp, err := s.http.Post(s.URL+"/api/generate", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	var out map[string]string
	assert.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/health", nil, &out))
	assert.Equal(t, "ok", out["status"])
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	var body response.ErrorBody
	require.Equal(t, http.StatusUnauthorized, s.call(t, http.MethodGet, "/api/auth/me", nil, &body))
	assert.Equal(t, response.ErrNotAuthenticated, body.Code)
	assert.NotEmpty(t, body.RequestID)

	s.register(t)

	var me struct {
		User model.User `json:"user"`
	}
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/auth/me", nil, &me))
	assert.Equal(t, "lecturer@school.lv", me.User.Email)

	body = response.ErrorBody{}
	require.Equal(t, http.StatusConflict, s.call(t, http.MethodPost, "/api/auth/register",
		model.RegisterRequest{Email: "lecturer@school.lv", Password: "secret1"}, &body))
	assert.Equal(t, response.ErrEmailTaken, body.Code)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/auth/logout", nil, nil))
	require.Equal(t, http.StatusUnauthorized, s.call(t, http.MethodGet, "/api/auth/me", nil, nil))

	body = response.ErrorBody{}
	require.Equal(t, http.StatusUnauthorized, s.call(t, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Email: "lecturer@school.lv", Password: "wrong-one"}, &body))
	assert.Equal(t, response.ErrInvalidCredentials, body.Code)
	assert.Equal(t, "Invalid email or password.", body.Error)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodPost, "/api/auth/login",
		model.LoginRequest{Email: "lecturer@school.lv", Password: "secret1"}, nil))
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/auth/me", nil, nil))
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	var body response.ErrorBody
	status := s.call(t, http.MethodPost, "/api/auth/register",
		model.RegisterRequest{Email: "not-an-email", Password: "123"}, &body)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, response.ErrValidation, body.Code)
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "password")
}

func TestGenerateAndEditTest(t *testing.T) {
	s := newTestServer(t)
	s.register(t)

	status, out := s.generate(t, map[string]string{
		"material_type": "test",
		"title":         "Photosynthesis",
		"content":       "Plants use light to make sugar.",
		"num_questions": "4",
	}, nil)
	require.Equal(t, http.StatusCreated, status)
	id := int64(out["id"].(float64))

	var list struct {
		Materials []model.MaterialSummary `json:"materials"`
		Total     int                     `json:"total"`
	}
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, "/api/materials", nil, &list))
	require.Equal(t, 1, list.Total)
	assert.Equal(t, 4, list.Materials[0].TotalQuestions)

	var body response.ErrorBody
	require.Equal(t, http.StatusBadRequest, s.call(t, http.MethodGet, "/api/materials/1", nil, &body))
	assert.Equal(t, response.ErrInvalidMaterialType, body.Code)

	path := "/api/materials/" + itoa(id)
	var test model.Test
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, path+"?type=test", nil, &test))
	require.Len(t, test.Assignments, 2)
	oldID := test.Assignments[0].ID

	test.Title = "Photosynthesis, revised"
	test.Assignments = append(test.Assignments, model.Assignment{
		ID: model.LocalID("local-1"), ClientRef: "local-1", Title: "Extra", Position: 3,
	})
	update := struct {
		Type model.MaterialKind `json:"type"`
		*model.Test
	}{model.MaterialKindTest, &test}
	require.Equal(t, http.StatusOK, s.call(t, http.MethodPut, path, update, nil))

	var saved model.Test
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, path+"?type=test", nil, &saved))
	assert.Equal(t, "Photosynthesis, revised", saved.Title)
	require.Len(t, saved.Assignments, 3)
	assert.NotEqual(t, oldID, saved.Assignments[0].ID)
	assert.Equal(t, "local-1", saved.Assignments[2].ClientRef)
	assert.False(t, saved.LocalIDs())

	extraID, _ := saved.Assignments[2].ID.Persisted()
	var gen struct {
		Questions []model.Question `json:"questions"`
	}
	status = s.call(t, http.MethodPost, path+"/generate-questions", model.GenerateQuestionsRequest{
		AssignmentID: extraID, AssignmentTitle: "Extra", NumQuestions: 2, Difficulty: model.DifficultyEasy,
	}, &gen)
	require.Equal(t, http.StatusCreated, status)
	require.Len(t, gen.Questions, 2)
	assert.Equal(t, 1, gen.Questions[0].Position)

	body = response.ErrorBody{}
	status = s.call(t, http.MethodPost, path+"/generate-questions", model.GenerateQuestionsRequest{
		AssignmentID: 9999, NumQuestions: 2, Difficulty: model.DifficultyEasy,
	}, &body)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, response.ErrAssignmentNotFound, body.Code)

	require.Equal(t, http.StatusOK, s.call(t, http.MethodDelete, path+"?type=test", nil, nil))
	require.Equal(t, http.StatusNotFound, s.call(t, http.MethodGet, path+"?type=test", nil, nil))
}

func TestGenerateFromFile(t *testing.T) {
	s := newTestServer(t)
	s.register(t)

	status, out := s.generate(t, map[string]string{
		"material_type": "study_material",
		"title":         "Cells",
	}, []byte("Cells are the basic unit of life."))
	require.Equal(t, http.StatusCreated, status)

	var m struct {
		Type    model.MaterialKind `json:"type"`
		Content model.StudyContent `json:"content"`
	}
	path := "/api/materials/" + itoa(int64(out["id"].(float64))) + "?type=study_material"
	require.Equal(t, http.StatusOK, s.call(t, http.MethodGet, path, nil, &m))
	assert.Equal(t, model.MaterialKindStudyMaterial, m.Type)
	assert.Len(t, m.Content.Terms, 10)

	status, out = s.generate(t, map[string]string{"material_type": "test", "title": "Empty"}, nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, string(response.ErrContentRequired), out["code"])

	status, out = s.generate(t, map[string]string{"material_type": "test", "title": "Blank"}, []byte("   "))
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, string(response.ErrEmptyContent), out["code"])

	status, out = s.generate(t, map[string]string{"material_type": "quiz", "title": "Bad", "content": "x"}, nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, string(response.ErrValidation), out["code"])
}

func TestExport(t *testing.T) {
	s := newTestServer(t)
	s.register(t)

	_, out := s.generate(t, map[string]string{
		"material_type": "test",
		"title":         "Cell biology",
		"content":       "Cells.",
		"num_questions": "3",
	}, nil)
	id := itoa(int64(out["id"].(float64)))

	resp, err := s.http.Get(s.URL + "/api/export/pdf/" + id + "?type=test&include_answers=false")
	require.NoError(t, err)
	data, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Equal(t, `attachment; filename=Cell_biology_student_version.pdf`, resp.Header.Get("Content-Disposition"))
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	resp, err = s.http.Get(s.URL + "/api/export/odt/" + id + "?type=test")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = s.http.Get(s.URL + "/api/export/docx/" + id + "?type=study_material")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMaterialsRequireSession(t *testing.T) {
	s := newTestServer(t)
	for _, path := range []string{"/api/materials", "/api/materials/1?type=test", "/api/export/pdf/1?type=test"} {
		assert.Equal(t, http.StatusUnauthorized, s.call(t, http.MethodGet, path, nil, nil), path)
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
