package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"policy-service/internal/auth"
	apihttp "policy-service/internal/http"
	"policy-service/internal/http/middleware"
	"policy-service/internal/model"
	"policy-service/internal/render"
	"policy-service/internal/repository"
	"policy-service/internal/service"
	"policy-service/internal/vehicles"
)

const testSecret = "test-secret"

type stubRenderer struct {
	doc render.PolicyDocument
	err error
}

func (s *stubRenderer) Render(w io.Writer, doc render.PolicyDocument, _ render.RenderOptions) error {
	s.doc = doc
	if s.err != nil {
		return s.err
	}
	_, err := w.Write([]byte("%PDF-1.4 stub"))
	return err
}

type memoryJournal struct {
	records []*model.PolicyRecord
}

func (m *memoryJournal) Create(_ context.Context, record *model.PolicyRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *memoryJournal) GetByID(_ context.Context, id string) (*model.PolicyRecord, error) {
	for _, r := range m.records {
		if r.ID.String() == id {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryJournal) List(_ context.Context, _ repository.PolicyListFilter) ([]model.PolicyRecord, error) {
	result := make([]model.PolicyRecord, 0, len(m.records))
	for _, r := range m.records {
		result = append(result, *r)
	}
	return result, nil
}

type testServer struct {
	router   *gin.Engine
	renderer *stubRenderer
	journal  *memoryJournal
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalogPath := filepath.Join(t.TempDir(), "models.json")
	require.NoError(t, os.WriteFile(catalogPath, []byte(`{"data":[
		{"id":"TOYOTA","name":"Toyota","cyrillic_name":"Тойота","models":[{"id":"CAMRY","name":"Camry"}]}
	]}`), 0o600))

	renderer := &stubRenderer{}
	journal := &memoryJournal{}
	now := time.Date(2024, 3, 15, 9, 30, 5, 0, time.UTC)
	policyService := service.NewPolicyService(renderer, journal, render.DefaultFontSize, zerolog.Nop()).
		WithClock(func() time.Time { return now })

	handler := apihttp.NewHandler(
		service.NewTextService(),
		policyService,
		vehicles.NewCatalog(catalogPath, time.Minute),
		zerolog.Nop(),
	)
	router, err := apihttp.NewRouter(handler, middleware.Auth(auth.NewParser(testSecret)), "test", 1024, zerolog.Nop())
	require.NoError(t, err)

	return &testServer{router: router, renderer: renderer, journal: journal}
}

func (s *testServer) do(t *testing.T, method, path string, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func bearer(t *testing.T) http.Header {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "operator-1",
		"role":    "operator",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return http.Header{"Authorization": []string{"Bearer " + token}}
}

const validPolicyBody = `{
	"fio": "Пупкин Кирилл Васильевич",
	"address": "г. Смоленск, ул. Пушкина, д. 7",
	"date_start": "15.03.2024",
	"date_end": "14.03.2025",
	"reg_number": "А123ВС 77",
	"vehicle_type": "B",
	"brand_model": "Тойота Camry"
}`

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	rec = s.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestValidateDate(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name   string
		body   string
		status int
		valid  bool
	}{
		{name: "valid", body: `{"date":"29.02.2024"}`, status: http.StatusOK, valid: true},
		{name: "impossible day", body: `{"date":"31.02.2024"}`, status: http.StatusOK, valid: false},
		{name: "wrong layout", body: `{"date":"2024-02-01"}`, status: http.StatusOK, valid: false},
		{name: "missing", body: `{}`, status: http.StatusBadRequest, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(t, http.MethodPost, "/api/validate-date", tt.body, nil)
			require.Equal(t, tt.status, rec.Code)
			out := decode(t, rec)
			assert.Equal(t, tt.valid, out["valid"])
			if !tt.valid {
				assert.NotEmpty(t, out["error"])
			}
		})
	}
}

func TestTransliterate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/transliterate", `{"fio":"Дарья","reg_number":"а123вс"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "DARYA", out["fio"])
	assert.Equal(t, "DARYA", out["fio_transliterated"])
	assert.Equal(t, "A123BC", out["reg_number"])
	assert.NotContains(t, out, "address")

	rec = s.do(t, http.MethodPost, "/api/transliterate", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestConvertUppercase(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/convert-uppercase", `{"address":"ул. ленина","text":"abc"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "УЛ. ЛЕНИНА", out["address"])
	assert.Equal(t, "ABC", out["text"])
}

func TestValidateLicensePlate(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/validate-license-plate",
		`{"license_plate":{"category":"standard","letter1":"А","digits":"123","letters":"ВС","region":"77"}}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["valid"])

	rec = s.do(t, http.MethodPost, "/api/validate-license-plate",
		`{"license_plate":{"category":"standard","letter1":"А","digits":"12","letters":"ВС","region":"77"}}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, false, out["valid"])
	assert.Contains(t, out["error"], "digits")

	rec = s.do(t, http.MethodPost, "/api/validate-license-plate", `{}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "category is required", decode(t, rec)["error"])
}

func TestGeneratePDF(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/generate-pdf", validPolicyBody, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="policy_20240315_093005.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))

	require.Len(t, s.journal.records, 1)
	assert.Equal(t, s.journal.records[0].ID.String(), rec.Header().Get("X-Policy-ID"))

	assert.Equal(t, "PUPKIN KIRILL VASILYEVICH", s.renderer.doc.Holder)
	assert.Equal(t, "A123BC77", s.renderer.doc.Plate)
	assert.Equal(t, render.DateParts{Day: "15", Month: "03", Year: "2024"}, s.renderer.doc.Start)
}

func TestGeneratePDFValidation(t *testing.T) {
	s := newTestServer(t)

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		message string
	}{
		{name: "latin fio", mutate: func(m map[string]any) { m["fio"] = "Ivanov" }, message: "field fio"},
		{name: "missing address", mutate: func(m map[string]any) { delete(m, "address") }, message: "field address is required"},
		{name: "bad date", mutate: func(m map[string]any) { m["date_end"] = "2025-03-14" }, message: "field date_end"},
		{name: "unknown type", mutate: func(m map[string]any) { m["vehicle_type"] = "Z" }, message: "field vehicle_type"},
		{name: "font too large", mutate: func(m map[string]any) { m["font_size"] = 20 }, message: "field font_size"},
		{name: "end before start", mutate: func(m map[string]any) { m["date_end"] = "01.01.2024" }, message: "date_end is before date_start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]any
			require.NoError(t, json.Unmarshal([]byte(validPolicyBody), &body))
			tt.mutate(body)
			raw, err := json.Marshal(body)
			require.NoError(t, err)

			rec := s.do(t, http.MethodPost, "/api/generate-pdf", string(raw), nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode(t, rec)["error"], tt.message)
		})
	}
}

func TestGeneratePDFTemplateMissing(t *testing.T) {
	s := newTestServer(t)
	s.renderer.err = render.ErrTemplateMissing

	rec := s.do(t, http.MethodPost, "/api/generate-pdf", validPolicyBody, nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "pdf template not found", decode(t, rec)["error"])
}

func TestBodyLimit(t *testing.T) {
	s := newTestServer(t)

	body := `{"text":"` + strings.Repeat("а", 2048) + `"}`
	rec := s.do(t, http.MethodPost, "/api/transliterate", body, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestVehicleEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/vehicle-brands", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	brands := decode(t, rec)["brands"].([]any)
	require.Len(t, brands, 1)
	assert.Equal(t, "TOYOTA", brands[0].(map[string]any)["id"])

	rec = s.do(t, http.MethodGet, "/api/vehicle-models/toyota", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	models := decode(t, rec)["models"].([]any)
	require.Len(t, models, 1)
	assert.Equal(t, "Toyota Camry", models[0].(map[string]any)["full_name"])

	rec = s.do(t, http.MethodGet, "/api/vehicle-models/unknown", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode(t, rec)["models"])

	rec = s.do(t, http.MethodGet, "/api/search-vehicles?q=cam", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	results := decode(t, rec)["results"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "Toyota Camry", results[0].(map[string]any)["value"])
}

func TestPolicyJournal(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/api/policies", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/generate-pdf", validPolicyBody, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	id := rec.Header().Get("X-Policy-ID")

	rec = s.do(t, http.MethodGet, "/api/policies", "", bearer(t))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["data"], 1)

	rec = s.do(t, http.MethodGet, "/api/policies/"+id, "", bearer(t))
	require.Equal(t, http.StatusOK, rec.Code)
	record := decode(t, rec)["data"].(map[string]any)
	assert.Equal(t, "A123BC77", record["plate_number"])

	rec = s.do(t, http.MethodGet, "/api/policies/"+uuid.NewString(), "", bearer(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/policies/not-a-uuid", "", bearer(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/policies?from=2024-01-01", "", bearer(t))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
