package delivery

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub/config"
	"schoolhub/domain"
)

type stubSchoolUC struct {
	created   *domain.School
	createErr error
	list      []domain.School
	listErr   error
	gotReq    *domain.SchoolSubmission
}

func (s *stubSchoolUC) CreateSchoolUC(ctx context.Context, req *domain.SchoolSubmission) (*domain.School, error) {
	s.gotReq = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.created, nil
}

func (s *stubSchoolUC) GetAllSchoolUC(ctx context.Context) (*[]domain.School, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return &s.list, nil
}

func newTestApp(stub *stubSchoolUC) *fiber.App {
	app := fiber.New(config.GetFiberConfig())
	NewSchoolDelivery(app, stub)
	NewHealthDelivery(app)
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Error   any             `json:"error"`
	Data    []domain.School `json:"data"`
}

func decodeEnvelope(t *testing.T, resp io.Reader) envelope {
	t.Helper()
	body, err := io.ReadAll(resp)
	require.NoError(t, err)
	var env envelope
	require.NoError(t, sonic.Unmarshal(body, &env))
	return env
}

func TestInsertSchoolJSON(t *testing.T) {
	stub := &stubSchoolUC{
		created: &domain.School{SchoolID: 7, Name: "Lotus School", EmailID: "admin@lotus.edu", CreatedAt: time.Now()},
	}
	app := newTestApp(stub)

	payload := map[string]string{
		"name":         "Lotus School",
		"address":      "12 Park Lane, near city hall",
		"city":         "Springfield",
		"state":        "IL",
		"contact":      "+1-555-123-4567",
		"email_id":     "Admin@Lotus.Edu",
		"image_base64": base64.StdEncoding.EncodeToString([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}),
		"image_name":   "campus.jpg",
	}
	body, err := sonic.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/school/insert", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.NotNil(t, stub.gotReq)
	assert.Equal(t, "Lotus School", stub.gotReq.Name)
	require.NotNil(t, stub.gotReq.Image)
	assert.Equal(t, "campus.jpg", stub.gotReq.Image.Filename)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00}, stub.gotReq.Image.Data)
}

func TestInsertSchoolJSONDataURL(t *testing.T) {
	stub := &stubSchoolUC{created: &domain.School{SchoolID: 1}}
	app := newTestApp(stub)

	raw := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}
	payload := map[string]string{
		"name":         "Lotus School",
		"address":      "12 Park Lane, near city hall",
		"city":         "Springfield",
		"state":        "IL",
		"contact":      "+1-555-123-4567",
		"email_id":     "admin@lotus.edu",
		"image_base64": "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw),
	}
	body, err := sonic.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/school/insert", bytes.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.NotNil(t, stub.gotReq.Image)
	assert.Equal(t, raw, stub.gotReq.Image.Data)
	assert.Equal(t, "upload", stub.gotReq.Image.Filename)
}

func TestInsertSchoolMultipart(t *testing.T) {
	stub := &stubSchoolUC{created: &domain.School{SchoolID: 1}}
	app := newTestApp(stub)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":     "Lotus School",
		"address":  "12 Park Lane, near city hall",
		"city":     "Springfield",
		"state":    "IL",
		"contact":  "+1-555-123-4567",
		"email_id": "admin@lotus.edu",
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("image", "campus front.jpg")
	require.NoError(t, err)
	_, err = fw.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/school/insert", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.NotNil(t, stub.gotReq)
	assert.Equal(t, "Springfield", stub.gotReq.City)
	require.NotNil(t, stub.gotReq.Image)
	assert.Equal(t, "campus front.jpg", stub.gotReq.Image.Filename)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF, 0xE0}, stub.gotReq.Image.Data)
}

func multipartSubmission(t *testing.T, imageData []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":     "Lotus School",
		"address":  "12 Park Lane, near city hall",
		"city":     "Springfield",
		"state":    "IL",
		"contact":  "+1-555-123-4567",
		"email_id": "admin@lotus.edu",
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	fw, err := w.CreateFormFile("image", "campus.jpg")
	require.NoError(t, err)
	_, err = fw.Write(imageData)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestInsertSchoolLargeImageReachesHandler(t *testing.T) {
	stub := &stubSchoolUC{created: &domain.School{SchoolID: 1}}
	app := newTestApp(stub)

	// 4.5MB is within the 5MB image limit; the transport must not reject
	// it before the ingestion gate sees it.
	imageData := make([]byte, 4608*1024)
	copy(imageData, []byte{0xFF, 0xD8, 0xFF, 0xE0})

	body, contentType := multipartSubmission(t, imageData)
	req := httptest.NewRequest(fiber.MethodPost, "/school/insert", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.NotNil(t, stub.gotReq)
	require.NotNil(t, stub.gotReq.Image)
	assert.Len(t, stub.gotReq.Image.Data, 4608*1024)
}

func TestInsertSchoolOversizedImageGetsIngestionEnvelope(t *testing.T) {
	// A 6MB upload must fail at the ingestion gate with the usecase's
	// error envelope, not at the transport with a bare 413.
	stub := &stubSchoolUC{
		createErr: &domain.ImageIngestionError{Reason: "Image size must be less than 5MB"},
	}
	app := newTestApp(stub)

	imageData := make([]byte, 6*1024*1024)
	copy(imageData, []byte{0xFF, 0xD8, 0xFF, 0xE0})

	body, contentType := multipartSubmission(t, imageData)
	req := httptest.NewRequest(fiber.MethodPost, "/school/insert", body)
	req.Header.Set(fiber.HeaderContentType, contentType)

	resp, err := app.Test(req, 10000)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	require.NotNil(t, stub.gotReq)
	env := decodeEnvelope(t, resp.Body)
	assert.False(t, env.Success)
	assert.Equal(t, "Image size must be less than 5MB", env.Error)
}

func TestInsertSchoolValidationErrorMapsTo400(t *testing.T) {
	stub := &stubSchoolUC{
		createErr: &domain.ValidationError{Message: "All fields are required", Missing: []string{"name", "image"}},
	}
	app := newTestApp(stub)

	req := httptest.NewRequest(fiber.MethodPost, "/school/insert", bytes.NewReader([]byte(`{}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	env := decodeEnvelope(t, resp.Body)
	assert.False(t, env.Success)
	assert.Equal(t, "All fields are required", env.Message)
}

func TestInsertSchoolIngestionErrorMapsTo500(t *testing.T) {
	stub := &stubSchoolUC{
		createErr: &domain.ImageIngestionError{Reason: "Image size must be less than 5MB"},
	}
	app := newTestApp(stub)

	req := httptest.NewRequest(fiber.MethodPost, "/school/insert", bytes.NewReader([]byte(`{"name":"x"}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	env := decodeEnvelope(t, resp.Body)
	assert.False(t, env.Success)
	assert.Equal(t, "Image size must be less than 5MB", env.Error)
}

func TestInsertSchoolPersistenceErrorMapsTo500(t *testing.T) {
	stub := &stubSchoolUC{
		createErr: &domain.PersistenceError{Op: "could not insert school", Err: fmt.Errorf("connection refused")},
	}
	app := newTestApp(stub)

	req := httptest.NewRequest(fiber.MethodPost, "/school/insert", bytes.NewReader([]byte(`{"name":"x"}`)))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestGetAllSchool(t *testing.T) {
	now := time.Now()
	stub := &stubSchoolUC{
		list: []domain.School{
			{SchoolID: 2, Name: "Northside High", City: "Chicago", State: "IL", CreatedAt: now},
			{SchoolID: 1, Name: "Lotus School", City: "Springfield", State: "IL", CreatedAt: now.Add(-time.Hour)},
		},
	}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/school/get_all", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp.Body)
	assert.True(t, env.Success)
	require.Len(t, env.Data, 2)
	assert.Equal(t, 2, env.Data[0].SchoolID)
	assert.Equal(t, 1, env.Data[1].SchoolID)
}

func TestGetAllSchoolWithFilter(t *testing.T) {
	stub := &stubSchoolUC{
		list: []domain.School{
			{SchoolID: 2, Name: "Northside High", City: "Chicago", State: "IL"},
			{SchoolID: 1, Name: "Lotus School", City: "Springfield", State: "IL"},
		},
	}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/school/get_all?city=Chicago", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	env := decodeEnvelope(t, resp.Body)
	require.Len(t, env.Data, 1)
	assert.Equal(t, "Northside High", env.Data[0].Name)
}

func TestGetAllSchoolRepoErrorMapsTo500(t *testing.T) {
	stub := &stubSchoolUC{
		listErr: &domain.PersistenceError{Op: "could not get all schools", Err: fmt.Errorf("connection refused")},
	}
	app := newTestApp(stub)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/school/get_all", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)

	env := decodeEnvelope(t, resp.Body)
	assert.False(t, env.Success)
}

func TestHealth(t *testing.T) {
	app := newTestApp(&stubSchoolUC{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
