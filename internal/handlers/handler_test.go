package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"siteinspect_backend/internal/imageprocessor"
	"siteinspect_backend/internal/middleware"
	"siteinspect_backend/internal/models"
	"siteinspect_backend/internal/pdf"
	"siteinspect_backend/internal/repositories"
	"siteinspect_backend/internal/services"
	"siteinspect_backend/internal/storage"
	"siteinspect_backend/internal/validator"
)

// newTestRouter поднимает полный HTTP-стек поверх временной sqlite-базы
// и локального хранилища.
func newTestRouter(t *testing.T) (*gin.Engine, storage.Storage) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()

	db, err := gorm.Open(sqlite.Open(filepath.Join(dir, "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Project{}, &models.Inspection{}, &models.Photo{}))

	store, err := storage.NewLocalStorage(storage.Config{
		Type:     "local",
		BasePath: filepath.Join(dir, "uploads"),
		PDFDir:   "pdfs",
		PhotoDir: "photos",
	})
	require.NoError(t, err)

	projectRepo := repositories.NewProjectRepository()
	inspectionRepo := repositories.NewInspectionRepository()
	photoRepo := repositories.NewPhotoRepository()

	processor := imageprocessor.NewProcessor(400, 85)
	generator := pdf.NewGenerator(store, "pdfs")

	inspectionService := services.NewInspectionService(inspectionRepo, projectRepo, photoRepo, store, generator, nil)
	projectService := services.NewProjectService(projectRepo, inspectionRepo, photoRepo, inspectionService, store)
	photoService := services.NewPhotoService(photoRepo, inspectionRepo, store, processor, nil)

	base := NewBaseHandler(validator.New())

	router := gin.New()
	router.Use(middleware.DBMiddleware(db))

	api := router.Group("/api")
	NewProjectHandler(base, projectService).RegisterRoutes(api)
	NewInspectionHandler(base, inspectionService).RegisterRoutes(api)
	NewPhotoHandler(base, photoService).RegisterRoutes(api)

	return router, store
}

func sendJSON(t *testing.T, router *gin.Engine, method, path string, headers map[string]string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	} else {
		reader = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "body: %s", w.Body.String())
	return body
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "body: %s", w.Body.String())
	msg, _ := errObj["message"].(string)
	return msg
}

func projectPayload(owner string) map[string]interface{} {
	return map[string]interface{}{
		"name":       "Riverside Tower",
		"location":   "Block 3",
		"contractor": "Acme Construction",
		"start_date": "2024-01-10",
		"end_date":   "2025-06-30",
		"owner":      owner,
	}
}

func createProjectHTTP(t *testing.T, router *gin.Engine, owner string) uint {
	t.Helper()
	w := sendJSON(t, router, http.MethodPost, "/api/projects/", nil, projectPayload(owner))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}

func createInspectionHTTP(t *testing.T, router *gin.Engine, projectID uint) uint {
	t.Helper()
	w := sendJSON(t, router, http.MethodPost, "/api/inspections/", nil, map[string]interface{}{
		"project_id":           projectID,
		"subproject_name":      "Foundation",
		"inspection_form_name": "Concrete pour checklist",
		"inspection_date":      "2024-03-05",
		"location":             "Pit A",
		"timing":               models.TimingHoldPoint,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decodeBody(t, w)
	return uint(body["id"].(float64))
}

// ----------------------------------------------------------------------------
// Projects
// ----------------------------------------------------------------------------

func TestCreateProject(t *testing.T) {
	router, _ := newTestRouter(t)

	w := sendJSON(t, router, http.MethodPost, "/api/projects/", nil, projectPayload("alice"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Riverside Tower", body["name"])
	assert.Equal(t, "alice", body["owner"])
	assert.Equal(t, "2024-01-10", body["start_date"])
	assert.NotZero(t, body["id"])
}

func TestCreateProjectValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	payload := projectPayload("alice")
	delete(payload, "name")

	w := sendJSON(t, router, http.MethodPost, "/api/projects/", nil, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestGetProjectNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := sendJSON(t, router, http.MethodGet, "/api/projects/999", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Project not found", errorMessage(t, w))
}

func TestGetProjectOwnerHeaderOptional(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createProjectHTTP(t, router, "alice")
	path := fmt.Sprintf("/api/projects/%d", id)

	// Без заголовка - доступ свободный
	w := sendJSON(t, router, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Совпадающий заголовок - доступ разрешен
	w = sendJSON(t, router, http.MethodGet, path, map[string]string{"Owner": "alice"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// Чужой заголовок - отказ
	w = sendJSON(t, router, http.MethodGet, path, map[string]string{"Owner": "mallory"}, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Access denied: You are not the owner of this project", errorMessage(t, w))
}

func TestListProjectsFiltersByOwnerHeader(t *testing.T) {
	router, _ := newTestRouter(t)
	createProjectHTTP(t, router, "alice")
	createProjectHTTP(t, router, "alice")
	createProjectHTTP(t, router, "bob")

	w := sendJSON(t, router, http.MethodGet, "/api/projects/", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var all []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	assert.Len(t, all, 3)

	w = sendJSON(t, router, http.MethodGet, "/api/projects/", map[string]string{"Owner": "alice"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var filtered []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &filtered))
	assert.Len(t, filtered, 2)
}

func TestUpdateProjectRequiresOwnerHeader(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createProjectHTTP(t, router, "alice")
	path := fmt.Sprintf("/api/projects/%d", id)

	payload := projectPayload("alice")
	payload["name"] = "Riverside Tower Phase 2"

	// Без заголовка - отказ
	w := sendJSON(t, router, http.MethodPut, path, nil, payload)
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	// Чужой заголовок - отказ
	w = sendJSON(t, router, http.MethodPut, path, map[string]string{"Owner": "mallory"}, payload)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Владелец - успех
	w = sendJSON(t, router, http.MethodPut, path, map[string]string{"Owner": "alice"}, payload)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Equal(t, "Riverside Tower Phase 2", body["name"])
}

func TestDeleteProjectRequiresOwnerHeader(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createProjectHTTP(t, router, "alice")
	path := fmt.Sprintf("/api/projects/%d", id)

	w := sendJSON(t, router, http.MethodDelete, path, map[string]string{"Owner": "mallory"}, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = sendJSON(t, router, http.MethodDelete, path, map[string]string{"Owner": "alice"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// Удаленная запись возвращается в теле ответа
	body := decodeBody(t, w)
	assert.Equal(t, float64(id), body["id"])

	w = sendJSON(t, router, http.MethodGet, path, nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProjectStorageReport(t *testing.T) {
	router, _ := newTestRouter(t)
	id := createProjectHTTP(t, router, "alice")

	w := sendJSON(t, router, http.MethodGet, fmt.Sprintf("/api/projects/%d/storage", id), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, true, body["exists"])
	assert.Equal(t, float64(0), body["total_size_bytes"])
	assert.Equal(t, "0 B", body["total_size_formatted"])
}

func TestProjectStorageReportMissingProject(t *testing.T) {
	router, _ := newTestRouter(t)

	// Несуществующий проект - это данные, а не ошибка
	w := sendJSON(t, router, http.MethodGet, "/api/projects/424242/storage", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["exists"])
	assert.Equal(t, "Project not found", body["error"])
}

// ----------------------------------------------------------------------------
// Inspections
// ----------------------------------------------------------------------------

func TestCreateInspectionRejectsUnknownTiming(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createProjectHTTP(t, router, "alice")

	w := sendJSON(t, router, http.MethodPost, "/api/inspections/", nil, map[string]interface{}{
		"project_id":           projectID,
		"subproject_name":      "Foundation",
		"inspection_form_name": "Checklist",
		"inspection_date":      "2024-03-05",
		"location":             "Pit A",
		"timing":               "whenever",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestInspectionNotFoundMessage(t *testing.T) {
	router, _ := newTestRouter(t)

	w := sendJSON(t, router, http.MethodGet, "/api/inspections/999", nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Inspection not found", errorMessage(t, w))
}

func TestUpdateInspectionResult(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createProjectHTTP(t, router, "alice")
	inspectionID := createInspectionHTTP(t, router, projectID)

	w := sendJSON(t, router, http.MethodPut, fmt.Sprintf("/api/inspections/%d", inspectionID), nil, map[string]interface{}{
		"result": models.ResultPass,
		"remark": "all good",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, models.ResultPass, body["result"])
	assert.Equal(t, "all good", body["remark"])
}

func TestListInspectionsFilterByProject(t *testing.T) {
	router, _ := newTestRouter(t)
	p1 := createProjectHTTP(t, router, "alice")
	p2 := createProjectHTTP(t, router, "bob")
	createInspectionHTTP(t, router, p1)
	createInspectionHTTP(t, router, p1)
	createInspectionHTTP(t, router, p2)

	w := sendJSON(t, router, http.MethodGet, fmt.Sprintf("/api/inspections/?project_id=%d", p1), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Len(t, list, 2)
}

func TestUploadInspectionPDF(t *testing.T) {
	router, store := newTestRouter(t)
	projectID := createProjectHTTP(t, router, "alice")
	inspectionID := createInspectionHTTP(t, router, projectID)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "report.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/inspections/%d/upload-pdf", inspectionID), &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	pdfPath, _ := body["pdf_path"].(string)
	require.NotEmpty(t, pdfPath)

	exists, err := store.Exists(req.Context(), pdfPath)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestGenerateInspectionPDF(t *testing.T) {
	router, store := newTestRouter(t)
	projectID := createProjectHTTP(t, router, "alice")
	inspectionID := createInspectionHTTP(t, router, projectID)

	w := sendJSON(t, router, http.MethodPost, fmt.Sprintf("/api/inspections/%d/generate-pdf", inspectionID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	pdfPath, _ := body["pdf_path"].(string)
	require.NotEmpty(t, pdfPath)

	exists, err := store.Exists(httptest.NewRequest(http.MethodGet, "/", nil).Context(), pdfPath)
	require.NoError(t, err)
	assert.True(t, exists)
}

// ----------------------------------------------------------------------------
// Photos
// ----------------------------------------------------------------------------

func uploadPhotoHTTP(t *testing.T, router *gin.Engine, inspectionID uint) map[string]interface{} {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("inspection_id", fmt.Sprintf("%d", inspectionID)))
	require.NoError(t, writer.WriteField("capture_date", "2024-03-05"))
	require.NoError(t, writer.WriteField("caption", "east wall"))
	part, err := writer.CreateFormFile("file", "site.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not-really-a-jpeg"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photos/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decodeBody(t, w)
}

func TestCreatePhotoMultipart(t *testing.T) {
	router, store := newTestRouter(t)
	projectID := createProjectHTTP(t, router, "alice")
	inspectionID := createInspectionHTTP(t, router, projectID)

	body := uploadPhotoHTTP(t, router, inspectionID)

	assert.Equal(t, float64(inspectionID), body["inspection_id"])
	assert.Equal(t, "east wall", body["caption"])
	assert.Equal(t, "2024-03-05", body["capture_date"])

	photoPath, _ := body["photo_path"].(string)
	require.NotEmpty(t, photoPath)
	exists, err := store.Exists(httptest.NewRequest(http.MethodGet, "/", nil).Context(), photoPath)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreatePhotoRequiresFile(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createProjectHTTP(t, router, "alice")
	inspectionID := createInspectionHTTP(t, router, projectID)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("inspection_id", fmt.Sprintf("%d", inspectionID)))
	require.NoError(t, writer.WriteField("capture_date", "2024-03-05"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photos/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
}

func TestCreatePhotoRequiresExistingInspection(t *testing.T) {
	router, _ := newTestRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("inspection_id", "999"))
	require.NoError(t, writer.WriteField("capture_date", "2024-03-05"))
	part, err := writer.CreateFormFile("file", "site.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/photos/", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
}

func TestPatchPhotoCaption(t *testing.T) {
	router, _ := newTestRouter(t)
	projectID := createProjectHTTP(t, router, "alice")
	inspectionID := createInspectionHTTP(t, router, projectID)
	photo := uploadPhotoHTTP(t, router, inspectionID)
	photoID := uint(photo["id"].(float64))

	w := sendJSON(t, router, http.MethodPatch, fmt.Sprintf("/api/photos/%d", photoID), nil, map[string]interface{}{
		"caption": "west wall",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "west wall", body["caption"])
	// Прочие поля не тронуты
	assert.Equal(t, photo["photo_path"], body["photo_path"])
}

func TestDeletePhoto(t *testing.T) {
	router, store := newTestRouter(t)
	projectID := createProjectHTTP(t, router, "alice")
	inspectionID := createInspectionHTTP(t, router, projectID)
	photo := uploadPhotoHTTP(t, router, inspectionID)
	photoID := uint(photo["id"].(float64))
	photoPath := photo["photo_path"].(string)

	w := sendJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/photos/%d", photoID), nil, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	exists, err := store.Exists(httptest.NewRequest(http.MethodGet, "/", nil).Context(), photoPath)
	require.NoError(t, err)
	assert.False(t, exists)

	w = sendJSON(t, router, http.MethodGet, fmt.Sprintf("/api/photos/%d", photoID), nil, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Photo not found", errorMessage(t, w))
}
