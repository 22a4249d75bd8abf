package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Brekey53/atec-admin-api/internal/dto"
	internalmiddleware "github.com/Brekey53/atec-admin-api/internal/middleware"
	"github.com/Brekey53/atec-admin-api/internal/models"
	"github.com/Brekey53/atec-admin-api/internal/service"
)

type scheduleGeneratorMock struct {
	captured dto.GenerateScheduleRequest
}

func (m *scheduleGeneratorMock) Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	m.captured = req
	return &dto.GenerateScheduleResponse{
		ClassID:   req.ClassID,
		Persisted: req.Persist,
		Sessions: []dto.SessionProposal{
			{CurriculumModuleID: "cm-1", ModuleName: "Networking Basics", TrainerID: "tr-1", RoomID: "rm-1", Date: "2025-01-06", StartTime: "09:00", EndTime: "12:00"},
		},
		Summary: []dto.ModuleSummaryEntry{
			{CurriculumModuleID: "cm-1", ModuleName: "Networking Basics", RequiredHours: 3, ScheduledHours: 3, Completed: true},
		},
	}, nil
}

func TestScheduleGeneratorGenerateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleGeneratorMock{}
	handler := &ScheduleGeneratorHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate", bytes.NewReader(validGeneratorPayload()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "cl-1", mockSvc.captured.ClassID)
	require.Equal(t, 2, mockSvc.captured.MaxBlockHours)
	require.Contains(t, w.Body.String(), `"moduleName":"Networking Basics"`)
}

func TestScheduleGeneratorGenerateValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ScheduleGeneratorHandler{service: &scheduleGeneratorMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate", bytes.NewReader([]byte(`{"classId":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleGeneratorGenerateUnauthorized(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ScheduleGeneratorHandler{service: &scheduleGeneratorMock{}}
	router := gin.New()
	router.POST("/schedule/generate", internalmiddleware.RBAC(models.RoleAdmin), handler.Generate)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate", bytes.NewReader(validGeneratorPayload()))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestScheduleGeneratorGenerateForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &ScheduleGeneratorHandler{service: &scheduleGeneratorMock{}}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(internalmiddleware.ContextUserKey, &models.JWTClaims{UserID: "trainee-1", Role: models.RoleTrainee})
		c.Next()
	})
	router.POST("/schedule/generate", internalmiddleware.RBAC(models.RoleAdmin), handler.Generate)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate", bytes.NewReader(validGeneratorPayload()))
	req.Header.Set("Content-Type", "application/json")

	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestScheduleGeneratorExportSummaryForcesPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &scheduleGeneratorMock{}
	handler := &ScheduleGeneratorHandler{service: mockSvc, exports: service.NewExportService(nil, nil, nil, nil)}

	req, _ := http.NewRequest(http.MethodPost, "/schedule/generate/export?format=csv", bytes.NewReader([]byte(`{"classId":"cl-1","persist":true}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.ExportSummary(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.False(t, mockSvc.captured.Persist)
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	require.Contains(t, w.Body.String(), "Networking Basics")
}

func validGeneratorPayload() []byte {
	return []byte(`{"classId":"cl-1","maxBlockHours":2,"minBlockHours":1,"maxActiveModules":3}`)
}
