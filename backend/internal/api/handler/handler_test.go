package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"oilsafe-hub/backend/internal/dto"
	"oilsafe-hub/backend/internal/service"
	"oilsafe-hub/backend/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	loginResult   *dto.LoginResponse
	loginErr      error
	refreshResult *dto.RefreshTokenResponse
	refreshErr    error
	logoutErr     error
	currentResult *dto.UserResponse
	currentErr    error
	changePassErr error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.LoginResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Logout(_ context.Context, _ string) error {
	return m.logoutErr
}
func (m *mockAuthService) RefreshToken(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.RefreshTokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) GetCurrentUser(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.currentResult, m.currentErr
}
func (m *mockAuthService) ChangePassword(_ context.Context, _ string, _ *dto.ChangePasswordRequest) error {
	return m.changePassErr
}

// ── Mock CalendarService ──

type mockCalendarService struct {
	eventsResult   []dto.CalendarEvent
	eventsStatuses []string
	eventsErr      error
	agendaResult   *dto.AgendaResponse
	agendaErr      error
	timelineResult *dto.TimelineResponse
	timelineErr    error
	relocateResult *dto.RelocateResponse
	relocateErr    error
	relocateOpID   string
	logsResult     []dto.RelocationLogResponse
	logsTotal      int64
	logsErr        error
}

func (m *mockCalendarService) Events(_ context.Context, _, _ time.Time, statuses []string) ([]dto.CalendarEvent, error) {
	m.eventsStatuses = statuses
	return m.eventsResult, m.eventsErr
}
func (m *mockCalendarService) Agenda(_ context.Context, _, _ time.Time) (*dto.AgendaResponse, error) {
	return m.agendaResult, m.agendaErr
}
func (m *mockCalendarService) Timeline(_ context.Context, _, _ time.Time) (*dto.TimelineResponse, error) {
	return m.timelineResult, m.timelineErr
}
func (m *mockCalendarService) Relocate(_ context.Context, _ *dto.RelocateRequest, operatorID string) (*dto.RelocateResponse, error) {
	m.relocateOpID = operatorID
	return m.relocateResult, m.relocateErr
}
func (m *mockCalendarService) ListRelocations(_ context.Context, _, _ int) ([]dto.RelocationLogResponse, int64, error) {
	return m.logsResult, m.logsTotal, m.logsErr
}

// ── Mock ExportService / ICSService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportTimeline(_ context.Context, _, _ time.Time) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

type mockICSService struct {
	content  string
	filename string
	err      error
}

func (m *mockICSService) TechnicianCalendar(_ context.Context, _ string, _, _ time.Time) (string, string, error) {
	return m.content, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// 测试辅助
// ═══════════════════════════════════════════════════════════

func performRequest(r http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) *response.Response {
	t.Helper()
	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应应为合法 JSON: %v", err)
	}
	return &resp
}

// injectUser 模拟 JWT 中间件注入的用户上下文
func injectUser(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", role)
		c.Next()
	}
}

// ═══════════════════════════════════════════════════════════
// Auth Handler 测试
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	svc := &mockAuthService{
		loginResult: &dto.LoginResponse{
			AccessToken:  "access-token",
			RefreshToken: "refresh-token",
			User:         dto.UserResponse{ID: "user-1", Email: "mario@test.com", Role: "planner"},
		},
	}
	h := NewAuthHandler(svc)

	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := performRequest(r, http.MethodPost, "/auth/login", gin.H{
		"email":    "mario@test.com",
		"password": "password123",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d，body=%s", w.Code, w.Body.String())
	}
	resp := decodeResponse(t, w)
	if resp.Code != 0 {
		t.Errorf("期望 code=0，实际=%d", resp.Code)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{loginErr: service.ErrInvalidCredentials})

	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := performRequest(r, http.MethodPost, "/auth/login", gin.H{
		"email":    "mario@test.com",
		"password": "wrong",
	})

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际=%d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 11001 {
		t.Errorf("期望 code=11001，实际=%d", resp.Code)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	r := gin.New()
	r.POST("/auth/login", h.Login)

	w := performRequest(r, http.MethodPost, "/auth/login", gin.H{"email": "not-an-email"})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("参数校验失败应返回 400，实际=%d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 10001 {
		t.Errorf("期望 code=10001，实际=%d", resp.Code)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})

	// 未注入 user_id：模拟中间件缺失
	r := gin.New()
	r.GET("/auth/me", h.Me)

	w := performRequest(r, http.MethodGet, "/auth/me", nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际=%d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Calendar Handler 测试
// ═══════════════════════════════════════════════════════════

func TestCalendarHandler_Events(t *testing.T) {
	svc := &mockCalendarService{
		eventsResult: []dto.CalendarEvent{{Title: "C-100 — Acme SpA"}},
	}
	h := NewCalendarHandler(svc)

	r := gin.New()
	r.GET("/calendar/events", h.Events)

	w := performRequest(r, http.MethodGet, "/calendar/events?from=2026-06-01&to=2026-06-30", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "C-100") {
		t.Error("响应应包含事件标题")
	}
}

func TestCalendarHandler_Events_StatusesFilterParsing(t *testing.T) {
	cases := []struct {
		name  string
		query string
		want  []string
	}{
		{"正常列表", "&statuses=programmato,confermato", []string{"programmato", "confermato"}},
		{"带空白", "&statuses=%20programmato%20,%20confermato", []string{"programmato", "confermato"}},
		{"仅逗号回落默认", "&statuses=,", nil},
		{"末尾逗号", "&statuses=programmato,", []string{"programmato"}},
		{"未传参数", "", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockCalendarService{}
			h := NewCalendarHandler(svc)

			r := gin.New()
			r.GET("/calendar/events", h.Events)

			w := performRequest(r, http.MethodGet,
				"/calendar/events?from=2026-06-01&to=2026-06-07"+tc.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("期望 200，实际=%d", w.Code)
			}
			if len(svc.eventsStatuses) != len(tc.want) {
				t.Fatalf("状态过滤解析错误: 期望 %v 实际 %v", tc.want, svc.eventsStatuses)
			}
			for i := range tc.want {
				if svc.eventsStatuses[i] != tc.want[i] {
					t.Errorf("状态过滤解析错误: 期望 %v 实际 %v", tc.want, svc.eventsStatuses)
					break
				}
			}
		})
	}
}

func TestCalendarHandler_Events_MissingWindow(t *testing.T) {
	h := NewCalendarHandler(&mockCalendarService{})

	r := gin.New()
	r.GET("/calendar/events", h.Events)

	w := performRequest(r, http.MethodGet, "/calendar/events?from=2026-06-01", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺少 to 参数应返回 400，实际=%d", w.Code)
	}
}

func TestCalendarHandler_Relocate(t *testing.T) {
	svc := &mockCalendarService{
		relocateResult: &dto.RelocateResponse{
			Record: dto.SchedulingRecordResponse{ID: "9f0a6dfd-0c0b-4af0-9d7e-54f2a1b30001"},
		},
	}
	h := NewCalendarHandler(svc)

	r := gin.New()
	r.POST("/calendar/relocate", injectUser("user-1", "planner"), h.Relocate)

	w := performRequest(r, http.MethodPost, "/calendar/relocate", gin.H{
		"record_id":     "9f0a6dfd-0c0b-4af0-9d7e-54f2a1b30001",
		"technician_id": "9f0a6dfd-0c0b-4af0-9d7e-54f2a1b30002",
		"day":           "2026-06-10",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d，body=%s", w.Code, w.Body.String())
	}
	if svc.relocateOpID != "user-1" {
		t.Errorf("操作人应取自上下文 user_id，实际=%s", svc.relocateOpID)
	}
}

func TestCalendarHandler_Relocate_InvalidBody(t *testing.T) {
	h := NewCalendarHandler(&mockCalendarService{})

	r := gin.New()
	r.POST("/calendar/relocate", injectUser("user-1", "planner"), h.Relocate)

	// record_id 非 UUID
	w := performRequest(r, http.MethodPost, "/calendar/relocate", gin.H{
		"record_id":     "not-a-uuid",
		"technician_id": "9f0a6dfd-0c0b-4af0-9d7e-54f2a1b30002",
		"day":           "2026-06-10",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("非法请求体应返回 400，实际=%d", w.Code)
	}
}

func TestCalendarHandler_Relocate_RecordNotFound(t *testing.T) {
	h := NewCalendarHandler(&mockCalendarService{relocateErr: service.ErrCalendarRecordNotFound})

	r := gin.New()
	r.POST("/calendar/relocate", injectUser("user-1", "planner"), h.Relocate)

	w := performRequest(r, http.MethodPost, "/calendar/relocate", gin.H{
		"record_id":     "9f0a6dfd-0c0b-4af0-9d7e-54f2a1b30001",
		"technician_id": "9f0a6dfd-0c0b-4af0-9d7e-54f2a1b30002",
		"day":           "2026-06-10",
	})

	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际=%d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 16001 {
		t.Errorf("期望 code=16001，实际=%d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// Export Handler 测试
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportTimeline(t *testing.T) {
	h := NewExportHandler(&mockExportService{
		buf:      bytes.NewBufferString("xlsx-bytes"),
		filename: "planning_2026-06-01_2026-06-14.xlsx",
	}, &mockICSService{})

	r := gin.New()
	r.GET("/export/timeline.xlsx", h.ExportTimeline)

	w := performRequest(r, http.MethodGet, "/export/timeline.xlsx?from=2026-06-01&to=2026-06-14", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "spreadsheetml") {
		t.Errorf("Content-Type 应为 xlsx MIME，实际=%s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "planning_2026-06-01_2026-06-14.xlsx") {
		t.Errorf("Content-Disposition 应包含文件名，实际=%s", cd)
	}
}

func TestExportHandler_ExportTimeline_InvalidWindow(t *testing.T) {
	h := NewExportHandler(&mockExportService{err: service.ErrExportInvalidWindow}, &mockICSService{})

	r := gin.New()
	r.GET("/export/timeline.xlsx", h.ExportTimeline)

	w := performRequest(r, http.MethodGet, "/export/timeline.xlsx?from=2026-06-14&to=2026-06-01", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("期望 400，实际=%d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 18001 {
		t.Errorf("期望 code=18001，实际=%d", resp.Code)
	}
}

func TestExportHandler_TechnicianCalendar(t *testing.T) {
	h := NewExportHandler(&mockExportService{}, &mockICSService{
		content:  "BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n",
		filename: "planning_Bianchi_Anna.ics",
	})

	r := gin.New()
	r.GET("/export/technicians/:id/calendar.ics", h.TechnicianCalendar)

	w := performRequest(r, http.MethodGet, "/export/technicians/tech-a/calendar.ics?from=2026-06-01&to=2026-06-30", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "text/calendar") {
		t.Errorf("Content-Type 应为 text/calendar，实际=%s", ct)
	}
	if !strings.Contains(w.Body.String(), "BEGIN:VCALENDAR") {
		t.Error("响应体应为 ICS 内容")
	}
}

func TestExportHandler_TechnicianCalendar_NotFound(t *testing.T) {
	h := NewExportHandler(&mockExportService{}, &mockICSService{err: service.ErrICSTechnicianNotFound})

	r := gin.New()
	r.GET("/export/technicians/:id/calendar.ics", h.TechnicianCalendar)

	w := performRequest(r, http.MethodGet, "/export/technicians/ghost/calendar.ics?from=2026-06-01&to=2026-06-30", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("期望 404，实际=%d", w.Code)
	}
	if resp := decodeResponse(t, w); resp.Code != 12001 {
		t.Errorf("期望 code=12001，实际=%d", resp.Code)
	}
}
