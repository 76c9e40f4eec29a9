package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/certforge/CertPrepApi/achievements"
	"github.com/certforge/CertPrepApi/analytics"
	"github.com/certforge/CertPrepApi/auth"
	"github.com/certforge/CertPrepApi/dashboard"
	"github.com/certforge/CertPrepApi/db"
	"github.com/certforge/CertPrepApi/models"
	"github.com/certforge/CertPrepApi/quiz"
	"github.com/certforge/CertPrepApi/readiness"
)

type testServer struct {
	server  *httptest.Server
	session string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	database, err := db.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	sessionStore := auth.NewSessionStore()
	agg := analytics.NewAggregator(database)
	assessor := readiness.NewAssessor()

	router := NewRouter(database, sessionStore, &Deps{
		Aggregator: agg,
		Assessor:   assessor,
		Engine:     achievements.NewEngine(),
		Selector:   quiz.NewSelector(),
		Composer:   dashboard.NewComposer(database, agg, assessor),
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	ts := &testServer{server: server}
	ts.register(t)
	return ts
}

func (ts *testServer) register(t *testing.T) {
	t.Helper()

	resp := ts.do(t, http.MethodPost, "/auth/register", models.UserRequest{
		Username: "testuser",
		Email:    "test@example.com",
		Password: "secret123",
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register returned %d", resp.StatusCode)
	}

	var body struct {
		Session models.Session `json:"session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	if body.Session.ID == "" {
		t.Fatal("register response carried no session id")
	}
	ts.session = body.Session.ID
}

func (ts *testServer) do(t *testing.T, method, path string, payload interface{}) *http.Response {
	t.Helper()

	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, ts.server.URL+path, body)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if ts.session != "" {
		req.Header.Set("Authorization", "Bearer "+ts.session)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	return resp
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func score(v float64) *float64 { return &v }

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.server.URL + "/health")
	if err != nil {
		t.Fatalf("health check failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health check returned %d", resp.StatusCode)
	}
}

func TestUnauthenticatedRequestsRejected(t *testing.T) {
	ts := newTestServer(t)
	ts.session = ""

	for _, path := range []string{"/interactions", "/analytics", "/readiness", "/dashboard"} {
		resp := ts.do(t, http.MethodGet, path, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without session returned %d, want 401", path, resp.StatusCode)
		}
	}
}

func TestRecordInteractionEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/interactions", models.RecordRequest{
		ContentID:         "lesson-1",
		CertificationType: "security-specialty",
		InteractionKind:   models.KindAnswered,
		Score:             score(85),
		TimeSpentSeconds:  120,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record returned %d, want 201", resp.StatusCode)
	}

	var result models.RecordResult
	decode(t, resp, &result)
	if result.Merged {
		t.Error("first record should not be merged")
	}
	if result.Interaction == nil || result.Interaction.TimeSpentSeconds != 120 {
		t.Errorf("unexpected stored interaction: %+v", result.Interaction)
	}
	if result.AchievementsUnlocked == nil {
		t.Error("achievements_unlocked should be an empty list, not null")
	}

	// Re-recording the same content merges and accumulates time
	resp = ts.do(t, http.MethodPost, "/interactions", models.RecordRequest{
		ContentID:         "lesson-1",
		CertificationType: "security-specialty",
		InteractionKind:   models.KindCompleted,
		TimeSpentSeconds:  60,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("second record returned %d", resp.StatusCode)
	}
	decode(t, resp, &result)
	if !result.Merged {
		t.Error("second record for the same key should report merged")
	}
	if result.Interaction.TimeSpentSeconds != 180 {
		t.Errorf("TimeSpentSeconds = %d, want 180", result.Interaction.TimeSpentSeconds)
	}
	if result.Interaction.Score == nil || *result.Interaction.Score != 85 {
		t.Errorf("Score = %v, want 85 preserved through the merge", result.Interaction.Score)
	}
}

func TestRecordInteractionValidation(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/interactions", models.RecordRequest{
		CertificationType: "saa",
		InteractionKind:   models.KindViewed,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing content_id returned %d, want 400", resp.StatusCode)
	}

	resp = ts.do(t, http.MethodPost, "/interactions", models.RecordRequest{
		ContentID:         "c1",
		CertificationType: "saa",
		InteractionKind:   models.KindAnswered,
		Score:             score(150),
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("out-of-range score returned %d, want 400", resp.StatusCode)
	}
}

func TestReadinessRequiresCertification(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/readiness", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("readiness without certification returned %d, want 400", resp.StatusCode)
	}

	resp = ts.do(t, http.MethodGet, "/readiness?certification=security-specialty", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("readiness returned %d", resp.StatusCode)
	}

	var assessment models.ReadinessAssessment
	decode(t, resp, &assessment)
	if assessment.ReadinessScore != 0 {
		t.Errorf("fresh user readiness = %v, want bootstrap 0", assessment.ReadinessScore)
	}
	if assessment.ConfidenceLevel != models.ConfidenceLow {
		t.Errorf("fresh user confidence = %q, want low", assessment.ConfidenceLevel)
	}
}

func TestImportAndQuizFlow(t *testing.T) {
	ts := newTestServer(t)

	importReq := models.ImportRequest{
		Content: []models.ContentDescriptor{
			{ContentID: "q-net-1", CertificationType: "saa", Category: "networking", DifficultyLevel: "medium", ContentKind: "question"},
			{ContentID: "q-sto-1", CertificationType: "saa", Category: "storage", DifficultyLevel: "medium", ContentKind: "question"},
		},
	}
	for i := 0; i < 15; i++ {
		category := "networking"
		if i%2 == 0 {
			category = "storage"
		}
		importReq.Questions = append(importReq.Questions, models.QuizQuestion{
			ID:                "quiz-q-" + string(rune('a'+i)),
			CertificationType: "saa",
			Category:          category,
			DifficultyLevel:   "medium",
			Question:          "Question text",
			Options:           []string{"option one", "option two", "option three"},
			CorrectAnswer:     "option two",
		})
	}

	resp := ts.do(t, http.MethodPost, "/import", importReq)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("import returned %d", resp.StatusCode)
	}
	var importResult models.ImportResult
	decode(t, resp, &importResult)
	if importResult.ImportedItems != 17 {
		t.Errorf("ImportedItems = %d, want 17", importResult.ImportedItems)
	}

	resp = ts.do(t, http.MethodPost, "/quiz", models.QuizRequest{
		CertificationType: "saa",
		Count:             5,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("quiz returned %d", resp.StatusCode)
	}

	var quizResult models.QuizSelectionResult
	decode(t, resp, &quizResult)
	if len(quizResult.Questions) != 5 {
		t.Errorf("got %d questions, want 5", len(quizResult.Questions))
	}
	for _, q := range quizResult.Questions {
		if q.CorrectAnswer != "" {
			t.Errorf("question %s leaked its correct answer", q.ID)
		}
	}
}

func TestDashboardEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/interactions", models.RecordRequest{
		ContentID:         "lesson-1",
		CertificationType: "developer-associate",
		InteractionKind:   models.KindAnswered,
		Score:             score(72),
		TimeSpentSeconds:  300,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("record returned %d", resp.StatusCode)
	}

	resp = ts.do(t, http.MethodGet, "/dashboard", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard returned %d", resp.StatusCode)
	}

	var dash models.Dashboard
	decode(t, resp, &dash)
	if dash.Overall.TotalViewed != 1 {
		t.Errorf("Overall.TotalViewed = %d, want 1", dash.Overall.TotalViewed)
	}
	if _, ok := dash.Certifications["developer-associate"]; !ok {
		t.Errorf("dashboard missing developer-associate overview: %v", dash.Certifications)
	}
	if dash.StreakDays != 1 {
		t.Errorf("StreakDays = %d, want 1", dash.StreakDays)
	}
}

func TestAchievementsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodGet, "/achievements", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("achievements returned %d", resp.StatusCode)
	}

	var list models.AchievementList
	decode(t, resp, &list)
	if list.Achievements == nil {
		t.Error("achievements should be an empty list, not null")
	}
	if list.TotalPoints != 0 {
		t.Errorf("TotalPoints = %d, want 0", list.TotalPoints)
	}
}

func TestLoginAndLogout(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.do(t, http.MethodPost, "/auth/login", models.LoginRequest{
		Username: "testuser",
		Password: "secret123",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login returned %d", resp.StatusCode)
	}
	var body struct {
		Session models.Session `json:"session"`
	}
	decode(t, resp, &body)
	if body.Session.ID == "" {
		t.Fatal("login returned no session")
	}

	resp = ts.do(t, http.MethodPost, "/auth/login", models.LoginRequest{
		Username: "testuser",
		Password: "wrong",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("bad password returned %d, want 401", resp.StatusCode)
	}

	ts.session = body.Session.ID
	resp = ts.do(t, http.MethodPost, "/auth/logout", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("logout returned %d", resp.StatusCode)
	}

	resp = ts.do(t, http.MethodGet, "/analytics", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("request after logout returned %d, want 401", resp.StatusCode)
	}
}
