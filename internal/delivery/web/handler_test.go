package web

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/aliskhannn/spanish-quiz-bot/internal/domain/entities"
	"github.com/aliskhannn/spanish-quiz-bot/internal/monitoring"
	"github.com/aliskhannn/spanish-quiz-bot/internal/service"
	"github.com/aliskhannn/spanish-quiz-bot/internal/storage"
)

type staticSource struct{ content *entities.Content }

func (s staticSource) Load(context.Context) (*entities.Content, error) { return s.content, nil }

func testContent(chapterSizes ...int) *entities.Content {
	c := &entities.Content{}
	for ci, n := range chapterSizes {
		ch := entities.Chapter{Topic: fmt.Sprintf("Tema %d", ci+1)}
		for qi := range n {
			right := fmt.Sprintf("right-%d-%d", ci, qi)
			ch.Questions = append(ch.Questions, entities.Question{
				Prompt:        fmt.Sprintf("palabra %d-%d", ci, qi),
				Options:       []string{right, "wrong"},
				CorrectAnswer: right,
			})
		}
		c.Chapters = append(c.Chapters, ch)
	}
	return c
}

func newTestRouter(t *testing.T, content *entities.Content) (*gin.Engine, *service.QuizService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := service.NewQuizService(zap.NewNop(), storage.NewSessionStore(), service.QuizConfig{
		Policy: entities.DefaultPassPolicy(),
	})
	if content != nil {
		if err := svc.LoadContent(context.Background(), staticSource{content: content}); err != nil {
			t.Fatalf("LoadContent: %v", err)
		}
	}

	router := NewRouter(RouterConfig{
		QuizHandler:    NewQuizHandler(zap.NewNop(), svc),
		Middleware:     []gin.HandlerFunc{monitoring.New().Middleware()},
		MetricsHandler: monitoring.New().Handler(),
	})
	return router, svc
}

func do(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeView(t *testing.T, w *httptest.ResponseRecorder) ViewEnvelope {
	t.Helper()

	var env ViewEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()

	var env ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error %q: %v", w.Body.String(), err)
	}
	return env
}

func createSession(t *testing.T, router http.Handler) string {
	t.Helper()

	w := do(t, router, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("create session: want 201, got %d (%s)", w.Code, w.Body.String())
	}
	env := decodeView(t, w)
	if env.ID == "" {
		t.Fatalf("create session: empty id")
	}
	return env.ID
}

func TestHealthz(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(t, router, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t, nil)

	w := do(t, router, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}
}

func TestCreateSessionShowsHome(t *testing.T) {
	router, _ := newTestRouter(t, testContent(2, 2))

	w := do(t, router, http.MethodPost, "/api/sessions", nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d", w.Code)
	}

	env := decodeView(t, w)
	if env.View.Screen != entities.ScreenHome {
		t.Fatalf("want home screen, got %s", env.View.Screen)
	}
	if got := len(env.View.Home.Chapters); got != 2 {
		t.Fatalf("want 2 chapters, got %d", got)
	}
	if !env.View.Home.Chapters[0].Unlocked || env.View.Home.Chapters[1].Unlocked {
		t.Fatalf("want only the first chapter unlocked, got %+v", env.View.Home.Chapters)
	}
}

func TestNoContentSession(t *testing.T) {
	router, _ := newTestRouter(t, nil)
	id := createSession(t, router)

	w := do(t, router, http.MethodPost, "/api/sessions/"+id+"/chapters/0", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.View == nil || env.View.Screen != entities.ScreenNoContent {
		t.Fatalf("want no-content view, got %+v", env.View)
	}

	w = do(t, router, http.MethodGet, "/quizData.json", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("quizData.json: want 503, got %d", w.Code)
	}
}

func TestUnknownSession(t *testing.T) {
	router, _ := newTestRouter(t, testContent(1))

	tests := []string{
		"/api/sessions/not-a-uuid",
		"/api/sessions/6f1c2f7e-0a51-4d7e-9a0e-4b6f5d1c9a11",
	}
	for _, path := range tests {
		w := do(t, router, http.MethodGet, path, nil)
		if w.Code != http.StatusNotFound {
			t.Fatalf("%s: want 404, got %d", path, w.Code)
		}
	}
}

func TestChapterFlow(t *testing.T) {
	router, _ := newTestRouter(t, testContent(1, 1))
	id := createSession(t, router)
	base := "/api/sessions/" + id

	w := do(t, router, http.MethodPost, base+"/chapters/1", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("locked chapter: want 409, got %d", w.Code)
	}
	if env := decodeError(t, w); env.View == nil || env.View.Screen != entities.ScreenHome {
		t.Fatalf("locked chapter: want unchanged home view, got %+v", env.View)
	}

	w = do(t, router, http.MethodPost, base+"/chapters/0", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("select chapter: want 200, got %d", w.Code)
	}
	q := decodeView(t, w).View.Question
	if q == nil || q.Number != 1 || q.Total != 1 {
		t.Fatalf("want first of one question, got %+v", q)
	}

	w = do(t, router, http.MethodPost, base+"/advance", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("advance before answering: want 409, got %d", w.Code)
	}

	w = do(t, router, http.MethodPost, base+"/answer", answerRequest{Option: "right-0-0"})
	if w.Code != http.StatusOK {
		t.Fatalf("answer: want 200, got %d", w.Code)
	}
	if q := decodeView(t, w).View.Question; !q.Answered || !q.IsCorrect || q.Score != 1 {
		t.Fatalf("want correct answer recorded, got %+v", q)
	}

	w = do(t, router, http.MethodPost, base+"/answer", answerRequest{Option: "wrong"})
	if w.Code != http.StatusConflict {
		t.Fatalf("second answer: want 409, got %d", w.Code)
	}

	w = do(t, router, http.MethodPost, base+"/advance", nil)
	res := decodeView(t, w).View.Result
	if res == nil || !res.Passed || !res.HasNext {
		t.Fatalf("want passed result with next chapter, got %+v", res)
	}

	w = do(t, router, http.MethodPost, base+"/retry", nil)
	if w.Code != http.StatusConflict {
		t.Fatalf("retry after pass: want 409, got %d", w.Code)
	}

	w = do(t, router, http.MethodPost, base+"/proceed", nil)
	if got := decodeView(t, w).View; got.Screen != entities.ScreenQuestion || got.Question.ChapterIndex != 1 {
		t.Fatalf("proceed: want chapter 1 question, got %+v", got)
	}
}

func TestOutOfRangeInput(t *testing.T) {
	router, _ := newTestRouter(t, testContent(1))
	id := createSession(t, router)
	base := "/api/sessions/" + id

	w := do(t, router, http.MethodPost, base+"/chapters/7", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown chapter: want 400, got %d", w.Code)
	}

	w = do(t, router, http.MethodPost, base+"/chapters/x", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("non-numeric chapter: want 400, got %d", w.Code)
	}

	do(t, router, http.MethodPost, base+"/chapters/0", nil)
	w = do(t, router, http.MethodPost, base+"/answer", answerRequest{Option: "nope"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unknown option: want 400, got %d", w.Code)
	}

	w = do(t, router, http.MethodPost, base+"/answer", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing body: want 400, got %d", w.Code)
	}
}

func TestSummaryAndHome(t *testing.T) {
	router, _ := newTestRouter(t, testContent(1))
	id := createSession(t, router)
	base := "/api/sessions/" + id

	w := do(t, router, http.MethodPost, base+"/summary", nil)
	if got := decodeView(t, w).View; got.Screen != entities.ScreenRunSummary || len(got.Summary.Chapters) != 0 {
		t.Fatalf("want empty summary, got %+v", got)
	}

	w = do(t, router, http.MethodPost, base+"/home", nil)
	if got := decodeView(t, w).View.Screen; got != entities.ScreenHome {
		t.Fatalf("want home, got %s", got)
	}
}

func TestDeleteSession(t *testing.T) {
	router, svc := newTestRouter(t, testContent(1))
	id := createSession(t, router)

	w := do(t, router, http.MethodDelete, "/api/sessions/"+id, nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("want 204, got %d", w.Code)
	}
	if svc.Exists(sessionKeyPrefix + id) {
		t.Fatalf("session still stored after delete")
	}
}

func TestContentDocument(t *testing.T) {
	router, _ := newTestRouter(t, testContent(2))

	w := do(t, router, http.MethodGet, "/quizData.json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", w.Code)
	}

	var doc entities.Content
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(doc.Chapters) != 1 || len(doc.Chapters[0].Questions) != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
}
