package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/wlopz/codeflow-app/internal/models"
	"github.com/wlopz/codeflow-app/internal/testutil"
	"github.com/wlopz/codeflow-app/internal/voting"
)

// testRouter wires the real handlers over a containerized database, with
// the auth middleware replaced by a header-driven identity for brevity.
func testRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)

	votes := voting.NewService(db, nil)
	question := NewQuestionHandler(db)
	answer := NewAnswerHandler(db)
	vote := NewVoteHandler(votes)

	identity := func(c *gin.Context) {
		if h := c.GetHeader("X-Test-User"); h != "" {
			var id int
			fmt.Sscanf(h, "%d", &id)
			c.Set("user_id", id)
		}
		c.Next()
	}

	r := gin.New()
	r.Use(identity)
	r.GET("/api/questions", question.GetQuestions)
	r.GET("/api/questions/:id", question.GetQuestion)
	r.POST("/api/questions", question.CreateQuestion)
	r.POST("/api/questions/:id/save", question.ToggleSaveQuestion)
	r.GET("/api/saved-questions", question.GetSavedQuestions)
	r.GET("/api/tags", question.GetTags)
	r.GET("/api/questions/:id/answers", answer.GetAnswers)
	r.POST("/api/questions/:id/answers", answer.CreateAnswer)
	r.POST("/api/votes", vote.CastVote)
	r.GET("/api/votes/state", vote.GetVoteState)
	return r
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, userID int, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != 0 {
		req.Header.Set("X-Test-User", fmt.Sprintf("%d", userID))
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestQuestionAnswerVoteFlow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := testRouter(db)

	asker := testutil.CreateTestUser(t, db, "flow-asker")
	answerer := testutil.CreateTestUser(t, db, "flow-answerer")
	voter := testutil.CreateTestUser(t, db, "flow-voter")

	// Ask a question
	w := doJSON(t, router, "POST", "/api/questions", asker.ID, gin.H{
		"title": "How do transactions interact with unique indexes?",
		"body":  "I want to understand how a unique constraint behaves inside a transaction.",
		"tags":  []string{"go", "postgres"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create question: status = %d (body %s)", w.Code, w.Body.String())
	}
	var question models.Question
	if err := json.Unmarshal(w.Body.Bytes(), &question); err != nil {
		t.Fatalf("Failed to decode question: %v", err)
	}
	if len(question.Tags) != 2 {
		t.Errorf("question has %d tags, want 2", len(question.Tags))
	}

	// Answer it; the question's answer counter follows
	w = doJSON(t, router, "POST", fmt.Sprintf("/api/questions/%d/answers", question.ID), answerer.ID, gin.H{
		"body": "The constraint is checked at insert time, inside the transaction.",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create answer: status = %d (body %s)", w.Code, w.Body.String())
	}
	var answer models.Answer
	if err := json.Unmarshal(w.Body.Bytes(), &answer); err != nil {
		t.Fatalf("Failed to decode answer: %v", err)
	}

	var reloaded models.Question
	if err := db.First(&reloaded, question.ID).Error; err != nil {
		t.Fatalf("Failed to reload question: %v", err)
	}
	if reloaded.Answers != 1 {
		t.Errorf("question answers counter = %d, want 1", reloaded.Answers)
	}

	// Vote on the answer through the engine
	w = doJSON(t, router, "POST", "/api/votes", voter.ID, gin.H{
		"target_id": answer.ID, "target_type": "answer", "vote_type": "upvote",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("cast vote: status = %d (body %s)", w.Code, w.Body.String())
	}

	var reloadedAnswer models.Answer
	if err := db.First(&reloadedAnswer, answer.ID).Error; err != nil {
		t.Fatalf("Failed to reload answer: %v", err)
	}
	if reloadedAnswer.Upvotes != 1 || reloadedAnswer.Downvotes != 0 {
		t.Errorf("answer counters = (%d, %d), want (1, 0)", reloadedAnswer.Upvotes, reloadedAnswer.Downvotes)
	}

	// The voter's state reflects the committed vote
	w = doJSON(t, router, "GET", fmt.Sprintf("/api/votes/state?target_id=%d&target_type=answer", answer.ID), voter.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("vote state: status = %d (body %s)", w.Code, w.Body.String())
	}
	var state voting.VoteState
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("Failed to decode state: %v", err)
	}
	if !state.HasUpvoted || state.HasDownvoted {
		t.Errorf("vote state = %+v, want {true false}", state)
	}
}

func TestToggleSaveQuestion(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := testRouter(db)

	user := testutil.CreateTestUser(t, db, "saver")
	question := testutil.CreateTestQuestion(t, db, user.ID, "Save toggle")

	path := fmt.Sprintf("/api/questions/%d/save", question.ID)

	w := doJSON(t, router, "POST", path, user.ID, nil)
	if w.Code != http.StatusOK || w.Body.String() != `{"saved":true}` {
		t.Fatalf("first toggle: status = %d, body = %s, want saved true", w.Code, w.Body.String())
	}

	w = doJSON(t, router, "GET", "/api/saved-questions", user.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list saved: status = %d", w.Code)
	}
	var saved []models.Question
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil {
		t.Fatalf("Failed to decode saved questions: %v", err)
	}
	if len(saved) != 1 || saved[0].ID != question.ID {
		t.Errorf("saved questions = %+v, want just question %d", saved, question.ID)
	}

	// Second toggle removes the bookmark
	w = doJSON(t, router, "POST", path, user.ID, nil)
	if w.Code != http.StatusOK || w.Body.String() != `{"saved":false}` {
		t.Fatalf("second toggle: status = %d, body = %s, want saved false", w.Code, w.Body.String())
	}

	var count int64
	db.Model(&models.SavedQuestion{}).Where("author_id = ?", user.ID).Count(&count)
	if count != 0 {
		t.Errorf("%d saved rows after second toggle, want 0", count)
	}
}

func TestGetQuestionBumpsViews(t *testing.T) {
	db := testutil.SetupTestDB(t)
	router := testRouter(db)

	user := testutil.CreateTestUser(t, db, "viewer")
	question := testutil.CreateTestQuestion(t, db, user.ID, "View count")

	for i := 0; i < 3; i++ {
		w := doJSON(t, router, "GET", fmt.Sprintf("/api/questions/%d", question.ID), 0, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("get question: status = %d", w.Code)
		}
	}

	var reloaded models.Question
	if err := db.First(&reloaded, question.ID).Error; err != nil {
		t.Fatalf("Failed to reload question: %v", err)
	}
	if reloaded.Views != 3 {
		t.Errorf("views = %d, want 3", reloaded.Views)
	}
}
