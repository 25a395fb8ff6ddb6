package gateway

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/wlopz/codeflow-app/internal/models"
)

func jsonContext(t *testing.T, body string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("POST", "/votes", bytes.NewBufferString(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c
}

func queryContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/votes/state?"+query, nil)
	return c
}

func TestBindVote(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{
			name: "well-formed request",
			body: `{"target_id": 3, "target_type": "question", "vote_type": "upvote"}`,
		},
		{
			name: "answer downvote",
			body: `{"target_id": 8, "target_type": "answer", "vote_type": "downvote"}`,
		},
		{
			name:    "unknown target type",
			body:    `{"target_id": 3, "target_type": "user", "vote_type": "upvote"}`,
			wantErr: true,
		},
		{
			name:    "unknown vote type",
			body:    `{"target_id": 3, "target_type": "question", "vote_type": "meh"}`,
			wantErr: true,
		},
		{
			name:    "missing target id",
			body:    `{"target_type": "question", "vote_type": "upvote"}`,
			wantErr: true,
		},
		{
			name:    "not json",
			body:    `target_id=3`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := BindVote(jsonContext(t, tt.body))
			if tt.wantErr {
				if !errors.Is(err, ErrBadRequest) {
					t.Errorf("BindVote() error = %v, want ErrBadRequest", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("BindVote() error = %v", err)
			}
			if req.TargetID == 0 || req.TargetType == "" || req.VoteType == "" {
				t.Errorf("BindVote() returned incomplete request: %+v", req)
			}
		})
	}
}

func TestBindVoteState(t *testing.T) {
	q, err := BindVoteState(queryContext(t, "target_id=5&target_type=answer"))
	if err != nil {
		t.Fatalf("BindVoteState() error = %v", err)
	}
	if q.TargetID != 5 || q.TargetType != models.TargetAnswer {
		t.Errorf("BindVoteState() = %+v, want {5 answer}", q)
	}

	for _, query := range []string{"", "target_type=question", "target_id=5&target_type=nope"} {
		if _, err := BindVoteState(queryContext(t, query)); !errors.Is(err, ErrBadRequest) {
			t.Errorf("query %q: error = %v, want ErrBadRequest", query, err)
		}
	}
}

func TestCurrentUser(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if _, err := CurrentUser(c); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("no user set: error = %v, want ErrUnauthorized", err)
	}

	for name, value := range map[string]interface{}{
		"int":     int(9),
		"uint":    uint(9),
		"float64": float64(9),
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Set("user_id", value)
		id, err := CurrentUser(c)
		if err != nil || id != 9 {
			t.Errorf("%s user id: got (%d, %v), want (9, nil)", name, id, err)
		}
	}

	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Set("user_id", "not-a-number")
	if _, err := CurrentUser(c); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("string user id: error = %v, want ErrUnauthorized", err)
	}
}
