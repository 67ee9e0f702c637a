package calendar

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/teamsync/backend/internal/middleware"
	"github.com/teamsync/backend/internal/models"
)

func testContext(t *testing.T, query string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/calendar?"+query, nil)
	return c
}

func TestParseFilterTags(t *testing.T) {
	f, err := parseFilter(testContext(t, "tags=+Training,+,match+"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Training", "match"}, f.Tags)

	f, err = parseFilter(testContext(t, ""))
	require.NoError(t, err)
	assert.Nil(t, f.Tags)
	assert.False(t, f.Active())
}

func TestParseFilterMinYesCoercion(t *testing.T) {
	cases := map[string]int{
		"min_yes=2":   2,
		"min_yes=abc": 0,
		"min_yes=-3":  0,
		"min_yes=2.5": 0,
		"min_yes=":    0,
	}
	for query, want := range cases {
		f, err := parseFilter(testContext(t, query))
		require.NoError(t, err, query)
		assert.Equal(t, want, f.MinYesRSVP, query)
	}
}

func TestParseFilterDates(t *testing.T) {
	f, err := parseFilter(testContext(t, "from=2026-08-01T00:00:00Z&to=2026-08-31T00:00:00Z"))
	require.NoError(t, err)
	require.NotNil(t, f.Start)
	require.NotNil(t, f.End)
	assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), *f.Start)
	assert.Less(t, *f.Start, *f.End)

	_, err = parseFilter(testContext(t, "from=yesterday"))
	assert.EqualError(t, err, "invalid from parameter")

	_, err = parseFilter(testContext(t, "to=2026-08-31"))
	assert.EqualError(t, err, "invalid to parameter")
}

func TestCalendarEndpoint(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := newFakeStore()
	viewer := uuid.New()
	ev := store.addEvent(&models.Event{Name: "Run", Tags: []string{"cardio"}})
	store.userEvents[viewer] = []uuid.UUID{ev}

	h := NewHandler(store, zap.NewNop())
	router := gin.New()
	router.GET("/calendar", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, viewer)
	}, h.Get)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calendar?tags=CARDIO", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Events    []models.CalendarEvent `json:"events"`
			NoMatches bool                   `json:"no_matches"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data.Events, 1)
	assert.Equal(t, "Run", body.Data.Events[0].Title)
	assert.False(t, body.Data.NoMatches)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/calendar?from=not-a-date", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
