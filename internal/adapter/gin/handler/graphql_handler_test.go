package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	graphqlgo "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"graphql-user-service/pkg/metrics"
)

// MockExecutor is a mock implementation of Executor
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Exec(ctx context.Context, query, operationName string, variables map[string]interface{}) *graphqlgo.Response {
	args := m.Called(ctx, query, operationName, variables)
	return args.Get(0).(*graphqlgo.Response)
}

func setupTest(t *testing.T) (*gin.Engine, *MockExecutor, *metrics.Metrics) {
	gin.SetMode(gin.TestMode)
	exec := new(MockExecutor)
	m := metrics.New()
	h := NewGraphQLHandler(exec, m, zaptest.NewLogger(t))

	r := gin.New()
	r.POST("/graphql", h.Serve)
	return r, exec, m
}

func post(r http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGraphQLHandler_Serve(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		r, exec, m := setupTest(t)
		vars := map[string]interface{}{"id": "1"}
		exec.On("Exec", mock.Anything, "query Get($id: ID!) { user(id: $id) { id } }", "Get", vars).
			Return(&graphqlgo.Response{Data: json.RawMessage(`{"user":{"id":"1"}}`)})

		w := post(r, `{"query":"query Get($id: ID!) { user(id: $id) { id } }","operationName":"Get","variables":{"id":"1"}}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":{"user":{"id":"1"}}}`, w.Body.String())
		assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphQLOps.WithLabelValues("Get")))
		exec.AssertExpectations(t)
	})

	t.Run("ErrorsStillReturn200", func(t *testing.T) {
		r, exec, m := setupTest(t)
		exec.On("Exec", mock.Anything, "mutation { deleteUser(id: \"9\") { success } }", "", map[string]interface{}(nil)).
			Return(&graphqlgo.Response{
				Data: json.RawMessage(`null`),
				Errors: []*gqlerrors.QueryError{{
					Message:    "user 9 not found",
					Extensions: map[string]interface{}{"code": "NOT_FOUND"},
				}},
			})

		w := post(r, `{"query":"mutation { deleteUser(id: \"9\") { success } }"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		errs := body["errors"].([]interface{})
		require.Len(t, errs, 1)
		assert.Equal(t, "user 9 not found", errs[0].(map[string]interface{})["message"])
		assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphQLErrors.WithLabelValues("NOT_FOUND")))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphQLOps.WithLabelValues("anonymous")))
	})

	t.Run("MalformedBody", func(t *testing.T) {
		r, exec, _ := setupTest(t)

		for _, body := range []string{`not json`, `{}`, `{"query":""}`} {
			w := post(r, body)
			assert.Equal(t, http.StatusBadRequest, w.Code, body)
			assert.Contains(t, w.Body.String(), `"code":"BAD_REQUEST"`, body)
		}
		exec.AssertNotCalled(t, "Exec", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}
