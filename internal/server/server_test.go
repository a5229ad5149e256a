package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/entitysql/internal/schema"
	"github.com/tordrt/entitysql/internal/sqlgen"
	"github.com/tordrt/entitysql/internal/statements"
)

func strPtr(s string) *string { return &s }

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	user, err := schema.NewEntity("User", "users", strPtr("accounts"), []schema.Field{
		{Name: "id", SQLType: "BIGINT", PrimaryKey: true},
		{Name: "email", SQLType: "VARCHAR(255)", Comment: strPtr("login")},
	})
	require.NoError(t, err)
	event, err := schema.NewEntity("Event", "event", nil, []schema.Field{
		{Name: "payload", SQLType: "TEXT"},
	})
	require.NoError(t, err)

	g, err := sqlgen.New(sqlgen.Config{Dialect: sqlgen.Postgres})
	require.NoError(t, err)
	sets := statements.BuildAll(g, &schema.Schema{Entities: []*schema.Entity{user, event}})
	return NewRouter(NewCatalog(sets))
}

func get(t *testing.T, r http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestListEntities(t *testing.T) {
	w := get(t, testRouter(t), "/api/entities")
	require.Equal(t, http.StatusOK, w.Code)

	var got []entitySummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "User", got[0].Name)
	assert.Equal(t, "users", got[0].Table)
	assert.Equal(t, sqlgen.Postgres, got[0].Dialect)
	assert.Equal(t, []string{"id", "email"}, got[0].Columns)
	assert.Equal(t, "Event", got[1].Name)
}

func TestGetEntityByTableName(t *testing.T) {
	w := get(t, testRouter(t), "/api/entities/users")
	require.Equal(t, http.StatusOK, w.Code)

	var got entityView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "User", got.Name)
	require.NotNil(t, got.Comment)
	assert.Equal(t, "accounts", *got.Comment)
	require.Len(t, got.Fields, 2)
	assert.True(t, got.Fields[0].PrimaryKey)
	require.NotNil(t, got.Fields[1].Comment)
	assert.Equal(t, "login", *got.Fields[1].Comment)
}

func TestGetStatements(t *testing.T) {
	r := testRouter(t)

	w := get(t, r, "/api/entities/User/statements")
	require.Equal(t, http.StatusOK, w.Code)
	var got []statementView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, len(statements.Kinds()))
	assert.Equal(t, statements.KindCreateTable, got[0].Kind)
	assert.Empty(t, got[0].Error)

	w = get(t, r, "/api/entities/Event/statements")
	require.Equal(t, http.StatusOK, w.Code)
	got = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	for _, st := range got {
		if st.Kind == statements.KindDelete {
			assert.Empty(t, st.SQL)
			assert.Contains(t, st.Error, "no primary key")
		}
	}
}

func TestGetSingleStatement(t *testing.T) {
	r := testRouter(t)

	w := get(t, r, "/api/entities/User/statements/update")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "UPDATE users SET email = $1 WHERE id = $2;", w.Body.String())

	w = get(t, r, "/api/entities/Event/statements/select_by_key")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = get(t, r, "/api/entities/User/statements/merge")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestNotFound(t *testing.T) {
	r := testRouter(t)
	for _, path := range []string{"/api/entities/nope", "/api/entities/nope/statements", "/api/entities/nope/statements/insert"} {
		w := get(t, r, path)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}

	w := get(t, r, "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
}
