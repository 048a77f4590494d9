package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/gestao-alunos/internal/http/middleware"
	"github.com/aanand-mishra/gestao-alunos/internal/http/router"
	alunoservice "github.com/aanand-mishra/gestao-alunos/internal/service/aluno"
	cursoservice "github.com/aanand-mishra/gestao-alunos/internal/service/curso"
	"github.com/aanand-mishra/gestao-alunos/internal/testutil"
	"github.com/aanand-mishra/gestao-alunos/internal/types"
	"github.com/aanand-mishra/gestao-alunos/internal/utils/response"
)

type api struct {
	t *testing.T
	h http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()

	store := testutil.NewStore(t)
	h := router.New(router.Deps{
		Cursos: cursoservice.New(store),
		Alunos: alunoservice.New(store),
		DB:     store,
		Log:    testutil.DiscardLogger(),
	})
	return &api{t: t, h: h}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func (a *api) createCurso(nome string) types.CursoResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/cursos", map[string]any{"nome": nome})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[types.CursoResponse](a.t, rec)
}

func alunoBody(matricula string, cursoID int64, semestre int, media float64) map[string]any {
	return map[string]any{
		"nome":       "Aluno " + matricula,
		"matricula":  matricula,
		"email":      matricula + "@email.com",
		"cursoId":    cursoID,
		"semestre":   semestre,
		"mediaGeral": media,
	}
}

func (a *api) createAluno(body map[string]any) types.AlunoResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/alunos", body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[types.AlunoResponse](a.t, rec)
}

func TestCreateAlunoExample(t *testing.T) {
	a := newAPI(t)
	c := a.createCurso("Ciência da Computação")
	require.EqualValues(t, 1, c.ID)

	payload := map[string]any{
		"nome":       "João Silva",
		"matricula":  "2024001",
		"email":      "joao@email.com",
		"cursoId":    1,
		"semestre":   3,
		"mediaGeral": 8.5,
	}

	rec := a.do(http.MethodPost, "/api/alunos", payload)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	created := decode[types.AlunoResponse](t, rec)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "João Silva", created.Nome)
	assert.Equal(t, "Ciência da Computação", created.CursoNome)

	// Same payload again: matrícula conflict, and no second row.
	rec = a.do(http.MethodPost, "/api/alunos", payload)
	require.Equal(t, http.StatusConflict, rec.Code)
	errResp := decode[response.ErrorResponse](t, rec)
	assert.Equal(t, http.StatusConflict, errResp.Status)
	assert.Equal(t, "Já existe um aluno com a matrícula: 2024001", errResp.Message)

	list := decode[[]types.AlunoResponse](t, a.do(http.MethodGet, "/api/alunos", nil))
	assert.Len(t, list, 1)
}

func TestCreateAlunoValidation(t *testing.T) {
	a := newAPI(t)
	c := a.createCurso("Direito")

	tests := []struct {
		name   string
		body   any
		detail string
	}{
		{"empty body", "", ""},
		{"malformed json", "{", ""},
		{"wrong type", `{"semestre": "três"}`, ""},
		{"short nome", func() map[string]any { b := alunoBody("2024001", c.ID, 1, 5); b["nome"] = "Jo"; return b }(), "nome: deve ter no mínimo 3 caracteres"},
		{"blank nome", func() map[string]any { b := alunoBody("2024001", c.ID, 1, 5); b["nome"] = "    "; return b }(), "nome: é obrigatório"},
		{"blank matricula", alunoBody("       ", c.ID, 1, 5), "matricula: é obrigatório"},
		{"short matricula", alunoBody("123", c.ID, 1, 5), "matricula: deve ter no mínimo 5 caracteres"},
		{"invalid email", func() map[string]any { b := alunoBody("2024001", c.ID, 1, 5); b["email"] = "nao-e-email"; return b }(), "email: deve ser um email válido"},
		{"missing cursoId", func() map[string]any { b := alunoBody("2024001", c.ID, 1, 5); delete(b, "cursoId"); return b }(), "cursoId: é obrigatório"},
		{"missing semestre", func() map[string]any { b := alunoBody("2024001", c.ID, 1, 5); delete(b, "semestre"); return b }(), "semestre: é obrigatório"},
		{"semestre zero", alunoBody("2024001", c.ID, 0, 5), "semestre: deve ser no mínimo 1"},
		{"semestre too high", alunoBody("2024001", c.ID, 21, 5), "semestre: deve ser no máximo 20"},
		{"media too high", alunoBody("2024001", c.ID, 1, 10.5), "mediaGeral: deve ser no máximo 10"},
		{"negative media", alunoBody("2024001", c.ID, 1, -1), "mediaGeral: deve ser no mínimo 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(http.MethodPost, "/api/alunos", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

			errResp := decode[response.ErrorResponse](t, rec)
			assert.Equal(t, http.StatusBadRequest, errResp.Status)
			if tt.detail != "" {
				assert.Equal(t, "Erro de validação", errResp.Error)
				assert.Contains(t, errResp.Details, tt.detail)
			}
		})
	}

	list := decode[[]types.AlunoResponse](t, a.do(http.MethodGet, "/api/alunos", nil))
	assert.Empty(t, list)
}

func TestValidationAggregatesEveryField(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/alunos", map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	errResp := decode[response.ErrorResponse](t, rec)
	assert.ElementsMatch(t, []string{
		"nome: é obrigatório",
		"matricula: é obrigatório",
		"email: é obrigatório",
		"cursoId: é obrigatório",
		"semestre: é obrigatório",
	}, errResp.Details)
}

func TestCreateAlunoUnknownCurso(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/alunos", alunoBody("2024001", 99, 1, 5))
	require.Equal(t, http.StatusNotFound, rec.Code)

	errResp := decode[response.ErrorResponse](t, rec)
	assert.Equal(t, "Curso não encontrado com ID: 99", errResp.Error)
	assert.Equal(t, errResp.Error, errResp.Message)
}

func TestAlunoLifecycle(t *testing.T) {
	a := newAPI(t)
	c := a.createCurso("Engenharia Civil")
	created := a.createAluno(alunoBody("2024001", c.ID, 1, 7))
	path := fmt.Sprintf("/api/alunos/%d", created.ID)

	rec := a.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decode[types.AlunoResponse](t, rec))

	body := alunoBody("2024001", c.ID, 2, 0)
	delete(body, "mediaGeral")
	rec = a.do(http.MethodPut, path, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[types.AlunoResponse](t, rec)
	assert.Equal(t, 2, updated.Semestre)
	assert.Equal(t, 7.0, updated.MediaGeral)

	rec = a.do(http.MethodPut, "/api/alunos/999", body)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodPut, path, map[string]any{"nome": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodDelete, path, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = a.do(http.MethodGet, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestInvalidPathID(t *testing.T) {
	a := newAPI(t)

	for _, path := range []string{"/api/alunos/abc", "/api/cursos/abc"} {
		rec := a.do(http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestCursoLifecycle(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodPost, "/api/cursos", map[string]any{"nome": "Medicina", "descricao": "Graduação"})
	require.Equal(t, http.StatusCreated, rec.Code)
	c := decode[types.CursoResponse](t, rec)
	require.NotNil(t, c.Descricao)
	assert.Equal(t, "Graduação", *c.Descricao)

	rec = a.do(http.MethodPost, "/api/cursos", map[string]any{"nome": "Medicina"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = a.do(http.MethodPost, "/api/cursos", map[string]any{"nome": "Me"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	path := fmt.Sprintf("/api/cursos/%d", c.ID)
	rec = a.do(http.MethodPut, path, map[string]any{"nome": "Medicina"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, decode[types.CursoResponse](t, rec).Descricao)

	rec = a.do(http.MethodGet, "/api/cursos", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]types.CursoResponse](t, rec), 1)

	rec = a.do(http.MethodGet, "/api/cursos/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = a.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = a.do(http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateCursoBlankNome(t *testing.T) {
	a := newAPI(t)

	for _, nome := range []string{"     ", "\t\t\t\n"} {
		rec := a.do(http.MethodPost, "/api/cursos", map[string]any{"nome": nome})
		require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

		errResp := decode[response.ErrorResponse](t, rec)
		assert.Equal(t, []string{"nome: é obrigatório"}, errResp.Details)
	}

	list := decode[[]types.CursoResponse](t, a.do(http.MethodGet, "/api/cursos", nil))
	assert.Empty(t, list)
}

func TestDeleteCursoRemovesItsAlunos(t *testing.T) {
	a := newAPI(t)
	c1 := a.createCurso("Música")
	c2 := a.createCurso("Teatro")
	a.createAluno(alunoBody("2024001", c1.ID, 1, 5))
	a.createAluno(alunoBody("2024002", c1.ID, 1, 5))
	kept := a.createAluno(alunoBody("2024003", c2.ID, 1, 5))

	rec := a.do(http.MethodDelete, fmt.Sprintf("/api/cursos/%d", c1.ID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	list := decode[[]types.AlunoResponse](t, a.do(http.MethodGet, "/api/alunos", nil))
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ID)
}

func TestFilter(t *testing.T) {
	a := newAPI(t)
	c1 := a.createCurso("Estatística")
	c2 := a.createCurso("Geografia")
	a.createAluno(alunoBody("2024001", c1.ID, 1, 6.0))
	a.createAluno(alunoBody("2024002", c1.ID, 2, 9.0))
	a.createAluno(alunoBody("2024003", c2.ID, 2, 7.5))
	a.createAluno(alunoBody("2024004", c2.ID, 3, 8.0))

	get := func(query string) []types.AlunoResponse {
		t.Helper()
		rec := a.do(http.MethodGet, "/api/alunos/filtro"+query, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[[]types.AlunoResponse](t, rec)
	}
	matriculas := func(list []types.AlunoResponse) []string {
		out := make([]string, 0, len(list))
		for _, al := range list {
			out = append(out, al.Matricula)
		}
		return out
	}

	t.Run("no parameters returns everything", func(t *testing.T) {
		assert.Len(t, get(""), 4)
	})

	t.Run("cursoId", func(t *testing.T) {
		got := get(fmt.Sprintf("?cursoId=%d", c1.ID))
		assert.ElementsMatch(t, []string{"2024001", "2024002"}, matriculas(got))
		for _, al := range got {
			assert.Equal(t, c1.ID, al.CursoID)
		}
	})

	t.Run("cursoId wins over the other filters", func(t *testing.T) {
		got := get(fmt.Sprintf("?cursoId=%d&semestre=3&mediaMinima=9", c1.ID))
		assert.ElementsMatch(t, []string{"2024001", "2024002"}, matriculas(got))
	})

	t.Run("semestre wins over mediaMinima", func(t *testing.T) {
		got := get("?semestre=2&mediaMinima=9")
		assert.ElementsMatch(t, []string{"2024002", "2024003"}, matriculas(got))
	})

	t.Run("mediaMinima orders by media descending", func(t *testing.T) {
		got := get("?mediaMinima=7.5")
		assert.Equal(t, []string{"2024002", "2024004", "2024003"}, matriculas(got))
	})

	t.Run("malformed parameter", func(t *testing.T) {
		rec := a.do(http.MethodGet, "/api/alunos/filtro?semestre=dois", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	for _, raw := range []string{"NaN", "-Inf", "Inf"} {
		t.Run("mediaMinima "+raw, func(t *testing.T) {
			rec := a.do(http.MethodGet, "/api/alunos/filtro?mediaMinima="+raw, nil)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, decode[response.ErrorResponse](t, rec).Message, "Parâmetro mediaMinima inválido")
		})
	}
}

func TestHealth(t *testing.T) {
	a := newAPI(t)

	rec := a.do(http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.HeaderRequestID))
}
