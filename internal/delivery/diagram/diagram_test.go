package diagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shogi_diagram/internal/bootstrap"
	diag "shogi_diagram/internal/domain/diagram"
	errs "shogi_diagram/internal/errors"
	diagramuc "shogi_diagram/internal/usecase/diagram"
)

var emptyBoardSource = "\n" + strings.Repeat("  |  |  |  |  |  |  |  |  \n", 9)

type memoryStore struct {
	records map[string]*diag.Record
	cache   map[string][]byte
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		records: make(map[string]*diag.Record),
		cache:   make(map[string][]byte),
	}
}

func (m *memoryStore) SaveDiagram(_ context.Context, record *diag.Record) error {
	if record.ID == "" {
		record.ID = "test-id"
	}
	m.records[record.ID] = record
	return nil
}

func (m *memoryStore) GetDiagramByID(_ context.Context, id string) (*diag.Record, error) {
	record, ok := m.records[id]
	if !ok {
		return nil, errs.ErrDiagramNotFound
	}
	return record, nil
}

func (m *memoryStore) ListDiagrams(_ context.Context, pageNum int) (*diag.RecordPage, error) {
	return &diag.RecordPage{PageNum: pageNum, TotalPages: 0, Diagrams: nil}, nil
}

func (m *memoryStore) CacheRendered(_ context.Context, source string, payload []byte) error {
	m.cache[source] = payload
	return nil
}

func (m *memoryStore) LoadRendered(_ context.Context, source string) ([]byte, bool, error) {
	payload, ok := m.cache[source]
	return payload, ok, nil
}

func newTestHandler() *DiagramHandler {
	log := zap.NewNop().Sugar()
	uc := diagramuc.NewDiagramUseCase(newMemoryStore(), log)
	return NewDiagramHandler(bootstrap.Config{}, log, uc)
}

func postRenderBlock(t *testing.T, h *DiagramHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/renderBlock", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.HandleRenderBlock(rec, req)
	return rec
}

func envelopeStatus(t *testing.T, rec *httptest.ResponseRecorder) int {
	t.Helper()
	var envelope struct {
		Status int `json:"Status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Status
}

func TestHandleRenderBlockOK(t *testing.T) {
	h := newTestHandler()

	payload, err := json.Marshal(map[string]string{
		"name":   ShogiBlockName,
		"source": emptyBoardSource,
	})
	require.NoError(t, err)

	rec := postRenderBlock(t, h, string(payload))
	assert.Equal(t, http.StatusOK, envelopeStatus(t, rec))
	assert.Contains(t, rec.Body.String(), "\"rows\"")
	assert.Contains(t, rec.Body.String(), diag.GoteHandLabel)
}

func TestHandleRenderBlockDefaultsToShogi(t *testing.T) {
	h := newTestHandler()

	payload, err := json.Marshal(map[string]string{"source": emptyBoardSource})
	require.NoError(t, err)

	rec := postRenderBlock(t, h, string(payload))
	assert.Equal(t, http.StatusOK, envelopeStatus(t, rec))
}

func TestHandleRenderBlockParseError(t *testing.T) {
	h := newTestHandler()

	payload, err := json.Marshal(map[string]string{
		"name":   ShogiBlockName,
		"source": "too\nshort",
	})
	require.NoError(t, err)

	rec := postRenderBlock(t, h, string(payload))
	assert.Equal(t, http.StatusBadRequest, envelopeStatus(t, rec))
	assert.Contains(t, rec.Body.String(), "malformed")
}

func TestHandleRenderBlockUnknownBlock(t *testing.T) {
	h := newTestHandler()

	payload, err := json.Marshal(map[string]string{
		"name":   "chess",
		"source": emptyBoardSource,
	})
	require.NoError(t, err)

	rec := postRenderBlock(t, h, string(payload))
	assert.Equal(t, http.StatusNotFound, envelopeStatus(t, rec))
}

func TestHandleRenderBlockRejectsGet(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/renderBlock", nil)
	rec := httptest.NewRecorder()
	h.HandleRenderBlock(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, envelopeStatus(t, rec))
}

func TestHandleSaveAndGetDiagram(t *testing.T) {
	h := newTestHandler()

	payload, err := json.Marshal(map[string]string{
		"title":  "empty board",
		"source": emptyBoardSource,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/saveDiagram", strings.NewReader(string(payload)))
	rec := httptest.NewRecorder()
	h.HandleSaveDiagram(rec, req)
	require.Equal(t, http.StatusOK, envelopeStatus(t, rec))

	var saved struct {
		Body struct {
			ID string `json:"id"`
		} `json:"Body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))
	require.NotEmpty(t, saved.Body.ID)

	req = httptest.NewRequest(http.MethodGet, "/getDiagram?id="+saved.Body.ID, nil)
	rec = httptest.NewRecorder()
	h.HandleGetDiagram(rec, req)
	assert.Equal(t, http.StatusOK, envelopeStatus(t, rec))
	assert.Contains(t, rec.Body.String(), "empty board")
}

func TestHandleGetDiagramTextFormat(t *testing.T) {
	h := newTestHandler()

	payload, err := json.Marshal(map[string]string{
		"title":  "empty board",
		"source": emptyBoardSource,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/saveDiagram", strings.NewReader(string(payload)))
	rec := httptest.NewRecorder()
	h.HandleSaveDiagram(rec, req)
	require.Equal(t, http.StatusOK, envelopeStatus(t, rec))

	var saved struct {
		Body struct {
			ID string `json:"id"`
		} `json:"Body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &saved))

	req = httptest.NewRequest(http.MethodGet, "/getDiagram?id="+saved.Body.ID+"&format=text", nil)
	rec = httptest.NewRecorder()
	h.HandleGetDiagram(rec, req)

	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "・")
	assert.Contains(t, rec.Body.String(), diag.SenteHandLabel)
}

func TestHandleGetDiagramNotFound(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/getDiagram?id=missing", nil)
	rec := httptest.NewRecorder()
	h.HandleGetDiagram(rec, req)

	assert.Equal(t, http.StatusNotFound, envelopeStatus(t, rec))
}

func TestHandleGetDiagramMissingID(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/getDiagram", nil)
	rec := httptest.NewRecorder()
	h.HandleGetDiagram(rec, req)

	assert.Equal(t, http.StatusBadRequest, envelopeStatus(t, rec))
}

func TestHandleListDiagramsBadPage(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/listDiagrams?page=abc", nil)
	rec := httptest.NewRecorder()
	h.HandleListDiagrams(rec, req)

	assert.Equal(t, http.StatusBadRequest, envelopeStatus(t, rec))
}

func TestStatusForError(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusForError(errs.ErrMalformedNotation))
	assert.Equal(t, http.StatusBadRequest, statusForError(errs.ErrUnknownPieceType))
	assert.Equal(t, http.StatusBadRequest, statusForError(errs.ErrUnknownPieceColor))
	assert.Equal(t, http.StatusNotFound, statusForError(errs.ErrDiagramNotFound))
	assert.Equal(t, http.StatusNotFound, statusForError(errs.ErrBlockNotSupported))
	assert.Equal(t, http.StatusInternalServerError, statusForError(errs.ErrInternal))
}
