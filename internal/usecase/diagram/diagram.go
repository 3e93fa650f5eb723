package diagram

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	diag "shogi_diagram/internal/domain/diagram"
	"shogi_diagram/internal/domain/shogi"
)

type DiagramStore interface {
	SaveDiagram(ctx context.Context, record *diag.Record) error
	GetDiagramByID(ctx context.Context, id string) (*diag.Record, error)
	ListDiagrams(ctx context.Context, pageNum int) (*diag.RecordPage, error)
	CacheRendered(ctx context.Context, source string, payload []byte) error
	LoadRendered(ctx context.Context, source string) ([]byte, bool, error)
}

type DiagramUseCase struct {
	store DiagramStore
	log   *zap.SugaredLogger
}

func NewDiagramUseCase(store DiagramStore, log *zap.SugaredLogger) *DiagramUseCase {
	return &DiagramUseCase{store: store, log: log}
}

// RenderBlock parses a notation block and projects it into a diagram,
// serving repeat sources from the rendered-diagram cache. Cache failures are
// logged and ignored: rendering never depends on the cache being up.
func (u *DiagramUseCase) RenderBlock(ctx context.Context, source string) (*diag.Diagram, error) {
	if cached := u.loadCached(ctx, source); cached != nil {
		return cached, nil
	}

	pos, err := shogi.ParsePosition(source)
	if err != nil {
		return nil, err
	}
	d := diag.FromPosition(pos)

	if payload, err := json.Marshal(d); err == nil {
		if err = u.store.CacheRendered(ctx, source, payload); err != nil {
			u.log.Error("rendered-diagram cache write failed: ", err)
		}
	}
	return d, nil
}

func (u *DiagramUseCase) loadCached(ctx context.Context, source string) *diag.Diagram {
	payload, ok, err := u.store.LoadRendered(ctx, source)
	if err != nil {
		u.log.Error("rendered-diagram cache lookup failed: ", err)
		return nil
	}
	if !ok {
		return nil
	}
	var d diag.Diagram
	if err = json.Unmarshal(payload, &d); err != nil {
		u.log.Error("dropping unreadable cache entry: ", err)
		return nil
	}
	return &d
}

// SaveDiagram validates the notation by parsing it, then persists the block
// as a document. The stored source is the raw block text, so a later render
// sees exactly what the host submitted.
func (u *DiagramUseCase) SaveDiagram(ctx context.Context, title string, source string) (string, error) {
	if _, err := shogi.ParsePosition(source); err != nil {
		return "", err
	}

	record := &diag.Record{
		Title:     title,
		Source:    source,
		CreatedAt: time.Now(),
	}
	if err := u.store.SaveDiagram(ctx, record); err != nil {
		return "", err
	}
	return record.ID, nil
}

func (u *DiagramUseCase) GetDiagram(ctx context.Context, id string) (*diag.Record, *diag.Diagram, error) {
	record, err := u.store.GetDiagramByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	d, err := u.RenderBlock(ctx, record.Source)
	if err != nil {
		return nil, nil, err
	}
	return record, d, nil
}

func (u *DiagramUseCase) ListDiagrams(ctx context.Context, pageNum int) (*diag.RecordPage, error) {
	if pageNum < 1 {
		pageNum = 1
	}
	return u.store.ListDiagrams(ctx, pageNum)
}
