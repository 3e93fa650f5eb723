package diagram

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"shogi_diagram/internal/bootstrap"
	diag "shogi_diagram/internal/domain/diagram"
	errs "shogi_diagram/internal/errors"
	"shogi_diagram/internal/httpresponse"
	diagramuc "shogi_diagram/internal/usecase/diagram"
	"shogi_diagram/internal/utils"
)

// ShogiBlockName is the content-block language the host tags shogi
// positions with.
const ShogiBlockName = "shogi"

type DiagramHandler struct {
	cfg       bootstrap.Config
	log       *zap.SugaredLogger
	diagramUC *diagramuc.DiagramUseCase
	registry  *Registry
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewDiagramHandler(cfg bootstrap.Config, log *zap.SugaredLogger, diagramUC *diagramuc.DiagramUseCase) *DiagramHandler {
	h := &DiagramHandler{
		cfg:       cfg,
		log:       log,
		diagramUC: diagramUC,
		registry:  NewRegistry(),
	}
	h.registry.Register(ShogiBlockName, diagramUC.RenderBlock)
	return h
}

type RenderBlockRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

type SaveDiagramRequest struct {
	Title  string `json:"title"`
	Source string `json:"source"`
}

type SaveDiagramResponse struct {
	ID string `json:"id"`
}

type GetDiagramResponse struct {
	Record  *diag.Record  `json:"record"`
	Diagram *diag.Diagram `json:"diagram"`
}

// HandleRenderBlock godoc
// @Summary Render one tagged content block into a diagram
// @Description Dispatches the block through the renderer registry by name and returns the renderable grid plus hand captions.
func (h *DiagramHandler) HandleRenderBlock(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.log.Error("Only POST method is allowed")
		httpresponse.WriteResponseWithStatus(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req RenderBlockRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}
	if req.Name == "" {
		req.Name = ShogiBlockName
	}

	renderer, err := h.registry.Get(req.Name)
	if err != nil {
		h.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, http.StatusNotFound, err.Error())
		return
	}

	rendered, err := renderer(r.Context(), req.Source)
	if err != nil {
		h.log.Error("block render failed: ", err)
		httpresponse.WriteResponseWithStatus(w, statusForError(err), err.Error())
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, rendered)
}

// HandleSaveDiagram godoc
// @Summary Persist a notation block as a named diagram document
func (h *DiagramHandler) HandleSaveDiagram(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.log.Error("Only POST method is allowed")
		httpresponse.WriteResponseWithStatus(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
		return
	}

	var req SaveDiagramRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		h.log.Error("JSON decode error: ", err)
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return
	}

	id, err := h.diagramUC.SaveDiagram(r.Context(), req.Title, req.Source)
	if err != nil {
		h.log.Error("diagram save failed: ", err)
		httpresponse.WriteResponseWithStatus(w, statusForError(err), err.Error())
		return
	}

	h.log.Info("diagram saved with id " + id)
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, SaveDiagramResponse{ID: id})
}

// HandleGetDiagram godoc
// @Summary Fetch a stored diagram and its rendered form
// @Description format=text answers with the monospace kanji board instead of the JSON grid.
func (h *DiagramHandler) HandleGetDiagram(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.log.Error("missing id query parameter")
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "missing id query parameter")
		return
	}

	record, rendered, err := h.diagramUC.GetDiagram(r.Context(), id)
	if err != nil {
		h.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, statusForError(err), err.Error())
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, err = w.Write([]byte(diag.RenderText(rendered))); err != nil {
			h.log.Error("text write failed: ", err)
		}
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, GetDiagramResponse{
		Record:  record,
		Diagram: rendered,
	})
}

// HandleListDiagrams godoc
// @Summary List stored diagrams, newest first, one page at a time
func (h *DiagramHandler) HandleListDiagrams(w http.ResponseWriter, r *http.Request) {
	pageNum := 1
	if page := r.URL.Query().Get("page"); page != "" {
		parsed, err := strconv.Atoi(page)
		if err != nil {
			h.log.Error("bad page parameter: ", err)
			httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "bad page parameter: "+err.Error())
			return
		}
		pageNum = parsed
	}

	pageResponse, err := h.diagramUC.ListDiagrams(r.Context(), pageNum)
	if err != nil {
		h.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, statusForError(err), err.Error())
		return
	}

	httpresponse.WriteResponseWithStatus(w, http.StatusOK, pageResponse)
}

// HandleExportDiagram godoc
// @Summary Export a stored diagram as a printable PDF sheet
// @Description The sheet carries the raw notation grid in a monospace font; gofpdf's core fonts have no kanji coverage.
func (h *DiagramHandler) HandleExportDiagram(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		h.log.Error("missing id query parameter")
		httpresponse.WriteResponseWithStatus(w, http.StatusBadRequest, "missing id query parameter")
		return
	}

	record, _, err := h.diagramUC.GetDiagram(r.Context(), id)
	if err != nil {
		h.log.Error(err)
		httpresponse.WriteResponseWithStatus(w, statusForError(err), err.Error())
		return
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Courier", "B", 14)
	title := record.Title
	if title == "" {
		title = record.ID
	}
	pdf.Cell(40, 10, title)
	pdf.Ln(12)
	pdf.SetFont("Courier", "", 11)
	for _, line := range strings.Split(record.Source, "\n") {
		pdf.MultiCell(0, 5, strings.TrimRight(line, "\r"), "", "L", false)
	}

	w.Header().Set("Content-Type", "application/pdf")
	if err := pdf.Output(w); err != nil {
		h.log.Error("pdf output failed: ", err)
	}
}

// HandlePreviewDiagram godoc
// @Summary Live preview over websocket
// @Description Each text message is one raw notation block; the reply is the rendered diagram JSON, or the parse error as plain text. The connection survives parse errors.
func (h *DiagramHandler) HandlePreviewDiagram(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("upgrade error: ", err)
		return
	}
	defer conn.Close()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			h.log.Info("preview connection closed: ", err)
			return
		}

		rendered, err := h.diagramUC.RenderBlock(r.Context(), string(message))
		if err != nil {
			if writeErr := conn.WriteMessage(websocket.TextMessage, []byte(err.Error())); writeErr != nil {
				h.log.Error("preview write error: ", writeErr)
				return
			}
			continue
		}

		if err = conn.WriteJSON(rendered); err != nil {
			h.log.Error("preview write error: ", err)
			return
		}
	}
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, errs.ErrMalformedNotation),
		errors.Is(err, errs.ErrUnknownPieceType),
		errors.Is(err, errs.ErrUnknownPieceColor):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrDiagramNotFound),
		errors.Is(err, errs.ErrBlockNotSupported):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
