package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/udislau/ppe-agents/internal/analysis"
	"github.com/udislau/ppe-agents/internal/api/models"
	"github.com/udislau/ppe-agents/internal/sim"
)

const streamWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	HandshakeTimeout: 10 * time.Second,
	// CORS is enforced by the router middleware; the handshake itself
	// accepts any origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

// StreamHandler runs a simulation over a websocket, pushing one frame per
// settled step so clients can plot or log the run live.
type StreamHandler struct {
	log *logrus.Logger
}

func NewStreamHandler(log *logrus.Logger) *StreamHandler {
	return &StreamHandler{log: log}
}

// streamFrame is one websocket message. Exactly one field is set.
type streamFrame struct {
	Step    *sim.StepRecord   `json:"step,omitempty"`
	Summary *analysis.Summary `json:"summary,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// Stream handles GET /api/v1/simulate/stream. The client's first message is
// a SimulateRequest; the server answers with a step frame per cleared step
// and a final summary frame.
func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error.
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req models.SimulateRequest
	if err := conn.ReadJSON(&req); err != nil {
		h.writeFrame(conn, streamFrame{Error: "invalid request: " + err.Error()})
		return
	}

	coop, inputs, err := BuildRun(req)
	if err != nil {
		h.writeFrame(conn, streamFrame{Error: err.Error()})
		return
	}

	steps := len(inputs)
	if req.Options.LimitSteps > 0 && req.Options.LimitSteps < steps {
		steps = req.Options.LimitSteps
	}

	for i := 0; i < steps; i++ {
		rec, err := coop.Step(inputs[i])
		if err != nil {
			h.writeFrame(conn, streamFrame{Error: err.Error()})
			return
		}
		if !h.writeFrame(conn, streamFrame{Step: &rec}) {
			return
		}
	}

	summary := analysis.Summarize(coop.History())
	h.writeFrame(conn, streamFrame{Summary: &summary})
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(streamWriteTimeout))
}

func (h *StreamHandler) writeFrame(conn *websocket.Conn, frame streamFrame) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	if err := conn.WriteJSON(frame); err != nil {
		h.log.WithError(err).Warn("websocket write failed")
		return false
	}
	return true
}
