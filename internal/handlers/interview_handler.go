package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"interviewprep/internal/lifecycle"
	"interviewprep/internal/models"
	"interviewprep/internal/realtime"
	"interviewprep/internal/utils"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// InterviewHandler exposes the session lifecycle over HTTP and websocket.
type InterviewHandler struct {
	Controller *lifecycle.Controller
	Hub        *realtime.Hub
	MaxUpload  int64
	Logger     *zap.Logger
	upgrader   websocket.Upgrader
}

func NewInterviewHandler(ctrl *lifecycle.Controller, hub *realtime.Hub, maxUpload int64, logger *zap.Logger) *InterviewHandler {
	return &InterviewHandler{
		Controller: ctrl,
		Hub:        hub,
		MaxUpload:  maxUpload,
		Logger:     logger,
		upgrader:   websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}
}

// run resolves the caller and session id, runs fn and writes its result.
func (h *InterviewHandler) run(w http.ResponseWriter, r *http.Request, fn func(userID, sessionID uint) (any, error)) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	result, err := fn(userID, sessionID)
	if err != nil {
		writeActionError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusOK, result)
}

func (h *InterviewHandler) StartHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req models.StartInterviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid_request", "Invalid request payload")
		return
	}
	snap, err := h.Controller.Start(r.Context(), userID, req)
	if err != nil {
		writeActionError(w, h.Logger, err)
		return
	}
	utils.JSON(w, http.StatusCreated, snap)
}

func (h *InterviewHandler) StatusHandler(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.Status(r.Context(), userID, sessionID)
	})
}

func (h *InterviewHandler) PauseHandler(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.Pause(r.Context(), userID, sessionID)
	})
}

func (h *InterviewHandler) ResumeHandler(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.Resume(r.Context(), userID, sessionID)
	})
}

func (h *InterviewHandler) NextQuestionHandler(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.NextQuestion(r.Context(), userID, sessionID)
	})
}

func (h *InterviewHandler) AdvancePhaseHandler(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.AdvancePhase(r.Context(), userID, sessionID)
	})
}

func (h *InterviewHandler) CompleteHandler(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.Complete(r.Context(), userID, sessionID)
	})
}

func (h *InterviewHandler) PhasesHandler(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.Phases(r.Context(), userID, sessionID)
	})
}

func (h *InterviewHandler) DetailHandler(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.Detail(r.Context(), userID, sessionID)
	})
}

func (h *InterviewHandler) CopySettingsHandler(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.CopySettings(r.Context(), userID, sessionID)
	})
}

func (h *InterviewHandler) SkipHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SkipRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.Skip(r.Context(), userID, sessionID, req)
	})
}

func (h *InterviewHandler) AnswerHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AnswerRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.Answer(r.Context(), userID, sessionID, req)
	})
}

func (h *InterviewHandler) StartAnswerHandler(w http.ResponseWriter, r *http.Request) {
	var req models.SlotRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.StartAnswer(r.Context(), userID, sessionID, req)
	})
}

func (h *InterviewHandler) SetPhaseHandler(w http.ResponseWriter, r *http.Request) {
	var req models.PhaseRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.SetPhase(r.Context(), userID, sessionID, req)
	})
}

func (h *InterviewHandler) InterviewerStatusHandler(w http.ResponseWriter, r *http.Request) {
	var req models.InterviewerStatusRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.UpdateInterviewer(r.Context(), userID, sessionID, req)
	})
}

func (h *InterviewHandler) AnalysisHandler(w http.ResponseWriter, r *http.Request) {
	var req models.AnalysisRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.RecordAnalysis(r.Context(), userID, sessionID, req)
	})
}

func (h *InterviewHandler) EmergencyExitHandler(w http.ResponseWriter, r *http.Request) {
	var req models.EmergencyExitRequest
	if !decodeOptionalJSON(w, r, &req) {
		return
	}
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.EmergencyExit(r.Context(), userID, sessionID, req)
	})
}

func (h *InterviewHandler) HintHandler(w http.ResponseWriter, r *http.Request) {
	slotID, ok := pathID(w, r, "slotId")
	if !ok {
		return
	}
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.Hint(r.Context(), userID, sessionID, slotID)
	})
}

func (h *InterviewHandler) UseHintHandler(w http.ResponseWriter, r *http.Request) {
	slotID, ok := pathID(w, r, "slotId")
	if !ok {
		return
	}
	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.UseHint(r.Context(), userID, sessionID, slotID)
	})
}

func (h *InterviewHandler) UploadAudioHandler(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, lifecycle.MediaAudio)
}

func (h *InterviewHandler) UploadVideoHandler(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, lifecycle.MediaVideo)
}

// upload reads a multipart "file" field and a "slotId" form value.
func (h *InterviewHandler) upload(w http.ResponseWriter, r *http.Request, kind lifecycle.MediaKind) {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUpload+1<<20)
	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "missing_file", "A file field is required")
		return
	}
	defer file.Close()
	if header.Size > h.MaxUpload {
		utils.JSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{Code: "file_too_large", Message: "File exceeds the upload limit"})
		return
	}
	slotID, err := strconv.ParseUint(r.FormValue("slotId"), 10, 64)
	if err != nil || slotID == 0 {
		badRequest(w, "missing_slot", "slotId is required")
		return
	}

	h.run(w, r, func(userID, sessionID uint) (any, error) {
		return h.Controller.UploadMedia(r.Context(), userID, sessionID, lifecycle.Upload{
			SlotID:      uint(slotID),
			Kind:        kind,
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		})
	})
}

func (h *InterviewHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.Controller.Delete(r.Context(), userID, sessionID); err != nil {
		writeActionError(w, h.Logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// liveFrame is a message sent by a websocket client.
type liveFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// LiveHandler streams the session's events to the owner over a websocket.
// Clients may also push interviewer status and analysis samples through it.
func (h *InterviewHandler) LiveHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	sessionID, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	snap, err := h.Controller.Status(r.Context(), userID, sessionID)
	if err != nil {
		writeActionError(w, h.Logger, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	client := realtime.NewClient(conn)
	h.Hub.GetOrCreate(sessionID).Join(client)
	defer h.Hub.Leave(sessionID, client)
	client.Send(realtime.Frame{Type: "snapshot", Data: snap})

	ctx := r.Context()
	for {
		var frame liveFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}
		var result any
		switch frame.Type {
		case "ping":
			client.Send(realtime.Frame{Type: "pong"})
			continue
		case "interviewer_status":
			var req models.InterviewerStatusRequest
			if err = json.Unmarshal(frame.Data, &req); err == nil {
				result, err = h.Controller.UpdateInterviewer(ctx, userID, sessionID, req)
			}
		case "analysis":
			var req models.AnalysisRequest
			if err = json.Unmarshal(frame.Data, &req); err == nil {
				result, err = h.Controller.RecordAnalysis(ctx, userID, sessionID, req)
			}
		default:
			client.Send(realtime.Frame{Type: "error", Data: "unknown frame type " + frame.Type})
			continue
		}
		if err != nil {
			client.Send(realtime.Frame{Type: "error", Data: err.Error()})
			continue
		}
		client.Send(realtime.Frame{Type: "ack", Data: result})
	}
}
