package http

import (
	"encoding/json"
	"log"
	"net/http"

	"exam-session-service/internal/app"
	"exam-session-service/internal/domain"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	service  *app.ExamService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ExamService) *WSHandler {
	return &WSHandler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type selectPayload struct {
	QuestionID int    `json:"questionId"`
	Option     string `json:"option"`
}

type clearPayload struct {
	QuestionID int `json:"questionId"`
}

type academicPayload struct {
	RawA float64 `json:"rawA"`
	RawB float64 `json:"rawB"`
}

type questionsPayload struct {
	Set             domain.QuestionSet `json:"set"`
	DurationSeconds int                `json:"durationSeconds"`
	Answered        int                `json:"answered"`
	State           domain.SessionState `json:"state"`
}

type answeredPayload struct {
	QuestionID int `json:"questionId"`
	Answered   int `json:"answered"`
}

type submittedPayload struct {
	Result  domain.Result `json:"result"`
	Message string        `json:"message"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the exam
// attempt use cases. One connection serves one candidate's attempt.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	examID := r.URL.Query().Get("examId")
	candidate := domain.Candidate{
		Name:  r.URL.Query().Get("name"),
		Email: r.URL.Query().Get("email"),
		Phone: r.URL.Query().Get("phone"),
	}
	if examID == "" || candidate.Name == "" || candidate.Email == "" {
		http.Error(w, "missing examId, name, or email", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	set, err := h.service.Register(r.Context(), examID, candidate)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	events, cancel, err := h.service.Subscribe(examID, candidate.Email)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer cancel()
	defer h.service.Leave(examID, candidate.Email)

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- h.outbound(event):
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	progress, _ := h.service.Progress(examID, candidate.Email)
	send <- outboundMessage[any]{Type: "questions", Payload: questionsPayload{
		Set:             set,
		DurationSeconds: h.service.Scheme().DurationSeconds,
		Answered:        progress.Answered,
		State:           progress.State,
	}}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		switch inbound.Type {
		case "start":
			if err := h.service.StartExam(examID, candidate.Email); err != nil {
				send <- errorMessage(err)
			}
		case "select":
			var payload selectPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid select payload"}}
				continue
			}
			answered, err := h.service.SelectAnswer(examID, candidate.Email, payload.QuestionID, payload.Option)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[any]{Type: "answered", Payload: answeredPayload{QuestionID: payload.QuestionID, Answered: answered}}
		case "clear":
			var payload clearPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid clear payload"}}
				continue
			}
			answered, err := h.service.ClearAnswer(examID, candidate.Email, payload.QuestionID)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[any]{Type: "answered", Payload: answeredPayload{QuestionID: payload.QuestionID, Answered: answered}}
		case "academic":
			var payload academicPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid academic payload"}}
				continue
			}
			if err := h.service.ProvideAcademicRecord(examID, candidate.Email, domain.AcademicRecord{RawA: payload.RawA, RawB: payload.RawB}); err != nil {
				send <- errorMessage(err)
			}
		case "submit":
			if _, err := h.service.SubmitExam(examID, candidate.Email); err != nil {
				send <- errorMessage(err)
			}
			// The submitted event arrives through the subscription.
		case "reset":
			if err := h.service.ResetExam(examID, candidate.Email); err != nil {
				send <- errorMessage(err)
			}
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

func (h *WSHandler) outbound(event domain.SessionEvent) outboundMessage[any] {
	if event.Type == domain.EventSubmitted && event.Result != nil {
		return outboundMessage[any]{Type: event.Type, Payload: submittedPayload{
			Result:  *event.Result,
			Message: domain.ResultMessage(event.Result.Percentage),
		}}
	}
	return outboundMessage[any]{Type: event.Type, Payload: event}
}

func errorMessage(err error) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
}
