// Package remotetest is an in-process fake of the restaurant API for tests.
// Handlers are registered per action; every request is recorded.
package remotetest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/wimpyapp/ordering/internal/transport"
)

type Call struct {
	Action string
	Method string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// Decode unmarshals the recorded JSON body into v.
func (c Call) Decode(v any) error {
	return json.Unmarshal(c.Body, v)
}

type Reply struct {
	Status   int
	Envelope transport.Envelope
	Raw      string
}

type Handler func(Call) Reply

func OK(result any) Reply {
	env := transport.Envelope{Success: true}
	if result != nil {
		b, err := json.Marshal(result)
		if err != nil {
			panic(err)
		}
		env.Result = b
	}
	return Reply{Status: http.StatusOK, Envelope: env}
}

func Fail(message string) Reply {
	return Reply{Status: http.StatusOK, Envelope: transport.Envelope{Success: false, Message: message}}
}

func Status(code int) Reply {
	return Reply{Status: code, Raw: http.StatusText(code)}
}

func Raw(body string) Reply {
	return Reply{Status: http.StatusOK, Raw: body}
}

type Server struct {
	srv *httptest.Server

	mu       sync.Mutex
	handlers map[string]Handler
	calls    []Call
}

func New(t *testing.T) *Server {
	t.Helper()

	s := &Server{handlers: make(map[string]Handler)}

	e := echo.New()
	e.HideBanner = true
	e.Any("/exec", s.dispatch)
	s.srv = httptest.NewServer(e)
	t.Cleanup(s.srv.Close)
	return s
}

func (s *Server) URL() string {
	return s.srv.URL + "/exec"
}

func (s *Server) On(action string, h Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[action] = h
}

// Reply registers a fixed reply for action.
func (s *Server) Reply(action string, r Reply) {
	s.On(action, func(Call) Reply { return r })
}

func (s *Server) Calls(action string) []Call {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Call
	for _, c := range s.calls {
		if c.Action == action {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) Count(action string) int {
	return len(s.Calls(action))
}

// Actions lists every received action in arrival order.
func (s *Server) Actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Action)
	}
	return out
}

func (s *Server) dispatch(c echo.Context) error {
	req := c.Request()
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "cannot read body")
	}

	call := Call{
		Action: c.QueryParam("action"),
		Method: req.Method,
		Query:  c.QueryParams(),
		Header: req.Header.Clone(),
		Body:   body,
	}

	s.mu.Lock()
	s.calls = append(s.calls, call)
	h, ok := s.handlers[call.Action]
	s.mu.Unlock()

	if !ok {
		return c.JSON(http.StatusOK, transport.Envelope{Success: false, Message: "Acción no válida"})
	}

	r := h(call)
	if r.Status == 0 {
		r.Status = http.StatusOK
	}
	if r.Raw != "" {
		return c.String(r.Status, r.Raw)
	}
	return c.JSON(r.Status, r.Envelope)
}
