// Package hook provides the request/verdict cycle run for each proposed command.
package hook

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/adrianpk/safeguard/internal/audit"
	"github.com/adrianpk/safeguard/internal/policy"
)

const (
	PermissionAllow = "allow"
	PermissionDeny  = "deny"
)

// Request is the payload received from the host.
type Request struct {
	Command string
}

// Output is the verdict returned to the host.
type Output struct {
	Continue     bool   `json:"continue"`
	Permission   string `json:"permission"`
	UserMessage  string `json:"user_message,omitempty"`
	AgentMessage string `json:"agent_message,omitempty"`
}

// Classifier decides whether a command is destructive.
type Classifier interface {
	Evaluate(command string) policy.Decision
}

// Service turns one request into one verdict and one audit record.
type Service struct {
	classifier Classifier
	sink       audit.Sink
	logger     *slog.Logger
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source used for audit records.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a service. A nil sink discards audit records.
func NewService(classifier Classifier, sink audit.Sink, opts ...Option) *Service {
	if sink == nil {
		sink = audit.Discard
	}
	s := &Service{
		classifier: classifier,
		sink:       sink,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ParseRequest decodes the host payload. The payload must be a JSON object;
// a missing or non-string command field yields an empty command.
func ParseRequest(payload []byte) (Request, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return Request{}, fmt.Errorf("cannot decode input: %w", err)
	}
	if fields == nil {
		return Request{}, errors.New("cannot decode input: not a JSON object")
	}

	var req Request
	if raw, ok := fields["command"]; ok {
		if err := json.Unmarshal(raw, &req.Command); err != nil {
			req.Command = ""
		}
	}
	return req, nil
}

// Handle classifies the payload and records the outcome.
// It never fails: any error or panic yields an allow verdict audited as ERROR.
func (s *Service) Handle(payload []byte) (out Output) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("request handling panicked", "panic", r)
			s.record(audit.Error, fmt.Sprint(r))
			out = allow()
		}
	}()

	req, err := ParseRequest(payload)
	if err != nil {
		s.logger.Warn("malformed request", "err", err)
		s.record(audit.Error, err.Error())
		return allow()
	}

	return s.decide(req.Command)
}

// Run reads the whole request from r and writes exactly one verdict line to w.
func (s *Service) Run(r io.Reader, w io.Writer) error {
	var out Output
	payload, err := io.ReadAll(r)
	if err != nil {
		s.logger.Warn("cannot read input", "err", err)
		s.record(audit.Error, err.Error())
		out = allow()
	} else {
		out = s.Handle(payload)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}
	return nil
}

func (s *Service) decide(command string) Output {
	decision := s.classifier.Evaluate(command)
	if decision.Allowed {
		s.record(audit.Allowed, command)
		return allow()
	}

	s.record(audit.Blocked, command)
	s.logger.Info("command blocked", "rule", ruleName(decision), "command", command)
	return deny(command, decision)
}

// record writes an audit entry. Failures are logged and dropped.
func (s *Service) record(tag audit.Tag, text string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug("audit sink panicked", "panic", r)
		}
	}()

	rec := audit.Record{Time: s.now(), Tag: tag, Text: text}
	if err := s.sink.Write(rec); err != nil {
		s.logger.Debug("audit write failed", "err", err)
	}
}

func allow() Output {
	return Output{Continue: true, Permission: PermissionAllow}
}

func deny(command string, decision policy.Decision) Output {
	return Output{
		Continue:     true,
		Permission:   PermissionDeny,
		UserMessage:  userMessage(command, decision),
		AgentMessage: agentMessage(command, decision),
	}
}

func userMessage(command string, decision policy.Decision) string {
	return fmt.Sprintf("safeguard blocked a destructive command: %s (%s)", command, decision.Reason)
}

func agentMessage(command string, decision policy.Decision) string {
	return fmt.Sprintf(
		"The command \"%s\" was blocked because it matches the destructive pattern %q (%s). "+
			"Do not retry or work around it. If this operation is really intended, ask the user to run it manually.",
		command, ruleName(decision), decision.Reason)
}

func ruleName(decision policy.Decision) string {
	if decision.Rule == nil {
		return "unknown"
	}
	return decision.Rule.Name
}
