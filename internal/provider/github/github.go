package github

import (
	"net/http"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"

	"github.com/simplesurance/draftguard/internal/logfields"
)

const loggerName = "github_event_provider"

// SupportedEventTypes are the webhook event types that are forwarded, other
// events are acknowledged and discarded.
var SupportedEventTypes = map[string]struct{}{
	"workflow_run": {},
	"pull_request": {},
	"check_suite":  {},
}

type actionGetter interface {
	GetAction() string
}

// Provider listens for github-webhook http-requests at a http-server handler,
// validates and converts the requests to Events and forwards them to an event
// channel.
type Provider struct {
	logger        *zap.Logger
	webhookSecret []byte
	c             chan<- *Event
}

type Option func(*Provider)

// WithPayloadSecret enables validating the HMAC signature of received
// payloads.
func WithPayloadSecret(secret string) Option {
	return func(p *Provider) {
		p.webhookSecret = []byte(secret)
	}
}

func New(eventChan chan<- *Event, opts ...Option) *Provider {
	p := Provider{
		c: eventChan,
	}

	for _, o := range opts {
		o(&p)
	}

	if p.logger == nil {
		p.logger = zap.L().Named(loggerName)
	}

	return &p
}

func (p *Provider) HTTPHandler(resp http.ResponseWriter, req *http.Request) {
	deliveryID := github.DeliveryID(req)
	hookType := github.WebHookType(req)

	logFields := []zap.Field{
		logfields.EventProvider("github"),
		logfields.DeliveryID(deliveryID),
		zap.String("github.webhook_type", hookType),
	}

	logger := p.logger.With(logFields...)

	payload, err := github.ValidatePayload(req, p.webhookSecret)
	if err != nil {
		logger.Info(
			"received invalid http request, payload validation failed",
			logfields.Event("github_http_request_validation_failed"),
			zap.Error(err),
		)
		http.Error(resp, err.Error(), http.StatusBadRequest)
		return
	}

	if _, supported := SupportedEventTypes[hookType]; !supported {
		logger.Debug(
			"ignoring event, event type is unsupported",
			logfields.Event("github_unsupported_event_received"),
		)
		return
	}

	event, err := github.ParseWebHook(hookType, payload)
	if err != nil {
		logger.Info(
			"received invalid http request, parsing failed",
			logfields.Event("github_event_parsing_failed"),
			zap.Error(err),
		)
		http.Error(resp, err.Error(), http.StatusBadRequest)
		return
	}

	ev := Event{
		DeliveryID: deliveryID,
		Type:       hookType,
		JSON:       payload,
		Event:      event,
	}

	if v, ok := event.(actionGetter); ok {
		ev.Action = v.GetAction()
		logFields = append(logFields, zap.String("github.webhook_action", ev.Action))
		logger = p.logger.With(logFields...)
	}

	ev.LogFields = logFields

	logger.Debug(
		"received github event",
		logfields.Event("github_event_received"),
	)

	select {
	case p.c <- &ev:
		logger.Debug(
			"event forwarded to channel",
			logfields.Event("github_event_forwarded"),
		)

	default:
		logger.Warn(
			"event lost, forwarding event to channel failed",
			zap.String("error", "could not forward event to channel, send would have blocked"),
			logfields.Event("github_forwarding_event_failed"),
		)

		http.Error(resp, "queue full", http.StatusServiceUnavailable)
		return
	}
}
