package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"lexedit-backend/internal/lexedit/document"
	"lexedit-backend/internal/lexedit/events"
	"lexedit-backend/internal/lexedit/template"
	"lexedit-backend/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is one open editor: the document with its canvas and history.
// Every operation runs under mu so no caller observes a half-applied edit.
type Session struct {
	ID uuid.UUID

	mu      sync.Mutex
	doc     *document.Document
	emitter events.Emitter
}

// Do runs fn with exclusive access to the document.
func (s *Session) Do(fn func(d *document.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.doc)
}

// Emitter is where the session's events go.
func (s *Session) Emitter() events.Emitter { return s.emitter }

// OrderAPI is the order backend as sessions use it.
type OrderAPI interface {
	document.OrderAPI
	GetOrderData(ctx context.Context, orderNumber, userID int64, sessionID string) (string, error)
}

// RecoveryFactory scopes the recovery store to one order and session.
type RecoveryFactory func(orderNumber int64, sessionID string) document.RecoveryStore

// EmitterFactory returns the event sink of a session.
type EmitterFactory func(id uuid.UUID) events.Emitter

// Options are the shared collaborators of every session.
type Options struct {
	API       OrderAPI
	Templates document.TemplateSource
	Images    template.ImageFetcher
	Recovery  RecoveryFactory
	Emitters  EmitterFactory
	Config    document.Config
}

// OpenRequest describes the order a new session edits.
type OpenRequest struct {
	OrderNumber     int64
	UserID          int64
	SessionID       string
	MembershipType  int
	DefaultSide     string
	MarketingSeries bool
	Advanced        bool
	ViewportWidth   float64
	ViewportHeight  float64
}

// Manager holds the open sessions.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	opts     Options
}

func NewManager(opts Options) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		opts:     opts,
	}
}

// Open fetches the order, loads every face and registers the session.
func (m *Manager) Open(ctx context.Context, req OpenRequest) (*Session, error) {
	id := uuid.New()

	var emitter events.Emitter = events.Discard{}
	if m.opts.Emitters != nil {
		emitter = m.opts.Emitters(id)
	}

	vars := models.NewOrderVars()
	vars.OrderNumber = req.OrderNumber
	vars.UserID = req.UserID
	vars.SessionID = req.SessionID
	vars.MembershipType = req.MembershipType
	vars.DefaultSide = req.DefaultSide
	vars.MarketingSeries = req.MarketingSeries

	deps := document.Deps{
		Templates: m.opts.Templates,
		Images:    m.opts.Images,
		Emitter:   emitter,
	}
	if m.opts.API != nil {
		deps.API = m.opts.API
	}
	if m.opts.Recovery != nil {
		deps.Recovery = m.opts.Recovery(req.OrderNumber, req.SessionID)
	}
	doc := document.New(vars, deps, m.opts.Config)
	if req.ViewportWidth > 0 && req.ViewportHeight > 0 {
		doc.Canvas().SetViewport(req.ViewportWidth, req.ViewportHeight)
	}

	raw := ""
	if m.opts.API != nil {
		var err error
		raw, err = m.opts.API.GetOrderData(ctx, req.OrderNumber, req.UserID, req.SessionID)
		if err != nil {
			events.ReportError(ctx, emitter, "getTemplateData", err.Error())
			return nil, fmt.Errorf("get order data: %w", err)
		}
	}
	if err := doc.LoadTemplateData(ctx, raw); err != nil {
		return nil, err
	}
	if req.Advanced {
		doc.SetEditMode(ctx, true)
	}

	s := &Session{ID: id, doc: doc, emitter: emitter}
	m.mu.Lock()
	m.sessions[id] = s
	m.mu.Unlock()
	return s, nil
}

func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

func (m *Manager) Has(id uuid.UUID) bool {
	_, err := m.Get(id)
	return err == nil
}

// Close forgets the session.
func (m *Manager) Close(id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
