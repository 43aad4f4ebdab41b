package api

import (
	"context"
	"errors"
	"sync"

	"github.com/spynter/hub360/logging"
	"github.com/spynter/hub360/tour"
)

// Session owns a tour document for one editing or viewing session and
// applies the consistency policy on every mutation: mutate the in-memory
// graph first, push to the external API, then re-fetch and adopt the server's
// copy as authoritative. The local optimistic state is never trusted as
// final; when the push or re-fetch fails it is retained but flagged dirty so
// the user does not lose in-progress work.
//
// Mutations are serialized; concurrent edits within one session are not a
// supported scenario.
type Session interface {
	// Tour returns the current in-memory document. Callers must treat it as
	// read-only; all mutation goes through the session methods.
	Tour() *tour.Tour
	// Dirty reports whether local edits exist that the server has not
	// confirmed.
	Dirty() bool

	// Load fetches the tour by id, sanitizes it and adopts it.
	Load(ctx context.Context) error
	// LoadByAccessKey fetches the tour through the public embed surface.
	LoadByAccessKey(ctx context.Context, key string) error

	// AddScene uploads a panorama image, appends a scene referencing it and
	// pushes the change.
	AddScene(ctx context.Context, name, filename string, image []byte) (*tour.Scene, error)
	// DeleteScene removes a scene and pushes the change.
	//
	// Parameters:
	//   - ctx: context for cancellation
	//   - sceneID: the scene to remove
	//   - currentIndex: the caller's current scene index
	//
	// Returns:
	//   - int: the adjusted current scene index
	//   - error: *tour.ValidationError locally, *tour.PersistenceError on push
	DeleteScene(ctx context.Context, sceneID string, currentIndex int) (int, error)
	// AddHotspot validates and appends a hotspot through the dedicated
	// endpoint, then re-fetches.
	AddHotspot(ctx context.Context, sceneID string, h tour.Hotspot) (*tour.Hotspot, error)
	// UpdateHotspot replaces a hotspot in place and pushes the change.
	UpdateHotspot(ctx context.Context, sceneID string, index int, h tour.Hotspot) error
	// DeleteHotspot removes a hotspot by position and pushes the change.
	DeleteHotspot(ctx context.Context, sceneID string, index int) error
}

var _ Session = &session{}

type session struct {
	mu     sync.Mutex
	client Client
	tourID string
	doc    *tour.Tour
	dirty  bool
}

// NewSession creates a Session over the given client.
//
// Parameters:
//   - client: the persistence collaborator
//   - tourID: id of the tour this session owns
//
// Returns:
//   - Session: the session, empty until Load or LoadByAccessKey succeeds
func NewSession(client Client, tourID string) Session {
	return &session{
		client: client,
		tourID: tourID,
	}
}

// Tour implements Session.
func (s *session) Tour() *tour.Tour {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Dirty implements Session.
func (s *session) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Load implements Session.
func (s *session) Load(ctx context.Context) error {
	t, err := s.client.FetchTour(ctx, s.tourID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.adopt(t)
	return nil
}

// LoadByAccessKey implements Session.
func (s *session) LoadByAccessKey(ctx context.Context, key string) error {
	t, err := s.client.ResolveTourByAccessKey(ctx, key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tourID = t.ID
	s.adopt(t)
	return nil
}

// AddScene implements Session.
func (s *session) AddScene(ctx context.Context, name, filename string, image []byte) (*tour.Scene, error) {
	imageURL, err := s.client.UploadImage(ctx, filename, image)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	scene, err := s.doc.AddScene(name, imageURL)
	if err != nil {
		return nil, err
	}
	sceneID := scene.ID

	if err := s.pushAndRefetch(ctx); err != nil {
		return s.doc.SceneByID(sceneID), err
	}
	return s.doc.SceneByID(sceneID), nil
}

// DeleteScene implements Session.
func (s *session) DeleteScene(ctx context.Context, sceneID string, currentIndex int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	newIndex, err := s.doc.DeleteScene(sceneID, currentIndex)
	if err != nil {
		return currentIndex, err
	}
	return newIndex, s.pushAndRefetch(ctx)
}

// AddHotspot implements Session.
func (s *session) AddHotspot(ctx context.Context, sceneID string, h tour.Hotspot) (*tour.Hotspot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Local validation first; nothing reaches the wire for a rejected
	// hotspot.
	added, err := s.doc.AddHotspot(sceneID, h)
	if err != nil {
		return nil, err
	}

	stored, err := s.client.AppendHotspot(ctx, s.tourID, sceneID, *added)
	if err != nil {
		s.dirty = true
		return added, err
	}

	if err := s.refetch(ctx); err != nil {
		return stored, err
	}
	return stored, nil
}

// UpdateHotspot implements Session.
func (s *session) UpdateHotspot(ctx context.Context, sceneID string, index int, h tour.Hotspot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.doc.UpdateHotspot(sceneID, index, h); err != nil {
		return err
	}
	return s.pushAndRefetch(ctx)
}

// DeleteHotspot implements Session.
func (s *session) DeleteHotspot(ctx context.Context, sceneID string, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.doc.DeleteHotspot(sceneID, index); err != nil {
		return err
	}
	return s.pushAndRefetch(ctx)
}

// pushAndRefetch writes the whole document and adopts the server's copy.
// Must be called with s.mu held.
func (s *session) pushAndRefetch(ctx context.Context) error {
	if _, err := s.client.ReplaceTour(ctx, s.tourID, s.doc); err != nil {
		s.dirty = true
		return err
	}
	return s.refetch(ctx)
}

// refetch reconciles local state against the server after a write. Must be
// called with s.mu held.
func (s *session) refetch(ctx context.Context) error {
	t, err := s.client.FetchTour(ctx, s.tourID)
	if err != nil {
		// The write itself succeeded; keep local state but flag it until a
		// later round trip confirms it.
		s.dirty = true
		var perr *tour.PersistenceError
		if errors.As(err, &perr) {
			return err
		}
		return &tour.PersistenceError{Op: "reconcile", Err: err}
	}
	s.adopt(t)
	return nil
}

// adopt installs a freshly fetched document. Must be called with s.mu held.
func (s *session) adopt(t *tour.Tour) {
	dropped := t.Sanitize()
	for _, d := range dropped {
		logging.Warn().
			Str("scene", d.SceneID).
			Str("hotspot", d.HotspotID).
			Str("reason", d.Reason).
			Msg("dropped corrupt hotspot")
	}
	s.doc = t
	s.dirty = false
}
