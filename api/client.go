// package api contains the persistence collaborator for tour documents: an
// abstract client over the external tour service plus the session layer that
// applies the write-then-refetch consistency policy on every mutation.
package api

import (
	"context"

	"github.com/spynter/hub360/tour"
)

// Client is the external tour persistence collaborator. The engine never
// talks to the network directly; everything goes through this interface so
// the viewer and editor can be exercised against a fake in tests.
type Client interface {
	// FetchTour retrieves a tour document by id.
	//
	// Parameters:
	//   - ctx: context for cancellation
	//   - id: the tour id
	//
	// Returns:
	//   - *tour.Tour: the fetched document
	//   - error: *tour.PersistenceError on failure
	FetchTour(ctx context.Context, id string) (*tour.Tour, error)

	// ReplaceTour overwrites the whole tour document. This is the write half
	// of the write-then-refetch policy used by most mutations.
	//
	// Parameters:
	//   - ctx: context for cancellation
	//   - id: the tour id
	//   - t: the full document to store
	//
	// Returns:
	//   - *tour.Tour: the document as stored
	//   - error: *tour.PersistenceError on failure
	ReplaceTour(ctx context.Context, id string, t *tour.Tour) (*tour.Tour, error)

	// AppendHotspot adds a single hotspot through the dedicated endpoint used
	// by the editor's placement flow.
	//
	// Parameters:
	//   - ctx: context for cancellation
	//   - tourID: the tour id
	//   - sceneID: the scene receiving the hotspot
	//   - h: the hotspot data
	//
	// Returns:
	//   - *tour.Hotspot: the stored hotspot, with its server-assigned id
	//   - error: *tour.PersistenceError on failure
	AppendHotspot(ctx context.Context, tourID, sceneID string, h tour.Hotspot) (*tour.Hotspot, error)

	// ResolveTourByAccessKey retrieves a tour through the unauthenticated
	// public embed surface.
	//
	// Parameters:
	//   - ctx: context for cancellation
	//   - key: the opaque access key
	//
	// Returns:
	//   - *tour.Tour: the resolved tour
	//   - error: *tour.PermissionError for an unknown or invalid key,
	//     *tour.PersistenceError for transport failures
	ResolveTourByAccessKey(ctx context.Context, key string) (*tour.Tour, error)

	// UploadImage stores a panorama image and returns its URL reference,
	// typically a relative upload path to resolve with tour.ResolveImageURL.
	//
	// Parameters:
	//   - ctx: context for cancellation
	//   - filename: the original file name, used for the stored extension
	//   - data: the encoded image bytes
	//
	// Returns:
	//   - string: the stored image reference
	//   - error: *tour.PersistenceError on failure
	UploadImage(ctx context.Context, filename string, data []byte) (string, error)
}
