package tour

import "fmt"

// ValidationError reports a mutation rejected before any external call: a
// required field is missing or a structural rule would be violated. The graph
// is unchanged when one is returned.
type ValidationError struct {
	// Field is the name of the offending field or rule.
	Field string
	// Reason describes the violated rule in user-facing terms.
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// DanglingReferenceError reports persisted data that references something no
// longer present, such as an access hotspot whose target scene was deleted.
// These are never fatal; the offending hotspot is excluded from rendering and
// navigation.
type DanglingReferenceError struct {
	// HotspotID identifies the offending hotspot.
	HotspotID string
	// TargetSceneID is the scene id the hotspot points at.
	TargetSceneID string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("hotspot %s targets unknown scene %s", e.HotspotID, e.TargetSceneID)
}

// ResourceLoadError reports a panorama texture that failed to fetch or
// decode. The scene falls back to a placeholder material instead of aborting.
type ResourceLoadError struct {
	// URL is the resource that failed to load.
	URL string
	// Err is the underlying failure.
	Err error
}

func (e *ResourceLoadError) Error() string {
	return fmt.Sprintf("failed to load resource %s: %v", e.URL, e.Err)
}

func (e *ResourceLoadError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a failed call to the external tour API. Local
// state is retained so in-progress work is not lost, but it must be treated
// as unsaved until a later write succeeds.
type PersistenceError struct {
	// Op names the operation that failed (e.g. "replace tour").
	Op string
	// Err is the underlying failure.
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("could not save (%s), try again: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// PermissionError reports an invalid or unknown access key on the public
// embed surface. It carries no internal detail beyond the user-facing reason.
type PermissionError struct {
	// Reason is a user-facing description, typically "tour not available".
	Reason string
}

func (e *PermissionError) Error() string {
	return e.Reason
}
