package scene

// SceneBuilderOption is a functional option for configuring a Scene via NewScene.
type SceneBuilderOption func(*scene)

// WithBaseURL is an option builder that sets the base URL relative panorama
// paths resolve against.
//
// Parameters:
//   - baseURL: the API base URL
//
// Returns:
//   - SceneBuilderOption: a function that applies the base URL option to a scene
func WithBaseURL(baseURL string) SceneBuilderOption {
	return func(s *scene) {
		s.baseURL = baseURL
	}
}
