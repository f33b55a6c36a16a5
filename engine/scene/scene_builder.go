package scene

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets the scene's active flag, marking it for rendering.
//
// Parameters:
//   - active: whether this scene starts active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithUpdateWorkers overrides the number of workers used for the parallel
// pose evaluation phase of Update. Defaults to NumCPU-1 (minimum 1).
// Values less than 1 are ignored.
//
// Parameters:
//   - n: worker count
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithUpdateWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n >= 1 {
			s.updateWorkers = n
		}
	}
}
