package loader

// LoaderBuilderOption is a functional option for configuring a Loader via NewLoader.
type LoaderBuilderOption func(*loader)

// WithBakeRate is an option builder that sets the sample rate used when baking
// animation channels into frame sequences.
//
// Parameters:
//   - rate: the bake rate in frames per second (must be > 0)
//
// Returns:
//   - LoaderBuilderOption: a function that applies the bake rate option to a loader
func WithBakeRate(rate float32) LoaderBuilderOption {
	return func(l *loader) {
		if rate > 0 {
			l.bakeRate = rate
		}
	}
}

// WithLoopDefault is an option builder that sets the default loop policy for
// baked clips. Individual clips can still be overridden via a clip manifest.
//
// Parameters:
//   - loop: true if baked clips should loop by default
//
// Returns:
//   - LoaderBuilderOption: a function that applies the loop default option to a loader
func WithLoopDefault(loop bool) LoaderBuilderOption {
	return func(l *loader) {
		l.loopDefault = loop
	}
}

// WithClipManifest is an option builder that sets a YAML clip manifest path.
// The manifest replaces the baked clip table, naming sub-ranges of the frame
// store for assets that ship a single long timeline.
//
// Parameters:
//   - path: the manifest file path
//
// Returns:
//   - LoaderBuilderOption: a function that applies the manifest option to a loader
func WithClipManifest(path string) LoaderBuilderOption {
	return func(l *loader) {
		l.manifestPath = path
	}
}
