package config

// Load merges the overlays over the package defaults exactly once and builds
// the effective Config. Overlays are applied left to right.
func Load(overlays ...Tree) (*Config, error) {
	return New(MergeAll(DefaultTree(), overlays...))
}

// FromSettings converts a settings map, such as the one returned by
// viper.AllSettings, into a Tree.
func FromSettings(settings map[string]interface{}) Tree {
	if settings == nil {
		return Tree{}
	}
	return Tree(settings).Clone()
}
