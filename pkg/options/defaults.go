package options

const (
	// DefaultMaxDataFileSize is the rotation threshold used when no
	// explicit size is configured.
	DefaultMaxDataFileSize uint64 = 2 * 1024 * 1024 * 1024

	// MinDataFileSize is the smallest rotation threshold WithMaxDataFileSize
	// will accept. A threshold of exactly 1 byte is explicitly supported
	// (it forces rotation on every write, a documented boundary behavior),
	// so the floor sits at 1, not some larger "sane minimum".
	MinDataFileSize uint64 = 1

	// MaxAllowedDataFileSize caps how large a single data file generation
	// may grow.
	MaxAllowedDataFileSize uint64 = 4 * 1024 * 1024 * 1024
)

// defaultOptions holds the configuration used when Open is called with no
// options at all.
var defaultOptions = Options{
	MaxDataFileSize: DefaultMaxDataFileSize,
	SyncMode:        false,
	CompactInterval: 0,
}

// NewDefaultOptions returns a copy of the engine's default configuration.
func NewDefaultOptions() Options {
	return defaultOptions
}
