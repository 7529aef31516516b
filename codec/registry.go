package codec

import "sync"

// Registry is a concurrency-safe lookup table of codecs, keyed by both
// name and UID so a caller can dispatch on whichever identifier its
// container format carries (DICOM's transfer-syntax UID, or GPR/VC-5's
// compression-scheme name).
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Codec // key can be either name or UID
}

var defaultRegistry = &Registry{
	codecs: make(map[string]Codec),
}

// Register adds codec to the package-level default registry under both its
// name and UID. Codecs normally call this from an init() function so that
// importing the codec package for side effects is enough to make it
// dispatchable (see vc5reg).
func Register(codec Codec) {
	defaultRegistry.Register(codec)
}

// Get retrieves a codec from the default registry by name or UID.
func Get(nameOrUID string) (Codec, error) {
	return defaultRegistry.Get(nameOrUID)
}

// List returns every codec registered in the default registry.
func List() []Codec {
	return defaultRegistry.List()
}

// Register registers a codec using both its name and UID
func (r *Registry) Register(codec Codec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.codecs == nil {
		r.codecs = make(map[string]Codec)
	}

	// Register by both name and UID
	r.codecs[codec.Name()] = codec
	r.codecs[codec.UID()] = codec
}

// Get retrieves a codec by name or UID
func (r *Registry) Get(nameOrUID string) (Codec, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codec, ok := r.codecs[nameOrUID]
	if !ok {
		return nil, ErrCodecNotFound
	}
	return codec, nil
}

// List returns all registered codecs (deduplicated)
func (r *Registry) List() []Codec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[Codec]bool)
	codecs := make([]Codec, 0)

	for _, codec := range r.codecs {
		if !seen[codec] {
			seen[codec] = true
			codecs = append(codecs, codec)
		}
	}

	return codecs
}
