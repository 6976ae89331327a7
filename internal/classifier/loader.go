package classifier

import (
	"net/http"
	"sync"
)

// Opener builds a ready Classifier.
type Opener func() (*Classifier, error)

// Loader opens the model on first use and caches the outcome, error
// included, for the lifetime of the process.
type Loader struct {
	once   sync.Once
	open   Opener
	result *Classifier
	err    error
}

// NewLoader returns a Loader that will call open at most once.
func NewLoader(open Opener) *Loader {
	return &Loader{open: open}
}

// Classifier returns the cached classifier, opening it on the first call.
func (l *Loader) Classifier() (*Classifier, error) {
	l.once.Do(func() {
		l.result, l.err = l.open()
	})
	return l.result, l.err
}

// RemoteOpener opens a RemoteModel from a manifest file, an endpoint, or
// both. The endpoint overrides the manifest's. With neither, the opener
// fails with ErrNoModel.
func RemoteOpener(manifestPath, endpoint string, policy FilterPolicy, client *http.Client) Opener {
	return func() (*Classifier, error) {
		if manifestPath == "" && endpoint == "" {
			return nil, ErrNoModel
		}

		m := DefaultManifest()
		if manifestPath != "" {
			loaded, err := LoadManifest(manifestPath)
			if err != nil {
				return nil, err
			}
			m = loaded
		}
		if endpoint != "" {
			m.Endpoint = endpoint
		}
		if m.Endpoint == "" {
			return nil, ErrNoModel
		}

		return New(NewRemoteModel(m, client), m, policy), nil
	}
}
