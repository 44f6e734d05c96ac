// Package transform decides whether an inbound webhook payload is
// alert-worthy. Each source type maps to one Transform implementation; all
// implementations are pure functions over the decoded payload.
package transform

import (
	"github.com/KarthicSuRa/mcm-alerts/internal/db"
)

// Draft is a candidate notification produced from a payload. A nil Draft with
// a nil error means the event was received and logged but warrants no alert.
type Draft struct {
	Type     string
	Title    string
	Message  string
	Severity db.Severity
	Metadata map[string]interface{}
}

type Transform interface {
	Apply(payload map[string]interface{}) (*Draft, error)
}

type Registry struct {
	transforms map[db.SourceType]Transform
}

func NewRegistry() *Registry {
	return &Registry{
		transforms: map[db.SourceType]Transform{
			db.SourceTypeGeneric: GenericTransform{},
			db.SourceTypePayment: PaymentTransform{},
		},
	}
}

// Get resolves the transform for a source type. Unrecognized types fall back
// to the generic transform so a misconfigured source still gets its failure
// payloads surfaced.
func (r *Registry) Get(sourceType db.SourceType) Transform {
	if t, ok := r.transforms[sourceType]; ok {
		return t
	}
	return r.transforms[db.SourceTypeGeneric]
}
