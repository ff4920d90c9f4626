package filestore

import "fmt"

// Kind classifies upload failures.
type Kind string

const (
	KindCredentials Kind = "credentials"
	KindBucket      Kind = "bucket"
	KindTooLarge    Kind = "too_large"
	KindEmpty       Kind = "empty"
	KindTransport   Kind = "transport"
)

// Error is returned by Client for every failed upload. Message is safe to
// show to end users; Err carries the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("filestore %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("filestore %s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error) *Error {
	return &Error{Kind: kind, Message: messages[kind], Err: err}
}

var messages = map[Kind]string{
	KindCredentials: "Le service de stockage des fichiers est mal configuré",
	KindBucket:      "Le service de stockage des fichiers est indisponible",
	KindEmpty:       "Le fichier est vide",
	KindTransport:   "Le téléversement du fichier a échoué",
}
