// Package idgen generates short, prefixed, URL-safe ids backed by nanoid.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DocumentPrefix = "doc-"
	UserPrefix     = "usr-"
)

// Alphabet omits look-alike characters (0/o, 1/l/i).
var Alphabet = "23456789abcdefghjkmnpqrstuvwxyz"

var Length = 8

func New(prefix string) (string, error) {
	id, err := nanoid.Generate(Alphabet, Length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return prefix + id, nil
}

func Document() (string, error) { return New(DocumentPrefix) }

func User() (string, error) { return New(UserPrefix) }
