package services

import (
	"strings"

	"slam-scoring-system/models"

	"golang.org/x/text/unicode/norm"
)

// normalizeName trims surrounding space and composes the string to NFC so
// visually identical names compare equal.
func normalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func requireName(entity, name string) (string, error) {
	n := normalizeName(name)
	if n == "" {
		return "", invalid("%s name is required", entity)
	}
	return n, nil
}

func requireID(entity, id string) error {
	if strings.TrimSpace(id) == "" {
		return invalid("%s id is required", entity)
	}
	return nil
}

func publish(p Publisher, evt models.LiveEvent) {
	if p != nil {
		p.PublishEvent(evt)
	}
}
