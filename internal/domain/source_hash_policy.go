package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// SourceHashPolicy computes a stable hash of a post's text so unchanged posts
// can be skipped on re-ingest.
type SourceHashPolicy interface {
	Compute(title, content string) string
}

type sourceHashPolicy struct{}

// NewSourceHashPolicy creates the default SHA-256 policy.
func NewSourceHashPolicy() SourceHashPolicy {
	return &sourceHashPolicy{}
}

// Compute hashes the trimmed title and content. Line endings are normalized
// so a file saved on another OS hashes the same.
func (p *sourceHashPolicy) Compute(title, content string) string {
	normalize := func(s string) string {
		return strings.TrimSpace(strings.ReplaceAll(s, "\r\n", "\n"))
	}
	hash := sha256.Sum256([]byte(normalize(title) + "\x00" + normalize(content)))
	return hex.EncodeToString(hash[:])
}
