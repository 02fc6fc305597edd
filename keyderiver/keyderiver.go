// Package keyderiver derives stable cache fingerprints from stage inputs.
// Every function is pure: the same inputs always
// produce the same key, and different inputs produce a different key with
// overwhelming probability.
package keyderiver

import (
	"crypto/md5"
	"fmt"
	"io"
	"sort"
	"strings"
)

// Download derives the fingerprint for a DOWNLOAD stage input.
func Download(url string) string {
	return hash("download", url)
}

// Extract derives the fingerprint for an EXTRACT stage input.
func Extract(videoPath string) string {
	return hash("extract", videoPath)
}

// Transcript derives the fingerprint for a TRANSCRIBE stage input.
func Transcript(audioPath string) string {
	return hash("transcript", audioPath)
}

// Summary derives the fingerprint for a SUMMARIZE stage input.
func Summary(transcript, model string) string {
	return hash("summary", transcript, model)
}

// Generic derives a fingerprint for arbitrary positional and named
// arguments, named args sorted by name so callers that build the map in
// different orders still converge on the same key.
func Generic(prefix string, args []string, namedArgs map[string]string) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(':')
	for _, a := range args {
		b.WriteString(a)
		b.WriteByte(',')
	}
	names := make([]string, 0, len(namedArgs))
	for k := range namedArgs {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(namedArgs[k])
		b.WriteByte(',')
	}
	return hashString(b.String())
}

// hash builds the canonical "<domain>:<joined inputs>" form and returns the
// prefixed, MD5-hex-encoded fingerprint.
func hash(domain string, parts ...string) string {
	canonical := domain + ":" + strings.Join(parts, ":")
	return domain + ":" + hashString(canonical)
}

func hashString(s string) string {
	hasher := md5.New()
	_, _ = io.WriteString(hasher, s)
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// URLDigest returns the bare MD5 hex digest of url, used by the download
// stage to name files on disk so that IsCached can recognize a previously
// downloaded file by its stem.
func URLDigest(url string) string {
	return hashString(url)
}
