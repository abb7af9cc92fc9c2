package reconcile

import (
	"fmt"
	"strings"
)

const (
	meshArtifactName    = "mesh.glb"
	previewArtifactName = "processed_image.png"
)

// URLNormalizer derives canonical, non-expiring storage URLs for job
// artifacts. The mesh API may hand back short-lived signed URLs; persisting
// those would leave links that later 404, so anything outside the canonical
// storage location is replaced by a URL derived from the job id alone.
type URLNormalizer struct {
	base string
}

// NewURLNormalizer builds a normalizer rooted at the storage base URL.
func NewURLNormalizer(storageBaseURL string) *URLNormalizer {
	return &URLNormalizer{base: strings.TrimRight(storageBaseURL, "/")}
}

// MeshURL normalizes a candidate mesh artifact URL for the job. An empty
// candidate yields an empty result; an already-canonical candidate is
// returned unchanged.
func (n *URLNormalizer) MeshURL(jobID, candidate string) string {
	return n.normalize(jobID, candidate, meshArtifactName)
}

// PreviewURL normalizes a candidate preview image URL for the job.
func (n *URLNormalizer) PreviewURL(jobID, candidate string) string {
	return n.normalize(jobID, candidate, previewArtifactName)
}

func (n *URLNormalizer) normalize(jobID, candidate, artifact string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return ""
	}
	if n.isCanonical(jobID, candidate) {
		return candidate
	}
	return fmt.Sprintf("%s/image/%s/%s", n.base, jobID, artifact)
}

func (n *URLNormalizer) isCanonical(jobID, candidate string) bool {
	return strings.HasPrefix(candidate, n.base+"/") &&
		strings.Contains(candidate, "/image/"+jobID+"/")
}
