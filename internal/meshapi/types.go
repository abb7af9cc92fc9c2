package meshapi

import "strings"

// StatusResponse is the upstream view of one job. Unknown fields are ignored
// and missing fields decode to zero values; callers must not assume any field
// is populated.
type StatusResponse struct {
	Status string  `json:"status"`
	Result *Result `json:"result,omitempty"`
	Error  string  `json:"error,omitempty"`
}

// Result carries output artifact locations. The API's response shape has
// varied across versions, so every historical field name is declared and
// resolved through a fixed precedence order.
type Result struct {
	MeshURL string `json:"mesh_url,omitempty"`
	Output  string `json:"output,omitempty"`

	ProcessedImageURL string `json:"processed_image_url,omitempty"`
	GeneratedImageURL string `json:"generated_image_url,omitempty"`
	ProcessedImage    string `json:"processed_image,omitempty"`
	GeneratedImage    string `json:"generated_image,omitempty"`

	Prompt string `json:"prompt,omitempty"`
}

// MeshCandidate returns the first non-empty mesh artifact URL in precedence
// order.
func (r *Result) MeshCandidate() string {
	if r == nil {
		return ""
	}
	return firstNonEmpty(r.MeshURL, r.Output)
}

// PreviewCandidate returns the first non-empty preview image URL in
// precedence order.
func (r *Result) PreviewCandidate() string {
	if r == nil {
		return ""
	}
	return firstNonEmpty(r.ProcessedImageURL, r.GeneratedImageURL, r.ProcessedImage, r.GeneratedImage)
}

func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if v := strings.TrimSpace(c); v != "" {
			return v
		}
	}
	return ""
}
