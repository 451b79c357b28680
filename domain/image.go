package domain

// ImageKind tags which of the two image representations a record carries.
// Consumers branch on the tag, never on the string value itself.
type ImageKind string

const (
	// ImageHosted means Image is a URL on the external image host.
	ImageHosted ImageKind = "hosted"
	// ImageInline means Image is a self-contained data URL.
	ImageInline ImageKind = "inline"
)
