package config

// Upload caps are per attachment kind; the size check only applies
// after the content type has resolved to a kind.
const (
	MaxImageUploadSize = 10 << 20 // 10 MiB
	MaxVideoUploadSize = 50 << 20 // 50 MiB
)

// ImageContentTypes is the allow-list for image attachments.
var ImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// VideoContentTypes is the allow-list for video attachments.
var VideoContentTypes = map[string]bool{
	"video/mp4":       true,
	"video/webm":      true,
	"video/quicktime": true,
}
