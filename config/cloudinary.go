package config

import "os"

// CloudinaryConfig carries the image-host credentials. It is read once at
// startup and handed to the image store; no other code touches these vars.
type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

func GetCloudinaryConfig() CloudinaryConfig {
	folder := os.Getenv("CLOUDINARY_FOLDER")
	if folder == "" {
		folder = "schoolImages"
	}

	return CloudinaryConfig{
		CloudName: os.Getenv("CLOUDINARY_CLOUD_NAME"),
		APIKey:    os.Getenv("CLOUDINARY_API_KEY"),
		APISecret: os.Getenv("CLOUDINARY_API_SECRET"),
		Folder:    folder,
	}
}

// Configured reports whether the external image host can be used. When it
// cannot, submissions store the inline image representation instead.
func (c CloudinaryConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}
