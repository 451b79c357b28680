package repository

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"schoolhub/config"
	"schoolhub/domain"
)

type cloudinaryImageStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryImageStore(cfg config.CloudinaryConfig) (domain.ImageStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("could not init cloudinary client: %w", err)
	}

	return &cloudinaryImageStore{
		cld: cld,
	}, nil
}

func (cs *cloudinaryImageStore) UploadImage(ctx context.Context, img *domain.ImageFile, folder, publicID string) (string, error) {
	resp, err := cs.cld.Upload.Upload(ctx, bytes.NewReader(img.Data), uploader.UploadParams{
		Folder:       folder,
		PublicID:     publicID,
		ResourceType: "image",
	})
	if err != nil {
		return "", fmt.Errorf("could not upload image: %w", err)
	}

	// The SDK reports API-level rejections on the result, not as err.
	if resp.Error.Message != "" {
		return "", fmt.Errorf("upload rejected: %s", resp.Error.Message)
	}

	if resp.SecureURL == "" {
		return "", fmt.Errorf("upload returned no result")
	}

	return resp.SecureURL, nil
}
