package usecase

import (
	"context"
	"encoding/base64"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/sirupsen/logrus"

	"schoolhub/domain"
)

const maxImageBytes = 5 * 1024 * 1024 // 5MB

var acceptedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var publicIDJunk = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

type schoolUseCase struct {
	repo    domain.SchoolRepo
	images  domain.ImageStore // nil when no image host is configured
	folder  string
	TimeOut time.Duration
	log     *logrus.Logger
}

func NewSchoolUseCase(repo domain.SchoolRepo, images domain.ImageStore, folder string, to time.Duration, log *logrus.Logger) domain.SchoolUseCase {
	return &schoolUseCase{
		repo:    repo,
		images:  images,
		folder:  folder,
		TimeOut: to,
		log:     log,
	}
}

// CreateSchoolUC runs one submission end to end: presence check, field
// validation, image ingestion, persistence. Each stage rejects terminally;
// a failed submission leaves no record behind.
func (su *schoolUseCase) CreateSchoolUC(ctx context.Context, req *domain.SchoolSubmission) (*domain.School, error) {
	ctx, cancel := context.WithTimeout(ctx, su.TimeOut)
	defer cancel()

	if missing := missingFields(req); len(missing) > 0 {
		return nil, &domain.ValidationError{
			Message: "All fields are required",
			Missing: missing,
		}
	}

	school := &domain.School{
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Contact: req.Contact,
		EmailID: req.EmailID,
	}
	if verr := domain.ValidateSchool(school); verr != nil {
		return nil, verr
	}

	kind, ref, publicID, err := su.ingestImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}
	school.ImageKind = kind
	school.Image = ref

	if err := su.repo.CreateSchool(ctx, school); err != nil {
		if kind == domain.ImageHosted {
			// There is no compensating delete on the image host; leave a
			// trail so the asset can be swept by hand.
			su.log.WithField("public_id", publicID).Warn("school insert failed after image upload, hosted asset orphaned")
		}
		return nil, err
	}

	return school, nil
}

func (su *schoolUseCase) GetAllSchoolUC(ctx context.Context) (*[]domain.School, error) {
	ctx, cancel := context.WithTimeout(ctx, su.TimeOut)
	defer cancel()

	v, err := su.repo.GetAllSchool(ctx)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func missingFields(req *domain.SchoolSubmission) []string {
	var missing []string

	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", req.Name},
		{"address", req.Address},
		{"city", req.City},
		{"state", req.State},
		{"contact", req.Contact},
		{"email_id", req.EmailID},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}

	if req.Image == nil || len(req.Image.Data) == 0 {
		missing = append(missing, "image")
	}

	return missing
}

// ingestImage gates the upload (size, content type) and forwards it to the
// image host. Without a configured host it falls back to the inline
// representation, tagged so consumers never have to guess.
func (su *schoolUseCase) ingestImage(ctx context.Context, img *domain.ImageFile) (domain.ImageKind, string, string, error) {
	if len(img.Data) > maxImageBytes {
		return "", "", "", &domain.ImageIngestionError{Reason: "Image size must be less than 5MB"}
	}

	mime := mimetype.Detect(img.Data).String()
	if !acceptedImageTypes[mime] {
		return "", "", "", &domain.ImageIngestionError{Reason: "Only .jpg, .jpeg, .png and .webp formats are supported"}
	}

	if su.images == nil {
		encoded := base64.StdEncoding.EncodeToString(img.Data)
		return domain.ImageInline, fmt.Sprintf("data:%s;base64,%s", mime, encoded), "", nil
	}

	publicID := buildPublicID(img.Filename)
	url, err := su.images.UploadImage(ctx, img, su.folder, publicID)
	if err != nil {
		return "", "", "", &domain.ImageIngestionError{Reason: fmt.Sprintf("Image upload failed: %v", err)}
	}

	return domain.ImageHosted, url, publicID, nil
}

// buildPublicID derives a collision-resistant identifier from the current
// time and a sanitized form of the original filename, extension stripped.
func buildPublicID(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	base = publicIDJunk.ReplaceAllString(base, "_")
	base = strings.Trim(base, "_")
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("school_%d_%s", time.Now().UnixMilli(), base)
}
