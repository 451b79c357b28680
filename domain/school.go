package domain

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
)

var contactPattern = regexp.MustCompile(`^[+]?[0-9\s\-()]{10,15}$`)

func init() {
	// govalidator's tag grammar cannot carry the {10,15} quantifier through
	// matches(), so the phone rule is registered as its own tag.
	govalidator.TagMap["contact"] = govalidator.Validator(func(str string) bool {
		return contactPattern.MatchString(str)
	})
}

type School struct {
	SchoolID  int       `gorm:"column:id;primaryKey;autoIncrement" json:"id" valid:"-"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name" valid:"required~School name is required,stringlength(2|100)~School name must be between 2 and 100 characters"`
	Address   string    `gorm:"type:varchar(500);not null" json:"address" valid:"required~Address is required,stringlength(10|500)~Address must be between 10 and 500 characters"`
	City      string    `gorm:"type:varchar(50);not null" json:"city" valid:"required~City is required,stringlength(2|50)~City must be between 2 and 50 characters"`
	State     string    `gorm:"type:varchar(50);not null" json:"state" valid:"required~State is required,stringlength(2|50)~State must be between 2 and 50 characters"`
	Contact   string    `gorm:"type:varchar(15);not null" json:"contact" valid:"required~Contact is required,contact~Please enter a valid phone number"`
	EmailID   string    `gorm:"type:varchar(255);not null" json:"email_id" valid:"required~Email is required,email~Please enter a valid email address,maxstringlength(255)~Email must be less than 255 characters"`
	ImageKind ImageKind `gorm:"type:varchar(10);not null" json:"image_kind" valid:"-"`
	Image     string    `gorm:"type:text;not null" json:"image" valid:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at" valid:"-"`
}

// ImageFile is a raw uploaded image before ingestion.
type ImageFile struct {
	Filename string
	Data     []byte
}

// SchoolSubmission is the untyped request payload for creating a school.
type SchoolSubmission struct {
	Name    string     `json:"name"`
	Address string     `json:"address"`
	City    string     `json:"city"`
	State   string     `json:"state"`
	Contact string     `json:"contact"`
	EmailID string     `json:"email_id"`
	Image   *ImageFile `json:"-"`
}

// Normalize trims every text field and lowercases the email.
func (s *School) Normalize() {
	s.Name = strings.TrimSpace(s.Name)
	s.Address = strings.TrimSpace(s.Address)
	s.City = strings.TrimSpace(s.City)
	s.State = strings.TrimSpace(s.State)
	s.Contact = strings.TrimSpace(s.Contact)
	s.EmailID = strings.ToLower(strings.TrimSpace(s.EmailID))
}

// ValidateSchool normalizes the candidate in place and checks every field
// rule independently. It touches nothing outside the struct.
func ValidateSchool(s *School) *ValidationError {
	s.Normalize()
	if _, err := govalidator.ValidateStruct(s); err != nil {
		return &ValidationError{
			Message: "Invalid school data",
			Fields:  govalidator.ErrorsByField(err),
		}
	}
	return nil
}

type SchoolRepo interface {
	CreateSchool(ctx context.Context, school *School) error
	GetAllSchool(ctx context.Context) (*[]School, error)
}

type SchoolUseCase interface {
	CreateSchoolUC(ctx context.Context, req *SchoolSubmission) (*School, error)
	GetAllSchoolUC(ctx context.Context) (*[]School, error)
}

// ImageStore forwards image bytes to an external host and returns a durable URL.
type ImageStore interface {
	UploadImage(ctx context.Context, img *ImageFile, folder, publicID string) (string, error)
}
