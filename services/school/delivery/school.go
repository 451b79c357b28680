package delivery

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"schoolhub/config"
	"schoolhub/domain"
)

type schoolHandler struct {
	suc domain.SchoolUseCase
}

func NewSchoolDelivery(app *fiber.App, uc domain.SchoolUseCase) {
	handler := &schoolHandler{
		suc: uc,
	}

	route := app.Group("/school")

	route.Post("/insert", handler.deliveryInsertSchool)
	route.Get("/get_all", handler.deliveryGetAllSchool)
}

func (sh *schoolHandler) deliveryInsertSchool(c *fiber.Ctx) error {
	req, err := parseSubmission(c)
	if err != nil {
		config.PrintLogInfo(fiber.StatusBadRequest, "InsertSchool")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Invalid request body",
		})
	}

	created, err := sh.suc.CreateSchoolUC(c.Context(), req)
	if err != nil {
		return sh.rejectInsert(c, err)
	}

	config.PrintLogInfo(fiber.StatusCreated, "InsertSchool")
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "School created successfully",
		"data":    created,
	})
}

func (sh *schoolHandler) rejectInsert(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		details := fiber.Map{}
		if len(verr.Missing) > 0 {
			details["missing"] = verr.Missing
		}
		if len(verr.Fields) > 0 {
			details["fields"] = verr.Fields
		}

		config.PrintLogInfo(fiber.StatusBadRequest, "InsertSchool")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success": false,
			"error":   verr.Message,
			"details": details,
			"message": verr.Message,
		})
	}

	var ierr *domain.ImageIngestionError
	if errors.As(err, &ierr) {
		config.PrintLogInfo(fiber.StatusInternalServerError, "InsertSchool")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   ierr.Reason,
			"message": "Failed to add school",
		})
	}

	config.PrintLogInfo(fiber.StatusInternalServerError, "InsertSchool")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   err.Error(),
		"message": "Failed to add school",
	})
}

func (sh *schoolHandler) deliveryGetAllSchool(c *fiber.Ctx) error {
	v, err := sh.suc.GetAllSchoolUC(c.Context())
	if err != nil {
		config.PrintLogInfo(fiber.StatusInternalServerError, "GetAllSchool")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   err.Error(),
			"message": "Failed to fetch schools",
		})
	}

	schools := *v
	if schools == nil {
		schools = []domain.School{}
	}

	search, city, state := c.Query("search"), c.Query("city"), c.Query("state")
	if search != "" || city != "" || state != "" {
		schools = domain.FilterSchools(schools, search, city, state)
	}

	config.PrintLogInfo(fiber.StatusOK, "GetAllSchool")
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Schools retrieved successfully",
		"data":    schools,
	})
}

// parseSubmission accepts either a multipart form with an image file part or
// a JSON body carrying the image as base64.
func parseSubmission(c *fiber.Ctx) (*domain.SchoolSubmission, error) {
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return parseMultipart(c)
	}
	return parseJSON(c)
}

func parseMultipart(c *fiber.Ctx) (*domain.SchoolSubmission, error) {
	req := &domain.SchoolSubmission{
		Name:    c.FormValue("name"),
		Address: c.FormValue("address"),
		City:    c.FormValue("city"),
		State:   c.FormValue("state"),
		Contact: c.FormValue("contact"),
		EmailID: c.FormValue("email_id"),
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		// Absence is reported by the usecase presence check.
		return req, nil
	}

	f, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("could not open uploaded image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("could not read uploaded image: %w", err)
	}

	req.Image = &domain.ImageFile{
		Filename: fileHeader.Filename,
		Data:     data,
	}
	return req, nil
}

func parseJSON(c *fiber.Ctx) (*domain.SchoolSubmission, error) {
	var payload struct {
		Name        string `json:"name"`
		Address     string `json:"address"`
		City        string `json:"city"`
		State       string `json:"state"`
		Contact     string `json:"contact"`
		EmailID     string `json:"email_id"`
		ImageBase64 string `json:"image_base64"`
		ImageName   string `json:"image_name"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return nil, err
	}

	req := &domain.SchoolSubmission{
		Name:    payload.Name,
		Address: payload.Address,
		City:    payload.City,
		State:   payload.State,
		Contact: payload.Contact,
		EmailID: payload.EmailID,
	}

	if payload.ImageBase64 != "" {
		data, err := decodeImagePayload(payload.ImageBase64)
		if err != nil {
			return nil, err
		}

		name := payload.ImageName
		if name == "" {
			name = "upload"
		}
		req.Image = &domain.ImageFile{
			Filename: name,
			Data:     data,
		}
	}

	return req, nil
}

// decodeImagePayload accepts plain base64 or a full data URL.
func decodeImagePayload(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		s = s[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("could not decode image payload: %w", err)
	}
	return data, nil
}
