package service

import (
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/careforms/intake/config"
	"github.com/careforms/intake/pkg/form"
	"github.com/careforms/intake/pkg/models"
	"github.com/careforms/intake/pkg/notify"
	"github.com/careforms/intake/pkg/storage"
)

// Service is the patient-intake HTTP backend.
type Service struct {
	cfg       *config.Config
	e         *echo.Echo
	store     storage.Store
	publisher notify.Publisher
}

func NewService(cfg *config.Config) *Service {
	return &Service{
		e:   echo.New(),
		cfg: cfg}
}

func (s *Service) StartService() error {
	//storage init
	var err error
	s.store, err = buildStore(s.cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %v", err)
	}
	log.Printf("storage backend: %s", s.cfg.Storage.Backend)

	//rabbitMQ init (optional)
	if s.cfg.RabbitMQ.Enabled {
		url := fmt.Sprintf("amqp://%s:%s@%s:%d/",
			s.cfg.RabbitMQ.Username, s.cfg.RabbitMQ.Password, s.cfg.RabbitMQ.Host, s.cfg.RabbitMQ.Port)
		s.publisher, err = notify.NewAMQPPublisher(url, s.cfg.RabbitMQ.Queue)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %v", err)
		}
		log.Println("connected to RabbitMQ")
	}

	s.setupRoutes()

	if err := s.e.Start(s.cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %v", err)
	}

	return nil
}

func (s *Service) setupRoutes() {
	s.e.Use(middleware.Logger())
	s.e.Use(middleware.Recover())
	s.e.Use(middleware.CORS())
	s.e.Use(middleware.BodyLimit(s.cfg.Server.BodyLimit))

	s.e.POST("/api/form", s.SubmitForm)
	s.e.GET("/healthz", s.Health)
}

// Echo returns the underlying router, for tests.
func (s *Service) Echo() *echo.Echo {
	return s.e
}

func buildStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "minio":
		return storage.NewMinioStore(
			cfg.Storage.Minio.Endpoint,
			cfg.Storage.Minio.AccessKey,
			cfg.Storage.Minio.SecretKey,
			cfg.Storage.Minio.Bucket,
			cfg.Storage.Minio.Secure)
	default:
		return storage.NewDiskStore(cfg.Storage.UploadDir)
	}
}

// SubmitForm validates a multipart form submission and stores the uploaded
// medical record.
func (s *Service) SubmitForm(c echo.Context) error {
	name := c.FormValue("name")
	age := c.FormValue("age")
	upload, err := extractFileFromRequest(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if name == "" || age == "" || upload == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "All fields are required."})
	}

	if msg := form.ValidateName(name); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if msg := form.ValidateAge(age); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	if upload.Size > form.MaxFileSize {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": form.MsgFileTooLarge})
	}
	if !form.AllowedFileType(upload.MimeType) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": form.MsgFileType})
	}

	key, err := s.store.Save(c.Request().Context(), upload.Name, upload.MimeType, upload.Content)
	if err != nil {
		log.Printf("failed to store upload: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to save the uploaded file."})
	}

	if s.publisher != nil {
		event := models.SubmissionEvent{Name: name, Age: age, ObjectKey: key, FileName: upload.Name}
		if err := s.publisher.SubmissionAccepted(c.Request().Context(), event); err != nil {
			// The submission is already stored; the event is best effort.
			log.Printf("failed to publish submission event: %v", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Form submitted successfully!"})
}

func extractFileFromRequest(c echo.Context) (*models.FileUpload, error) {
	fh, err := c.FormFile("file")
	if err != nil {
		// Missing part or no multipart body at all; both count as "no file"
		// and fall under the all-fields-required check.
		return nil, nil
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded file: %w", err)
	}

	return &models.FileUpload{
		Name:     fh.Filename,
		MimeType: fh.Header.Get("Content-Type"),
		Size:     fh.Size,
		Content:  content,
	}, nil
}

// Health is a liveness probe.
func (s *Service) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
