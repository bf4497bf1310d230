package main

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/careforms/intake/config"
	"github.com/careforms/intake/pkg/client"
	"github.com/careforms/intake/pkg/form"
	"github.com/careforms/intake/pkg/models"
)

var (
	configPath string
	baseURL    string
	timeout    time.Duration
	name       string
	age        string
	filePath   string
)

func main() {
	root := &cobra.Command{
		Use:   "formclient",
		Short: "Submit a patient intake form",
	}

	submit := &cobra.Command{
		Use:   "submit",
		Short: "Validate and submit name, age and a medical-record file",
		RunE:  runSubmit,
	}
	submit.Flags().StringVar(&configPath, "config", "", "optional config file; flags override it")
	submit.Flags().StringVar(&baseURL, "server", "", "intake service base URL")
	submit.Flags().DurationVar(&timeout, "timeout", 0, "request timeout")
	submit.Flags().StringVar(&name, "name", "", "patient name")
	submit.Flags().StringVar(&age, "age", "", "patient age")
	submit.Flags().StringVar(&filePath, "file", "", "path to the medical-record file")

	root.AddCommand(submit)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSubmit(cmd *cobra.Command, args []string) error {
	if configPath != "" {
		cfg, err := config.InitConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if baseURL == "" {
			baseURL = cfg.Client.BaseURL
		}
		if timeout == 0 {
			timeout = time.Duration(cfg.Client.TimeoutSeconds) * time.Second
		}
	}
	if baseURL == "" {
		baseURL = "http://localhost:5000"
	}

	ctrl := form.NewController(client.New(baseURL, timeout))

	ctrl.UpdateField(form.FieldName, name)
	ctrl.UpdateField(form.FieldAge, age)

	if filePath != "" {
		upload, err := loadFile(filePath)
		if err != nil {
			return err
		}
		ctrl.SelectFile(*upload)
	}

	ctrl.Submit(cmd.Context())

	state := ctrl.State()
	for field, msg := range state.FieldErrors {
		fmt.Fprintf(os.Stderr, "%s: %s\n", field, msg)
	}
	if state.LastResult == nil {
		return fmt.Errorf("no submission result")
	}
	if !state.LastResult.IsSuccess() {
		return fmt.Errorf("%s", state.LastResult.Message)
	}
	fmt.Println(state.LastResult.Message)
	return nil
}

func loadFile(path string) (*models.FileUpload, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	mimeType := mime.TypeByExtension(filepath.Ext(path))
	return &models.FileUpload{
		Name:     filepath.Base(path),
		MimeType: mimeType,
		Size:     int64(len(content)),
		Content:  content,
	}, nil
}
