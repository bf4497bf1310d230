package config

import "github.com/spf13/viper"

type Config struct {
	Server   Server   `yaml:"server" mapstructure:"server"`
	Client   Client   `yaml:"client" mapstructure:"client"`
	Storage  Storage  `yaml:"storage" mapstructure:"storage"`
	RabbitMQ RabbitMQ `yaml:"rabbitmq" mapstructure:"rabbitmq"`
}

type Server struct {
	Port string `yaml:"port" mapstructure:"port"`
	// BodyLimit caps the whole multipart request, e.g. "6M"; requests
	// over it get a 413. Slightly above the 5MB file limit so the form
	// fields and part headers fit.
	BodyLimit string `yaml:"body_limit" mapstructure:"body_limit"`
}

type Client struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// TimeoutSeconds bounds one submission request; 0 means the default 15s.
	TimeoutSeconds int `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
}

type Storage struct {
	// Backend selects "disk" or "minio".
	Backend   string `yaml:"backend" mapstructure:"backend"`
	UploadDir string `yaml:"upload_dir" mapstructure:"upload_dir"`
	Minio     Minio  `yaml:"minio" mapstructure:"minio"`
}

type Minio struct {
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	Secure    bool   `yaml:"secure" mapstructure:"secure"`
}

type RabbitMQ struct {
	// Enabled turns on submission-event publishing; the service runs
	// without a broker when false.
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
	Queue    string `yaml:"queue" mapstructure:"queue"`
}

func InitConfig(filename string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == "" {
		cfg.Server.Port = ":5000"
	}
	if cfg.Server.BodyLimit == "" {
		cfg.Server.BodyLimit = "6M"
	}
	if cfg.Client.BaseURL == "" {
		cfg.Client.BaseURL = "http://localhost:5000"
	}
	if cfg.Storage.Backend == "" {
		cfg.Storage.Backend = "disk"
	}
	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = "./uploads"
	}
	if cfg.RabbitMQ.Queue == "" {
		cfg.RabbitMQ.Queue = "form_submissions"
	}
}
