package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cozy-creator/breed-classifier/internal/utils/pathutil"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "BREED"

type Config struct {
	Environment      string      `mapstructure:"environment"`
	Host             string      `mapstructure:"host"`
	Port             int         `mapstructure:"port"`
	ModelsDir        string      `mapstructure:"models_dir"`
	ArtifactURL      string      `mapstructure:"artifact_url"`
	ArtifactName     string      `mapstructure:"artifact_name"`
	PublicDir        string      `mapstructure:"public_dir"`
	InferenceWorkers int         `mapstructure:"inference_workers"`
	ONNX             *ONNXConfig `mapstructure:"onnx"`
	S3               *S3Config   `mapstructure:"s3"`
}

type ONNXConfig struct {
	SharedLibraryPath string `mapstructure:"shared_library_path"`
	InputName         string `mapstructure:"input_name"`
	OutputName        string `mapstructure:"output_name"`
	ImageSize         int    `mapstructure:"image_size"`
}

// S3Config is only consulted when the artifact url uses the s3:// scheme.
type S3Config struct {
	Region      string `mapstructure:"region_name"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
	EndpointUrl string `mapstructure:"endpoint_url"`
}

var config *Config

// ArtifactPath is the local destination of the model artifact.
func (c *Config) ArtifactPath() string {
	return filepath.Join(c.ModelsDir, c.ArtifactName)
}

func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.ArtifactURL) == "" {
		return ErrArtifactURLNotSet
	}
	if strings.TrimSpace(c.ArtifactName) == "" {
		return ErrArtifactNameNotSet
	}
	if c.Port <= 0 || c.Port > 65535 {
		return ErrInvalidPort
	}
	if c.InferenceWorkers <= 0 {
		return ErrInvalidWorkers
	}
	if c.ONNX == nil || c.ONNX.ImageSize <= 0 {
		return ErrInvalidImageSize
	}

	return nil
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("environment", "dev")
	v.SetDefault("host", DefaultHost)
	v.SetDefault("port", DefaultPort)
	v.SetDefault("models_dir", DefaultModelsDir)
	v.SetDefault("artifact_url", DefaultArtifactURL)
	v.SetDefault("artifact_name", DefaultArtifactName)
	v.SetDefault("public_dir", DefaultPublicDir)
	v.SetDefault("inference_workers", 1)

	v.SetDefault("onnx.shared_library_path", "")
	v.SetDefault("onnx.input_name", DefaultInputName)
	v.SetDefault("onnx.output_name", DefaultOutputName)
	v.SetDefault("onnx.image_size", DefaultImageSize)

	v.SetDefault("s3.region_name", "")
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.endpoint_url", "")
}

// LoadEnvAndConfigFiles reads the optional env and yaml files named by the
// env_file and config_file keys into the global viper instance and stores the
// resulting config for GetConfig.
func LoadEnvAndConfigFiles() error {
	cfg, err := Load(viper.GetViper())
	if err != nil {
		return err
	}

	config = cfg
	return nil
}

func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(
		`-`, `_`,
		`.`, `_`,
	))
	v.AutomaticEnv()

	if envFile := v.GetString("env_file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	if configFile := v.GetString("config_file"); configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if errors.As(err, &viper.ConfigFileNotFoundError{}) || errors.Is(err, os.ErrNotExist) {
				fmt.Println("No config file found. Using default config.")
			} else {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	modelsDir, err := pathutil.ExpandPath(cfg.ModelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand models dir: %w", err)
	}
	cfg.ModelsDir = modelsDir

	publicDir, err := pathutil.ExpandPath(cfg.PublicDir)
	if err != nil {
		return nil, fmt.Errorf("failed to expand public dir: %w", err)
	}
	cfg.PublicDir = publicDir

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func GetConfig() (*Config, error) {
	if config == nil {
		return nil, ErrConfigNotLoaded
	}

	return config, nil
}

func MustGetConfig() *Config {
	if config == nil {
		panic("config not loaded")
	}

	return config
}
