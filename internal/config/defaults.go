package config

import "errors"

const (
	DefaultArtifactURL  = "https://drive.google.com/uc?export=download&id=1E-klKePmFri4sapmMwM36WhxLgUXf6dN"
	DefaultArtifactName = "dogclassifier.onnx"

	DefaultHost      = "0.0.0.0"
	DefaultPort      = 5000
	DefaultModelsDir = "./models"
	DefaultPublicDir = "./web/static"

	DefaultImageSize  = 224
	DefaultInputName  = "input"
	DefaultOutputName = "output"
)

var (
	ErrArtifactURLNotSet  = errors.New("artifact url is not set")
	ErrArtifactNameNotSet = errors.New("artifact name is not set")
	ErrInvalidPort        = errors.New("port must be between 1 and 65535")
	ErrInvalidWorkers     = errors.New("inference workers must be positive")
	ErrInvalidImageSize   = errors.New("image size must be positive")
	ErrConfigNotLoaded    = errors.New("config not loaded")
)
