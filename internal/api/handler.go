package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/cozy-creator/breed-classifier/internal/classifier"
	"github.com/cozy-creator/breed-classifier/internal/utils/imageutil"
	"github.com/cozy-creator/breed-classifier/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AnalyzeResponse struct {
	Result string `json:"result"`
}

// queueReporter is implemented by predictors that queue work, such as the
// inference worker.
type queueReporter interface {
	WaitingQueueSize() int
}

type Handler struct {
	predictor classifier.Predictor
	logger    *zap.Logger
}

func NewHandler(predictor classifier.Predictor, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		predictor: predictor,
		logger:    logger.Named("api"),
	}
}

func (h *Handler) Homepage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
}

func (h *Handler) Health(c *gin.Context) {
	resp := gin.H{"status": "ok"}
	if q, ok := h.predictor.(queueReporter); ok {
		resp["queued"] = q.WaitingQueueSize()
	}

	c.JSON(http.StatusOK, resp)
}

// Analyze classifies the image in the "file" form field. Uploads are not
// validated; anything that cannot be decoded or predicted is a bare 500.
func (h *Handler) Analyze(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		fail(c, fmt.Errorf("failed to get file: %w", err))
		return
	}

	data, err := readFileContent(file)
	if err != nil {
		fail(c, fmt.Errorf("failed to read file: %w", err))
		return
	}

	img, mtype, err := imageutil.Decode(data)
	h.logger.Debug("Received upload",
		zap.String("filename", file.Filename),
		zap.Int("bytes", len(data)),
		zap.String("mime", mtype),
	)
	if err != nil {
		fail(c, err)
		return
	}

	prediction, err := h.predictor.Predict(c.Request.Context(), img)
	if err != nil {
		fail(c, fmt.Errorf("prediction failed: %w", err))
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{Result: prediction.Label})
}

func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatus(http.StatusInternalServerError)
}

func readFileContent(file *multipart.FileHeader) ([]byte, error) {
	content, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer content.Close()

	return io.ReadAll(content)
}
