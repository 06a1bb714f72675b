package uploads

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/imobix/imobix/internal/platform/httpx"
	"github.com/imobix/imobix/internal/resource"
)

// DefaultMaxBytes bounds the request body when no limit is configured.
const DefaultMaxBytes int64 = 10 << 20

// Handler exposes the upload resource.
type Handler struct {
	maxBytes int64
	upload   http.HandlerFunc
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, maxBytes int64) *Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &Handler{
		maxBytes: maxBytes,
		upload: resource.Endpoint[Input, Artifact](logger, decodeInput(maxBytes),
			resource.Func[Input, Artifact](service.Handle), http.StatusOK),
	}
}

// MountRoutes registers POST /.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleUpload)
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	// multipart parsing reads at most maxBytes plus the form overhead.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+(1<<20))
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()
	h.upload(w, r)
}

func decodeInput(maxBytes int64) resource.Decoder[Input] {
	return func(r *http.Request) (Input, error) {
		q := r.URL.Query()
		in := Input{Filename: q.Get("filename"), Category: q.Get("category")}
		if err := ValidateFilename(in.Filename); err != nil {
			return in, err
		}
		category, err := NormalizeCategory(in.Category)
		if err != nil {
			return in, err
		}
		in.Category = category

		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			switch {
			case errors.As(err, &tooLarge):
				return in, httpx.Validation(MsgFileTooLarge)
			case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
				return in, httpx.Validation(MsgFileMissing)
			default:
				return in, httpx.Validation(MsgMultipart)
			}
		}
		if header.Size > maxBytes {
			_ = file.Close()
			return in, httpx.Validation(MsgFileTooLarge)
		}
		in.File = file
		return in, nil
	}
}
