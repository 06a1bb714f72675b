package shared

import (
	"log/slog"
	"net/http"
)

type committingWriter struct {
	http.ResponseWriter
	sess      *Session
	manager   *SessionManager
	req       *http.Request
	logger    *slog.Logger
	committed bool
}

func (w *committingWriter) commit() {
	if w.committed {
		return
	}
	w.committed = true
	if err := w.manager.Commit(w.req.Context(), w.ResponseWriter, w.sess); err != nil && w.logger != nil {
		w.logger.Error("commit session", slog.Any("error", err))
	}
}

func (w *committingWriter) WriteHeader(statusCode int) {
	w.commit()
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *committingWriter) Write(data []byte) (int, error) {
	w.commit()
	return w.ResponseWriter.Write(data)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *committingWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Middleware loads the session into the request context and persists it right
// before the first byte of the response is written.
func (sm *SessionManager) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := sm.Load(r.Context(), r)
			if err != nil {
				if logger != nil {
					logger.Error("failed to load session", slog.Any("error", err))
				}
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			r = r.WithContext(ContextWithSession(r.Context(), sess))
			wrapped := &committingWriter{ResponseWriter: w, sess: sess, manager: sm, req: r, logger: logger}
			next.ServeHTTP(wrapped, r)
			wrapped.commit()
		})
	}
}
