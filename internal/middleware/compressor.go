package middleware

import (
	"context"
	"net/http"

	"github.com/drstein77/cartfolio/internal/compress"
)

type archiveKey struct{}

// ArchiveTypeMiddleware resolves the archiveType query parameter (zip by
// default) and stores it on the request context.
func ArchiveTypeMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		archiveType := r.URL.Query().Get("archiveType")
		if archiveType != compress.Tar && archiveType != compress.Zip {
			archiveType = compress.Zip // Default value
		}

		ctx := context.WithValue(r.Context(), archiveKey{}, archiveType)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ArchiveType returns the archive kind chosen by ArchiveTypeMiddleware.
func ArchiveType(ctx context.Context) string {
	if kind, ok := ctx.Value(archiveKey{}).(string); ok {
		return kind
	}
	return compress.Zip
}
