package app

import (
	"log"
	"mime"
)

// Served blobs take their Content-Type from the extension; some image
// formats are missing from minimal system mime tables.
func init() {
	ensureMimeType(".webp", "image/webp")
	ensureMimeType(".heic", "image/heic")
	ensureMimeType(".avif", "image/avif")
	ensureMimeType(".svg", "image/svg+xml")
}

func ensureMimeType(ext, typ string) {
	if mime.TypeByExtension(ext) != "" {
		return
	}
	if err := mime.AddExtensionType(ext, typ); err != nil {
		log.Printf("app: failed to register MIME type for %s: %v", ext, err)
	}
}
