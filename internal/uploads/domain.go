// Package uploads stores files sent by dashboard users in the blob store.
package uploads

import (
	"io"
	"time"
)

// DefaultCategory namespaces uploads sent without a category.
const DefaultCategory = "imoveis"

// User-facing validation messages.
const (
	MsgFilenameMissing = "Nome do arquivo não informado"
	MsgFilenameInvalid = "Nome do arquivo inválido"
	MsgCategoryInvalid = "Categoria inválida"
	MsgFileMissing     = "Arquivo não encontrado"
	MsgFileTooLarge    = "Arquivo excede o tamanho máximo permitido"
	MsgMultipart       = "Requisição multipart inválida"
)

// Input is a single file to store.
type Input struct {
	Filename string
	Category string
	File     io.Reader
}

// Artifact describes a stored upload. It is immutable once created.
type Artifact struct {
	Key         string    `json:"key"`
	URL         string    `json:"url"`
	Pathname    string    `json:"pathname"`
	Filename    string    `json:"filename"`
	Category    string    `json:"category"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	Public      bool      `json:"public"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// Record is the persisted metadata of an artifact.
type Record struct {
	Artifact
	UploadedBy int64 `json:"uploadedBy"`
}
