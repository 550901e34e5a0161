// Package storage provides core.FileStorage backends for the memory
// manager: an in-memory map for tests and prototypes, local disk, Redis and
// URL-addressed blob storage (s3://, gs://, file://, mem://).
package storage
