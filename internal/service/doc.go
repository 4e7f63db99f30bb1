// Package service contains the application's business logic: the upload
// pipeline that turns a slide deck into page images and per-slide narrated
// videos, and the question-answering flow that turns a text question into
// a spoken answer. Services depend on narrow interfaces over the blob
// store, the remote job client and the document converter so they can be
// tested without external systems.
package service
