// Package blobstore provides access to the S3-compatible object store that
// holds every artifact the pipeline produces: uploaded decks, rendered page
// images, audio bundles, animation clips and composed videos. Objects are
// addressed by bucket and key and exposed through stable public URLs.
package blobstore
