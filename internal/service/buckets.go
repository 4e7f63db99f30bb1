package service

// Bucket names, one per artifact kind. Object keys inside the upload
// buckets follow the convention {folderName}/{artifact-role}-{name}{ext}.
const (
	bucketDecks      = "ppt-files"
	bucketPDFs       = "ppt-pdfs"
	bucketImages     = "ppt-images"
	bucketPortraits  = "user-images"
	bucketAudio      = "ppt-audio"
	bucketAnimations = "animate-video"
	bucketVideos     = "ppt-video"
	bucketAnswers    = "qa-audio"
)

// AllBuckets lists every bucket the pipeline writes to, for bootstrap at
// startup.
func AllBuckets() []string {
	return []string{
		bucketDecks,
		bucketPDFs,
		bucketImages,
		bucketPortraits,
		bucketAudio,
		bucketAnimations,
		bucketVideos,
		bucketAnswers,
	}
}
