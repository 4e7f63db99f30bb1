// Package remotejob submits work to the external media generation services
// (speech synthesis, avatar animation, audio/video composition, question
// answering). Each service is a remote HTTP endpoint that accepts a request
// carrying files or JSON and responds with the produced bytes; this package
// adds the multipart plumbing, response content-type validation and the
// bounded retry policy shared by all of them.
package remotejob
