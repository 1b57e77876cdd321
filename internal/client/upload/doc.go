// Package upload drives the client half of an upload session.
//
// A Tracker owns the per-file UploadProgress for one session and publishes
// every change as an Event to a Listener. A Supervisor runs one file's
// transfer with a bounded number of attempts and reconciles the file's key
// exactly once when the attempts are exhausted. Batch runs many supervised
// transfers concurrently and waits for all of them, collecting one Result
// per file.
//
// Status moves pending → uploading → completed | error. Progress stays
// below 100 until storage acknowledges the transfer.
package upload
