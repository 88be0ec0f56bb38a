// Package logging provides structured JSON logging for motiva with an
// optional size-rotated log file, and a viewer that tails, follows and
// filters those files (motivactl logs).
//
// Setup writes to Config.FilePath and, when WriteToStderr is set, to stderr
// as well; with an empty FilePath (motivad's default logging.file_path) it
// writes to stderr only.
package logging
