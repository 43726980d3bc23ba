package models

// FileHandle is the opaque reference returned by the model service after a
// scratch file has been accepted. It is only valid for the conversation turn
// that immediately follows the upload and is never persisted.
type FileHandle struct {
	Name        string
	DisplayName string
	URI         string
	MIMEType    string
}
