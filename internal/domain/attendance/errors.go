package attendance

import "errors"

// Attendance domain errors
var (
	ErrNoRecords         = errors.New("no attendance records uploaded")
	ErrSnapshotNotLoaded = errors.New("attendance snapshot has not been loaded yet")
	ErrUnsupportedFile   = errors.New("unsupported file type, please use CSV or Excel files")
	ErrEmptySheet        = errors.New("worksheet is empty")
)
