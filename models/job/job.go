package job

import (
	"github.com/google/uuid"
)

type State string

const (
	Queued  State = "Queued"
	Running State = "Running"
	Done    State = "Done"
	Error   State = "Error"
)

// FileJob tracks one input table through the HPO annotation run.
type FileJob struct {
	Id         uuid.UUID `json:"id"`
	Filename   string    `json:"filename"`
	OutputPath string    `json:"outputPath"`
	State      State     `json:"state"`
	Message    string    `json:"message"`
	Rows       int       `json:"rows"`
}

func NewFileJob(filename string) *FileJob {
	return &FileJob{
		Id:       uuid.New(),
		Filename: filename,
		State:    Queued,
	}
}
