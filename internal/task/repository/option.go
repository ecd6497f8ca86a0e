package repository

// CreateTaskOptions holds parameters for inserting a new Task.
type CreateTaskOptions struct {
	Title       string
	Description string
	Category    string
	Priority    string
	DueDate     string
	Tags        []string
}

// GetOneTaskOptions holds filter parameters for fetching a single Task.
// All non-empty fields are applied as AND conditions. Title matches
// case-insensitively.
type GetOneTaskOptions struct {
	ID    string
	Title string
}

// ListTasksOptions holds filter and pagination parameters for listing Tasks.
type ListTasksOptions struct {
	Status   string
	Category string
	Limit    int
	Offset   int
}

// UpdateTaskOptions holds the full new state of an existing Task.
type UpdateTaskOptions struct {
	ID          string
	Title       string
	Description string
	Category    string
	Priority    string
	Status      string
	DueDate     string
	Tags        []string
}

// SearchTasksOptions matches tasks containing any keyword.
type SearchTasksOptions struct {
	Keywords []string
	Limit    int
}

// CreateActivityOptions holds parameters for recording an activity entry.
type CreateActivityOptions struct {
	TaskID    string
	TaskTitle string
	Action    string
	Detail    string
}

// ListActivitiesOptions filters activity. Empty TaskTitle lists everything.
type ListActivitiesOptions struct {
	TaskTitle string
	Limit     int
}
