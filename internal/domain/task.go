package domain

// Task is a persisted to-do item. ID is assigned by the store.
type Task struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// NewTask carries the mutable fields for create and update.
type NewTask struct {
	Title string
	Done  bool
}

// TaskFilter holds optional read-query parameters for listing tasks.
// Sort and Order are raw client values; the query builder normalizes them.
type TaskFilter struct {
	Done   *bool
	Limit  int64
	Offset int64
	Sort   string
	Order  string
}
