package model

// Comment is a pull request comment as returned by the comment store.
type Comment struct {
	ID     int64
	Author string
	Body   string
}
