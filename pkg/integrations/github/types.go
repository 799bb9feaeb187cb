package github

// Tag is one entry of the repository tags listing.
type Tag struct {
	Name   string `json:"name"`
	Commit Commit `json:"commit"`
}

// Commit identifies the commit a tag points at.
type Commit struct {
	SHA string `json:"sha"`
	URL string `json:"url,omitempty"`
}
