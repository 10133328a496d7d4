package models

import "time"

// AuthorStat aggregates one contributor's activity on a repository's
// workflow files
type AuthorStat struct {
	Author     string `json:"author"`
	Commits    int    `json:"commits"`
	Changes    int    `json:"changes"`
	Additions  int    `json:"additions"`
	Deletions  int    `json:"deletions"`
	FilesOwned int    `json:"files_owned"`
}

// FileSummary aggregates one workflow file's change history
type FileSummary struct {
	File         string     `json:"file"`
	Events       int        `json:"events"`
	Authors      int        `json:"authors"`
	Owner        string     `json:"owner"`
	OwnerChanges int        `json:"owner_changes"`
	FirstChange  *time.Time `json:"first_change"`
	LastChange   *time.Time `json:"last_change"`
}
