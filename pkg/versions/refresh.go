package versions

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/rustprint/pkg/integrations/github"
	"github.com/matzehuels/rustprint/pkg/observability"
)

// Default upstream repository for rustc release tags.
const (
	DefaultOwner = "rust-lang"
	DefaultRepo  = "rust"
)

// TagSource lists every tag of a repository.
// *github.Client satisfies it.
type TagSource interface {
	AllTags(ctx context.Context, owner, repo string, refresh bool) ([]github.Tag, error)
}

var _ TagSource = (*github.Client)(nil)

// FromTags builds a table mapping each tag's commit SHA to its name.
// When several tags share a commit, the later one in the listing wins.
func FromTags(tags []github.Tag) Table {
	t := make(Table, len(tags))
	for _, tag := range tags {
		if tag.Commit.SHA == "" {
			continue
		}
		t[tag.Commit.SHA] = tag.Name
	}
	return t
}

// Refresher rebuilds the version table from Source and saves it to Path.
type Refresher struct {
	Source  TagSource
	Owner   string // defaults to DefaultOwner
	Repo    string // defaults to DefaultRepo
	Path    string // defaults to DefaultFile
	Refresh bool   // bypass cached tag pages
	Logger  *log.Logger
}

// Run fetches all tags, converts them, and writes the table. Any fetch or
// write failure aborts the refresh and leaves an existing file untouched.
func (r *Refresher) Run(ctx context.Context) (Table, error) {
	owner, repo, path := r.Owner, r.Repo, r.Path
	if owner == "" {
		owner = DefaultOwner
	}
	if repo == "" {
		repo = DefaultRepo
	}
	if path == "" {
		path = DefaultFile
	}
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}

	source := owner + "/" + repo
	hooks := observability.Analysis()
	hooks.OnRefreshStart(ctx, source)
	start := time.Now()

	table, err := r.run(ctx, logger, owner, repo, path)
	hooks.OnRefreshComplete(ctx, source, table.Len(), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	return table, nil
}

func (r *Refresher) run(ctx context.Context, logger *log.Logger, owner, repo, path string) (Table, error) {
	logger.Info("fetching tags", "repo", owner+"/"+repo)
	tags, err := r.Source.AllTags(ctx, owner, repo, r.Refresh)
	if err != nil {
		return nil, err
	}
	logger.Info("found tags", "count", len(tags))

	table := FromTags(tags)
	for _, tag := range tags {
		logger.Debug("tag", "name", tag.Name, "sha", tag.Commit.SHA)
	}

	if err := Save(path, table); err != nil {
		return nil, err
	}
	logger.Info("saved version mappings", "entries", table.Len(), "path", path)
	return table, nil
}
