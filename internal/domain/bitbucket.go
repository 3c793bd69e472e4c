package domain

// Bitbucket Cloud 2.0 API shapes. Every entity is read straight from the
// remote JSON response, summarized into a tool result, and discarded; no
// local identity or cross-request linkage is kept.

// Page is the standard Bitbucket Cloud paginated response envelope.
type Page[T any] struct {
	Values  []T    `json:"values"`
	Page    int    `json:"page"`
	Pagelen int    `json:"pagelen"`
	Size    int    `json:"size"`
	Next    string `json:"next,omitempty"`
}

// Account represents a Bitbucket user account.
type Account struct {
	UUID        string `json:"uuid,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	Nickname    string `json:"nickname,omitempty"`
}

// Links holds the link set attached to most Bitbucket entities.
type Links struct {
	HTML Link `json:"html,omitempty"`
}

// Link is a single hyperlink reference.
type Link struct {
	Href string `json:"href,omitempty"`
}

// Repository represents a Bitbucket repository.
type Repository struct {
	UUID        string  `json:"uuid,omitempty"`
	Name        string  `json:"name"`
	FullName    string  `json:"full_name,omitempty"`
	Slug        string  `json:"slug,omitempty"`
	Description string  `json:"description,omitempty"`
	IsPrivate   bool    `json:"is_private"`
	Language    string  `json:"language,omitempty"`
	CreatedOn   string  `json:"created_on,omitempty"`
	UpdatedOn   string  `json:"updated_on,omitempty"`
	MainBranch  *Branch `json:"mainbranch,omitempty"`
	Project     Project `json:"project,omitempty"`
	Links       Links   `json:"links,omitempty"`
}

// Project represents a Bitbucket project within a workspace.
type Project struct {
	UUID        string `json:"uuid,omitempty"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsPrivate   bool   `json:"is_private"`
	CreatedOn   string `json:"created_on,omitempty"`
}

// Branch represents a branch or other named ref.
type Branch struct {
	Name   string `json:"name"`
	Target Target `json:"target,omitempty"`
}

// Tag represents a repository tag.
type Tag struct {
	Name   string `json:"name"`
	Target Target `json:"target,omitempty"`
}

// Target is the commit a ref points to.
type Target struct {
	Hash    string       `json:"hash,omitempty"`
	Date    string       `json:"date,omitempty"`
	Message string       `json:"message,omitempty"`
	Author  CommitAuthor `json:"author,omitempty"`
}

// Commit represents a commit in a branch's history.
type Commit struct {
	Hash    string       `json:"hash"`
	Date    string       `json:"date,omitempty"`
	Message string       `json:"message,omitempty"`
	Author  CommitAuthor `json:"author,omitempty"`
}

// CommitAuthor carries both the raw author string and the linked account.
type CommitAuthor struct {
	Raw  string   `json:"raw,omitempty"`
	User *Account `json:"user,omitempty"`
}

// PullRequest represents a Bitbucket pull request.
type PullRequest struct {
	ID                int                 `json:"id"`
	Title             string              `json:"title"`
	Description       string              `json:"description,omitempty"`
	State             string              `json:"state"` // OPEN, MERGED, DECLINED
	Author            Account             `json:"author,omitempty"`
	Source            PullRequestEndpoint `json:"source"`
	Destination       PullRequestEndpoint `json:"destination"`
	Reviewers         []Account           `json:"reviewers,omitempty"`
	CloseSourceBranch bool                `json:"close_source_branch,omitempty"`
	CommentCount      int                 `json:"comment_count,omitempty"`
	CreatedOn         string              `json:"created_on,omitempty"`
	UpdatedOn         string              `json:"updated_on,omitempty"`
	Links             Links               `json:"links,omitempty"`
}

// PullRequestEndpoint names one side of a pull request.
type PullRequestEndpoint struct {
	Branch BranchName `json:"branch"`
	Commit *Target    `json:"commit,omitempty"`
}

// BranchName wraps a branch name for endpoint and create payloads.
type BranchName struct {
	Name string `json:"name"`
}

// PullRequestCreate is the request body for creating a pull request.
type PullRequestCreate struct {
	Title             string              `json:"title"`
	Description       string              `json:"description,omitempty"`
	Source            PullRequestEndpoint `json:"source"`
	Destination       PullRequestEndpoint `json:"destination"`
	Reviewers         []AccountRef        `json:"reviewers,omitempty"`
	CloseSourceBranch bool                `json:"close_source_branch,omitempty"`
}

// AccountRef is a username reference used in create payloads.
type AccountRef struct {
	Username string `json:"username"`
}

// BranchCreate is the request body for creating a branch. The target hash
// is resolved from the source branch tip before this is posted.
type BranchCreate struct {
	Name   string     `json:"name"`
	Target HashTarget `json:"target"`
}

// HashTarget names a commit by hash.
type HashTarget struct {
	Hash string `json:"hash"`
}

// Comment represents a pull request comment.
type Comment struct {
	ID        int            `json:"id"`
	Content   CommentContent `json:"content,omitempty"`
	User      Account        `json:"user,omitempty"`
	CreatedOn string         `json:"created_on,omitempty"`
	Deleted   bool           `json:"deleted,omitempty"`
	Inline    *CommentInline `json:"inline,omitempty"`
}

// CommentContent carries the raw comment text.
type CommentContent struct {
	Raw string `json:"raw"`
}

// CommentInline locates an inline comment within a file.
type CommentInline struct {
	Path string `json:"path"`
	To   int    `json:"to,omitempty"`
}

// CommentCreate is the request body for adding a pull request comment.
type CommentCreate struct {
	Content CommentContent `json:"content"`
}

// Participant is returned by the pull request approve endpoint.
type Participant struct {
	User     Account `json:"user,omitempty"`
	Role     string  `json:"role,omitempty"`
	Approved bool    `json:"approved"`
	State    string  `json:"state,omitempty"`
}

// Deployment represents a Bitbucket Pipelines deployment.
type Deployment struct {
	UUID        string                `json:"uuid"`
	State       DeploymentState       `json:"state,omitempty"`
	Environment DeploymentEnvironment `json:"environment,omitempty"`
	LastUpdate  string                `json:"last_update_time,omitempty"`
}

// DeploymentState describes where a deployment is in its lifecycle.
type DeploymentState struct {
	Name   string           `json:"name,omitempty"`
	Status DeploymentStatus `json:"status,omitempty"`
}

// DeploymentStatus is the terminal status of a completed deployment.
type DeploymentStatus struct {
	Name string `json:"name,omitempty"`
}

// DeploymentEnvironment names the environment a deployment targets.
type DeploymentEnvironment struct {
	UUID string `json:"uuid,omitempty"`
	Name string `json:"name,omitempty"`
}
