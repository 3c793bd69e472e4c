package application

import (
	"github.com/FernandoDevOps/bitbucket-mcp-server/internal/domain"
)

// Tool name constants for every supported operation.
const (
	ToolListRepositories       = "list_repositories"
	ToolListProjects           = "list_projects"
	ToolCloneRepository        = "clone_repository"
	ToolListBranches           = "list_branches"
	ToolListTags               = "list_tags"
	ToolGetBranchCommits       = "get_branch_commits"
	ToolCreateBranch           = "create_branch"
	ToolCreatePullRequest      = "create_pull_request"
	ToolListPullRequests       = "list_pull_requests"
	ToolGetPullRequest         = "get_pull_request"
	ToolApprovePullRequest     = "approve_pull_request"
	ToolDeclinePullRequest     = "decline_pull_request"
	ToolMergePullRequest       = "merge_pull_request"
	ToolGetPullRequestComments = "get_pull_request_comments"
	ToolAddPullRequestComment  = "add_pull_request_comment"
	ToolListDeployments        = "list_deployments"
	ToolGetDeployment          = "get_deployment"
)

// Enumerated argument values. Each tool's input schema is the single source
// of truth for these; handlers re-check them before issuing remote calls.
var (
	pullRequestStates = []string{"OPEN", "MERGED", "DECLINED"}
	mergeStrategies   = []string{"merge_commit", "squash", "fast_forward"}
	cloneProtocols    = []string{"ssh", "https"}
)

// Catalog returns the full ordered operation catalog, one descriptor per
// supported operation. It is exposed verbatim by tools/list.
func Catalog() []domain.ToolDefinition {
	var defs []domain.ToolDefinition
	defs = append(defs, repositoryTools()...)
	defs = append(defs, branchTools()...)
	defs = append(defs, pullRequestTools()...)
	defs = append(defs, deploymentTools()...)
	return defs
}

// CatalogNames returns the catalog's operation names in catalog order.
func CatalogNames() []string {
	defs := Catalog()
	names := make([]string, len(defs))
	for i, def := range defs {
		names[i] = def.Name
	}
	return names
}

// Schema literal helpers.

func prop(typ, description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        typ,
		"description": description,
	}
}

func enumProp(description string, values []string, fallback string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
		"enum":        values,
		"default":     fallback,
	}
}

func intProp(description string, fallback int) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
		"default":     fallback,
	}
}

func boolProp(description string, fallback bool) map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": description,
		"default":     fallback,
	}
}

// addPagination attaches the shared page/pagelen properties to a schema
// property map.
func addPagination(properties map[string]interface{}) map[string]interface{} {
	properties["page"] = intProp("Page number to fetch (minimum 1)", defaultPage)
	properties["pagelen"] = intProp("Results per page (1-100)", defaultPagelen)
	return properties
}

// repositoryTools declares the repository group's catalog entries.
func repositoryTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolListRepositories,
			Description: "List repositories in the configured Bitbucket workspace",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: addPagination(map[string]interface{}{}),
			},
		},
		{
			Name:        ToolListProjects,
			Description: "List projects in the configured Bitbucket workspace",
			InputSchema: domain.JSONSchema{
				Type:       "object",
				Properties: addPagination(map[string]interface{}{}),
			},
		},
		{
			Name:        ToolCloneRepository,
			Description: "Verify a repository exists and generate the git clone command for it",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"repository": prop("string", "The repository slug (e.g. my-repo)"),
					"protocol":   enumProp("Clone protocol", cloneProtocols, "ssh"),
					"branch":     prop("string", "Branch to check out after cloning (optional)"),
				},
				Required: []string{"repository"},
			},
		},
	}
}

// branchTools declares the branch group's catalog entries.
func branchTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolListBranches,
			Description: "List branches in a repository",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: addPagination(map[string]interface{}{
					"repository": prop("string", "The repository slug (e.g. my-repo)"),
				}),
				Required: []string{"repository"},
			},
		},
		{
			Name:        ToolListTags,
			Description: "List tags in a repository",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: addPagination(map[string]interface{}{
					"repository": prop("string", "The repository slug (e.g. my-repo)"),
				}),
				Required: []string{"repository"},
			},
		},
		{
			Name:        ToolGetBranchCommits,
			Description: "Get the commit history of a branch",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: addPagination(map[string]interface{}{
					"repository": prop("string", "The repository slug (e.g. my-repo)"),
					"branch":     prop("string", "The branch name"),
				}),
				Required: []string{"repository", "branch"},
			},
		},
		{
			Name:        ToolCreateBranch,
			Description: "Create a new branch from the tip of a source branch",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"repository":    prop("string", "The repository slug (e.g. my-repo)"),
					"branch_name":   prop("string", "Name for the new branch"),
					"source_branch": prop("string", "Branch to create from (default: main)"),
				},
				Required: []string{"repository", "branch_name"},
			},
		},
	}
}

// pullRequestTools declares the pull-request group's catalog entries.
func pullRequestTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolCreatePullRequest,
			Description: "Create a pull request",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"repository":          prop("string", "The repository slug (e.g. my-repo)"),
					"title":               prop("string", "Pull request title"),
					"description":         prop("string", "Pull request description (optional)"),
					"source_branch":       prop("string", "Branch to merge from"),
					"destination_branch":  prop("string", "Branch to merge into (default: main)"),
					"close_source_branch": boolProp("Delete the source branch after merge", false),
					"reviewers": map[string]interface{}{
						"type":        "array",
						"description": "Reviewer usernames (optional)",
						"items":       map[string]interface{}{"type": "string"},
					},
				},
				Required: []string{"repository", "title", "source_branch"},
			},
		},
		{
			Name:        ToolListPullRequests,
			Description: "List pull requests in a repository, filtered by state",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: addPagination(map[string]interface{}{
					"repository": prop("string", "The repository slug (e.g. my-repo)"),
					"state":      enumProp("Pull request state filter", pullRequestStates, "OPEN"),
				}),
				Required: []string{"repository"},
			},
		},
		{
			Name:        ToolGetPullRequest,
			Description: "Get the details of a pull request",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"repository":      prop("string", "The repository slug (e.g. my-repo)"),
					"pull_request_id": prop("integer", "The pull request ID"),
				},
				Required: []string{"repository", "pull_request_id"},
			},
		},
		{
			Name:        ToolApprovePullRequest,
			Description: "Approve a pull request as the authenticated user",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"repository":      prop("string", "The repository slug (e.g. my-repo)"),
					"pull_request_id": prop("integer", "The pull request ID"),
				},
				Required: []string{"repository", "pull_request_id"},
			},
		},
		{
			Name:        ToolDeclinePullRequest,
			Description: "Decline a pull request",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"repository":      prop("string", "The repository slug (e.g. my-repo)"),
					"pull_request_id": prop("integer", "The pull request ID"),
				},
				Required: []string{"repository", "pull_request_id"},
			},
		},
		{
			Name:        ToolMergePullRequest,
			Description: "Merge a pull request",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"repository":          prop("string", "The repository slug (e.g. my-repo)"),
					"pull_request_id":     prop("integer", "The pull request ID"),
					"merge_strategy":      enumProp("Merge strategy", mergeStrategies, "merge_commit"),
					"close_source_branch": boolProp("Delete the source branch after merging", false),
				},
				Required: []string{"repository", "pull_request_id"},
			},
		},
		{
			Name:        ToolGetPullRequestComments,
			Description: "List the comments on a pull request",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: addPagination(map[string]interface{}{
					"repository":      prop("string", "The repository slug (e.g. my-repo)"),
					"pull_request_id": prop("integer", "The pull request ID"),
				}),
				Required: []string{"repository", "pull_request_id"},
			},
		},
		{
			Name:        ToolAddPullRequestComment,
			Description: "Add a comment to a pull request",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"repository":      prop("string", "The repository slug (e.g. my-repo)"),
					"pull_request_id": prop("integer", "The pull request ID"),
					"content":         prop("string", "Comment text"),
				},
				Required: []string{"repository", "pull_request_id", "content"},
			},
		},
	}
}

// deploymentTools declares the deployment group's catalog entries.
func deploymentTools() []domain.ToolDefinition {
	return []domain.ToolDefinition{
		{
			Name:        ToolListDeployments,
			Description: "List deployments for a repository, optionally filtered by environment name",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: addPagination(map[string]interface{}{
					"repository":  prop("string", "The repository slug (e.g. my-repo)"),
					"environment": prop("string", "Exact environment name to filter on (optional)"),
				}),
				Required: []string{"repository"},
			},
		},
		{
			Name:        ToolGetDeployment,
			Description: "Get a deployment by its UUID",
			InputSchema: domain.JSONSchema{
				Type: "object",
				Properties: map[string]interface{}{
					"repository":      prop("string", "The repository slug (e.g. my-repo)"),
					"deployment_uuid": prop("string", "The deployment UUID (braces accepted)"),
				},
				Required: []string{"repository", "deployment_uuid"},
			},
		},
	}
}
