package models

// CIData is the CI build information required to comment on a pull request
type CIData struct {
	TravisPullRequest       int    `json:"travis_pull_request" binding:"required"`
	SurgeDomain             string `json:"surge_domain" binding:"required,url"`
	TravisPullRequestBranch string `json:"travis_pull_request_branch" binding:"required"`
	TravisRepoSlug          string `json:"travis_repo_slug" binding:"required"`
}

// CommentResult is the GitHub reply to a posted comment
type CommentResult struct {
	StatusCode int         `json:"status_code"`
	JSON       interface{} `json:"json"`
}
