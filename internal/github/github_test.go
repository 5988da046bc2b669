package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/contour-backend/internal/models"
)

func TestParseArchieML(t *testing.T) {
	doc := `Upload from Staticman

github_id: octocat
upload:   abc123  
benchmark_id: 1a.1
not a key line
:skip
upload: skipped
:endskip
benchmark_id: 2a.0
:ignore
github_id: ignored`

	got := ParseArchieML(doc)
	assert.Equal(t, map[string]string{
		"github_id":    "octocat",
		"upload":       "abc123",
		"benchmark_id": "2a.0",
	}, got)
}

func TestIsStaticman(t *testing.T) {
	assert.True(t, IsStaticman(models.CIData{TravisPullRequestBranch: "staticman_1234"}))
	assert.False(t, IsStaticman(models.CIData{TravisPullRequestBranch: "master"}))
	assert.False(t, IsStaticman(models.CIData{TravisPullRequestBranch: "static"}))
}

func TestComments(t *testing.T) {
	ci := models.CIData{SurgeDomain: "https://random-cat-42.surge.sh"}

	general, err := GeneralComment(ci)
	require.NoError(t, err)
	assert.Equal(t, "\nThe new [PFHub live website](https://random-cat-42.surge.sh) is ready for review.\n", general)

	body, err := StaticmanComment(ci, "github_id: octocat\nupload: sim1\nbenchmark_id: 1a.1\n")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "\n@octocat, thanks for your PFHub upload!"))
	assert.Contains(t, body, " - https://random-cat-42.surge.sh/simulations/display/?sim=sim1\n")
	assert.Contains(t, body, " - https://random-cat-42.surge.sh/simulations/1a.1\n")
	assert.Contains(t, body, "[at this link](https://random-cat-42.surge.sh/simulations/upload_form/?sim=sim1)")

	body, err = StaticmanComment(ci, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(body, "\n@, thanks"))
}

type fakeGitHub struct {
	*httptest.Server
	mu     sync.Mutex
	posted []string
	auth   []string
	prBody string
	reply  int
}

func newFakeGitHub(t *testing.T) *fakeGitHub {
	f := &fakeGitHub{reply: http.StatusCreated}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.auth = append(f.auth, r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/repos/usnistgov/pfhub/issues/7":
			json.NewEncoder(w).Encode(map[string]string{"body": f.prBody})
		case r.Method == http.MethodPost && r.URL.Path == "/repos/usnistgov/pfhub/issues/7/comments":
			var payload map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
			f.posted = append(f.posted, payload["body"])
			w.WriteHeader(f.reply)
			json.NewEncoder(w).Encode(map[string]interface{}{"id": 1})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeGitHub) snapshot() (posted, auth []string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.posted...), append([]string(nil), f.auth...)
}

func TestClientCommentGeneral(t *testing.T) {
	gh := newFakeGitHub(t)
	client := NewClient(gh.Client(), gh.URL+"/", "secret")

	res, err := client.Comment(context.Background(), models.CIData{
		TravisPullRequest:       7,
		SurgeDomain:             "https://random-cat-7.surge.sh",
		TravisPullRequestBranch: "feature",
		TravisRepoSlug:          "usnistgov/pfhub",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, map[string]interface{}{"id": float64(1)}, res.JSON)
	posted, auth := gh.snapshot()
	require.Len(t, posted, 1)
	assert.Contains(t, posted[0], "is ready for review")
	assert.Equal(t, []string{"token secret"}, auth)
}

func TestClientCommentStaticman(t *testing.T) {
	gh := newFakeGitHub(t)
	gh.mu.Lock()
	gh.prBody = "github_id: octocat\nupload: sim9\nbenchmark_id: 3a.0"
	gh.reply = http.StatusForbidden
	gh.mu.Unlock()
	client := NewClient(gh.Client(), gh.URL, "secret")

	res, err := client.Comment(context.Background(), models.CIData{
		TravisPullRequest:       7,
		SurgeDomain:             "https://random-cat-7.surge.sh",
		TravisPullRequestBranch: "staticman_abc",
		TravisRepoSlug:          "usnistgov/pfhub",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, res.StatusCode, "GitHub status is passed through")
	posted, auth := gh.snapshot()
	require.Len(t, posted, 1)
	assert.Contains(t, posted[0], "@octocat, thanks")
	assert.Contains(t, posted[0], "/simulations/3a.0")
	assert.Len(t, auth, 2)
}

func TestClientCommentUnknownPullRequest(t *testing.T) {
	gh := newFakeGitHub(t)
	client := NewClient(gh.Client(), gh.URL, "")

	_, err := client.Comment(context.Background(), models.CIData{
		TravisPullRequest:       8,
		TravisPullRequestBranch: "staticman_x",
		TravisRepoSlug:          "usnistgov/pfhub",
	})
	assert.ErrorIs(t, err, ErrRequest)
	posted, _ := gh.snapshot()
	assert.Empty(t, posted)
}
