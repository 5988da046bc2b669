package github

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/jengzang/contour-backend/internal/models"
)

var staticmanTemplate = template.Must(template.New("staticman").Parse(`
@{{.Upload.github_id}}, thanks for your PFHub upload!

You can view your upload display at

 - {{.CI.SurgeDomain}}/simulations/display/?sim={{.Upload.upload}}

and

 - {{.CI.SurgeDomain}}/simulations/{{.Upload.benchmark_id}}

Please check that the tests pass below and then review and confirm your approval to @pfhub by commenting in this pull request.

If you think there is a mistake in your upload data, then you can resubmit the upload [at this link]({{.CI.SurgeDomain}}/simulations/upload_form/?sim={{.Upload.upload}}).
`))

var generalTemplate = template.Must(template.New("general").Parse(`
The new [PFHub live website]({{.CI.SurgeDomain}}) is ready for review.
`))

type commentData struct {
	CI     models.CIData
	Upload map[string]string
}

// IsStaticman reports whether the pull request was opened by Staticman.
func IsStaticman(ci models.CIData) bool {
	return strings.HasPrefix(ci.TravisPullRequestBranch, "staticman")
}

// StaticmanComment renders the comment for a Staticman upload described
// by the ArchieML body of its pull request. Missing keys render empty.
func StaticmanComment(ci models.CIData, prBody string) (string, error) {
	upload := map[string]string{"github_id": "", "upload": "", "benchmark_id": ""}
	for k, v := range ParseArchieML(prBody) {
		upload[k] = v
	}
	return render(staticmanTemplate, commentData{CI: ci, Upload: upload})
}

// GeneralComment renders the comment announcing the preview site.
func GeneralComment(ci models.CIData) (string, error) {
	return render(generalTemplate, commentData{CI: ci})
}

func render(t *template.Template, data commentData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s comment: %w", t.Name(), err)
	}
	return buf.String(), nil
}
